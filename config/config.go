// Package config collects the "Configurable constants" spec.md §6 lists,
// in the style of the teacher's modules.DefaultXConfig() constructors.
package config

import "time"

// Config holds every tunable named in spec.md §6.
type Config struct {
	DecimalPlaces  uint8
	AddressPrefix  uint64

	RequestTimeout time.Duration
	BlockTargetTime time.Duration

	MainLoopInterval             time.Duration // "ticker": sync task period
	DaemonUpdateInterval         time.Duration
	LockedTransactionsCheckInterval time.Duration

	MinimumFeePerByte  uint64
	FeePerByteChunkSize uint64

	BlocksPerDaemonRequest  uint64
	BlockStoreMemoryLimit   uint64
	MaxBodyResponseSize     uint64
	BlocksPerTick           uint64

	ScanCoinbaseTransactions bool

	MaxLastUpdatedNetworkHeightInterval time.Duration
	MaxLastUpdatedLocalHeightInterval   time.Duration

	DefaultMixin uint64
}

// Default returns the spec's approximate default values.
func Default() Config {
	return Config{
		DecimalPlaces:  2,
		AddressPrefix:  0,

		RequestTimeout:  5 * time.Second,
		BlockTargetTime: 30 * time.Second,

		MainLoopInterval:                 time.Second,
		DaemonUpdateInterval:             10 * time.Second,
		LockedTransactionsCheckInterval:  30 * time.Second,

		MinimumFeePerByte:   1,
		FeePerByteChunkSize: 256,

		BlocksPerDaemonRequest: 100,
		BlockStoreMemoryLimit:  50 * 1000 * 1000,
		MaxBodyResponseSize:    10 * 1000 * 1000,
		BlocksPerTick:          10,

		ScanCoinbaseTransactions: true,

		MaxLastUpdatedNetworkHeightInterval: 20 * time.Second,
		MaxLastUpdatedLocalHeightInterval:   20 * time.Second,

		DefaultMixin: 3,
	}
}
