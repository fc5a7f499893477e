package types

import "time"

// MaxBlockNumber is the CryptoNote convention boundary between a lock time
// expressed as a block height and one expressed as a unix timestamp. Any
// unlockTime below this value is a height; at or above it, a timestamp.
const MaxBlockNumber = uint64(500000000)

// MaxOutputSizeClient bounds any single denomination produced by
// SplitAmountIntoDenominations before it must be subdivided further.
const MaxOutputSizeClient = uint64(100000000000000)

// Fusion, decoy and checkpoint tuning constants, spec.md §4.1, §4.2, §4.4.
const (
	FusionTxMinInputCount      = 12
	FusionTxMinInOutCountRatio = 4
	MaxFusionTxSize            = 16384
	ObscurityRadius            = 10
	RollingCheckpointWindow    = 100
	SparseCheckpointSpacing    = 5000
	SpentInputPruneWindow      = 5000
	BlockFetchOpportunityStride = 10
	CoinbaseReserveBytes       = 600
	MaxBlockSizeInitial        = 100000
	MaxBlockSizeHardCap        = 125000
)

// Default periods for the cooperative scheduler, spec.md §5.
const (
	DefaultRequestTimeout       = 5 * time.Second
	DefaultSyncTickInterval     = time.Second
	DefaultDaemonUpdateInterval = 10 * time.Second
	DefaultCancellationInterval = 30 * time.Second
)

// Tx-size estimator per-field byte counts, spec.md §6.
const (
	SizeKeyImage          = 32
	SizeOutputKey         = 32
	SizeAmount            = 10
	SizeGlobalIndexHeader = 5
	SizeGlobalIndexEntry  = 4
	SizeSignature         = 64
	SizeExtraTag          = 1
	SizeInputTag          = 1
	SizeOutputTag         = 1
	SizePubKey            = 32
	SizeTxVersion         = 1
	SizeUnlockTime        = 10
	SizePaymentID         = 34
)

// PrettyDigits is the set of leading digits a "pretty amount" may carry.
var PrettyDigits = [9]uint64{1, 2, 3, 4, 5, 6, 7, 8, 9}
