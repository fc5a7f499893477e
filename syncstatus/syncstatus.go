// Package syncstatus implements spec.md §4.1: the rolling block-hash
// window plus sparse checkpoints that let the synchronizer resume across
// restarts and survive forks. Grounded on the teacher's
// transactionpool/consensus-subscription checkpointing idiom (rivine
// subscribes from modules.ConsensusChangeBeginning and replays; this
// wallet instead hands the node an explicit checkpoint vector).
package syncstatus

import "github.com/cryptonote-community/walletcore/types"

const (
	// RollingWindowSize is N in spec.md §4.1.
	RollingWindowSize = 100
	// CheckpointSpacing is K in spec.md §4.1.
	CheckpointSpacing = 5000
)

// Status is the SynchronizationStatus of spec.md §3/§4.1.
type Status struct {
	// LastKnownBlockHashes is newest-first, capped at RollingWindowSize.
	LastKnownBlockHashes []types.Hash `json:"lastKnownBlockHashes"`
	// BlockHashCheckpoints is newest-first, one every CheckpointSpacing.
	BlockHashCheckpoints []types.Hash `json:"blockHashCheckpoints"`
	LastKnownBlockHeight uint64       `json:"lastKnownBlockHeight"`
}

// New returns an empty Status, ready to track sync from genesis.
func New() *Status {
	return &Status{}
}

// StoreBlockHash appends a newly-confirmed block hash, enforcing the
// contiguous-height invariant spec.md §4.1 describes: "if height >
// lastKnownHeight and lastKnownHeight != 0, fails unless height ==
// lastKnownHeight + 1". A height at or below LastKnownBlockHeight (the
// replacement block of a fork rewind) is accepted without that check and
// becomes the new LastKnownBlockHeight.
func (s *Status) StoreBlockHash(height uint64, hash types.Hash) error {
	if height > s.LastKnownBlockHeight && s.LastKnownBlockHeight != 0 {
		if height != s.LastKnownBlockHeight+1 {
			return types.NewFatalError(types.ErrBlockHashSequenceGap)
		}
	}

	s.LastKnownBlockHashes = append([]types.Hash{hash}, s.LastKnownBlockHashes...)
	if len(s.LastKnownBlockHashes) > RollingWindowSize {
		s.LastKnownBlockHashes = s.LastKnownBlockHashes[:RollingWindowSize]
	}

	if height%CheckpointSpacing == 0 {
		s.BlockHashCheckpoints = append([]types.Hash{hash}, s.BlockHashCheckpoints...)
	}

	s.LastKnownBlockHeight = height
	return nil
}

// GetProcessedCheckpoints returns the dense rolling window followed by the
// sparse checkpoints, newest first — the array the node uses to locate the
// resume point (spec.md §4.1).
func (s *Status) GetProcessedCheckpoints() []types.Hash {
	out := make([]types.Hash, 0, len(s.LastKnownBlockHashes)+len(s.BlockHashCheckpoints))
	out = append(out, s.LastKnownBlockHashes...)
	out = append(out, s.BlockHashCheckpoints...)
	return out
}

// Snapshot is the `walletSynchronizer` object of spec.md §6's JSON
// snapshot schema.
type Snapshot struct {
	StartTimestamp uint64           `json:"startTimestamp"`
	StartHeight    uint64           `json:"startHeight"`
	PrivateViewKey types.PrivateKey `json:"privateViewKey"`
	Status         StatusFields     `json:"transactionSynchronizerStatus"`
}

// StatusFields is the nested `transactionSynchronizerStatus` object.
type StatusFields struct {
	BlockHashCheckpoints []types.Hash `json:"blockHashCheckpoints"`
	LastKnownBlockHashes []types.Hash `json:"lastKnownBlockHashes"`
	LastKnownBlockHeight uint64       `json:"lastKnownBlockHeight"`
}

// ToSnapshot renders s into the `transactionSynchronizerStatus` object,
// alongside the synchronizer's own transient start point and the
// container-wide private view key the node uses to locate our outputs.
func (s *Status) ToSnapshot(startTimestamp, startHeight uint64, privateViewKey types.PrivateKey) Snapshot {
	return Snapshot{
		StartTimestamp: startTimestamp,
		StartHeight:    startHeight,
		PrivateViewKey: privateViewKey,
		Status: StatusFields{
			BlockHashCheckpoints: s.BlockHashCheckpoints,
			LastKnownBlockHashes: s.LastKnownBlockHashes,
			LastKnownBlockHeight: s.LastKnownBlockHeight,
		},
	}
}

// FromSnapshot rebuilds a Status from its wire schema.
func FromSnapshot(snap Snapshot) *Status {
	return &Status{
		LastKnownBlockHashes: snap.Status.LastKnownBlockHashes,
		BlockHashCheckpoints: snap.Status.BlockHashCheckpoints,
		LastKnownBlockHeight: snap.Status.LastKnownBlockHeight,
	}
}
