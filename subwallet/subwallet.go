// Package subwallet implements the per-account input ledger state machine
// described in spec.md §4.3: each Subwallet tracks its inputs across four
// disjoint sets (unspent, locked, spent, unconfirmedIncoming) and the
// collection that owns every subwallet maintains the derived key-image
// index described in spec.md §3 and §9 ("Cyclic back-references").
//
// Grounded on the teacher's modules/wallet money.go/outputs.go pattern of
// small, mutex-free methods operating on in-memory maps that the wallet
// façade calls under its own lock (spec.md §5: "single-writer over wallet
// state").
package subwallet

import (
	"errors"

	"github.com/cryptonote-community/walletcore/types"
)

// Subwallet is one account's view of the chain: its own inputs, its
// address material, and bookkeeping about when it started syncing.
type Subwallet struct {
	PublicSpendKey  types.PublicKey  `json:"publicSpendKey"`
	PrivateSpendKey *types.PrivateKey `json:"privateSpendKey,omitempty"`

	SyncStartHeight    uint64 `json:"syncStartHeight"`
	SyncStartTimestamp uint64 `json:"syncStartTimestamp"`
	Address            string `json:"address"`
	IsPrimary          bool   `json:"isPrimary"`

	Unspent             map[types.KeyImage]types.TransactionInput `json:"unspent"`
	Locked              map[types.KeyImage]types.TransactionInput `json:"locked"`
	Spent               map[types.KeyImage]types.TransactionInput `json:"spent"`
	UnconfirmedIncoming []types.UnconfirmedInput                  `json:"unconfirmedIncoming"`
}

// New creates an empty Subwallet for the given keypair.
func New(publicSpendKey types.PublicKey, privateSpendKey *types.PrivateKey, address string, isPrimary bool, syncStartHeight, syncStartTimestamp uint64) *Subwallet {
	return &Subwallet{
		PublicSpendKey:      publicSpendKey,
		PrivateSpendKey:     privateSpendKey,
		SyncStartHeight:     syncStartHeight,
		SyncStartTimestamp:  syncStartTimestamp,
		Address:             address,
		IsPrimary:           isPrimary,
		Unspent:             make(map[types.KeyImage]types.TransactionInput),
		Locked:              make(map[types.KeyImage]types.TransactionInput),
		Spent:               make(map[types.KeyImage]types.TransactionInput),
		UnconfirmedIncoming: nil,
	}
}

// IsViewOnly reports whether this subwallet cannot compute key images (i.e.
// lacks the private spend key to do so).
func (s *Subwallet) IsViewOnly() bool { return s.PrivateSpendKey == nil }

var errDuplicateInput = errors.New("subwallet: duplicate input (same key image already tracked)")

// StoreTransactionInput records a newly-detected output as unspent.
// spec.md §4.3: "if not view-only, first remove any unconfirmedIncoming
// entry with the same outputKey (self-sent change arriving); reject
// duplicates (log error, no-op)."
func (s *Subwallet) StoreTransactionInput(input types.TransactionInput, log func(string, ...interface{})) {
	if !s.IsViewOnly() {
		s.removeUnconfirmedIncomingByOutputKey(input.OutputKey)
	}
	if _, exists := s.Unspent[input.KeyImage]; exists {
		log("duplicate input for key image %s in subwallet %s", input.KeyImage, s.PublicSpendKey)
		return
	}
	if _, exists := s.Locked[input.KeyImage]; exists {
		log("duplicate input for key image %s in subwallet %s", input.KeyImage, s.PublicSpendKey)
		return
	}
	if _, exists := s.Spent[input.KeyImage]; exists {
		log("duplicate input for key image %s in subwallet %s", input.KeyImage, s.PublicSpendKey)
		return
	}
	s.Unspent[input.KeyImage] = input
}

func (s *Subwallet) removeUnconfirmedIncomingByOutputKey(outputKey types.PublicKey) {
	out := s.UnconfirmedIncoming[:0]
	for _, u := range s.UnconfirmedIncoming {
		if u.OutputKey != outputKey {
			out = append(out, u)
		}
	}
	s.UnconfirmedIncoming = out
}

// StoreUnconfirmedIncoming records self-sent change for a transaction we
// just submitted, so the locked balance reflects it before confirmation.
func (s *Subwallet) StoreUnconfirmedIncoming(u types.UnconfirmedInput) {
	s.UnconfirmedIncoming = append(s.UnconfirmedIncoming, u)
}

// MarkInputAsSpent moves an input to the spent set, setting spendHeight.
// spec.md §4.3: "remove from unspent; if not found, remove from locked; if
// still not found, log error."
func (s *Subwallet) MarkInputAsSpent(keyImage types.KeyImage, height uint64, log func(string, ...interface{})) {
	input, ok := s.Unspent[keyImage]
	if ok {
		delete(s.Unspent, keyImage)
	} else {
		input, ok = s.Locked[keyImage]
		if ok {
			delete(s.Locked, keyImage)
		}
	}
	if !ok {
		log("markInputAsSpent: key image %s not found in unspent or locked for subwallet %s", keyImage, s.PublicSpendKey)
		return
	}
	input.SpendHeight = height
	s.Spent[keyImage] = input
}

// MarkInputAsLocked moves an input from unspent to locked, e.g. because a
// just-submitted (not yet confirmed) transaction spends it.
func (s *Subwallet) MarkInputAsLocked(keyImage types.KeyImage) bool {
	input, ok := s.Unspent[keyImage]
	if !ok {
		return false
	}
	delete(s.Unspent, keyImage)
	s.Locked[keyImage] = input
	return true
}

// RemoveCancelledTransaction returns every locked input whose ParentTxHash
// matches txHash back to unspent, and drops matching unconfirmedIncoming
// entries. spec.md §4.2 findCancelled / §4.3.
func (s *Subwallet) RemoveCancelledTransaction(txHash types.Hash) {
	for ki, input := range s.Locked {
		if input.ParentTxHash == txHash {
			delete(s.Locked, ki)
			input.SpendHeight = 0
			s.Unspent[ki] = input
		}
	}
	out := s.UnconfirmedIncoming[:0]
	for _, u := range s.UnconfirmedIncoming {
		if u.ParentTxHash != txHash {
			out = append(out, u)
		}
	}
	s.UnconfirmedIncoming = out
}

// RemoveForkedTransactions rewinds the ledger past a fork at forkHeight.
// spec.md §4.3 and the resolved Open Question in spec.md §9 / SPEC_FULL.md
// §9: every spent input is only reset to unspent (spendHeight = 0) if it
// was spent at or after forkHeight; a spent input whose spendHeight
// predates the fork stays spent. Returns the key images removed entirely
// (inputs whose blockHeight >= forkHeight) so the owning collection can
// drop them from its keyImageOwners index.
func (s *Subwallet) RemoveForkedTransactions(forkHeight uint64) []types.KeyImage {
	s.UnconfirmedIncoming = nil

	var removed []types.KeyImage
	for ki, input := range s.Unspent {
		if input.BlockHeight >= forkHeight {
			delete(s.Unspent, ki)
			removed = append(removed, ki)
		}
	}
	for ki, input := range s.Locked {
		if input.BlockHeight >= forkHeight {
			delete(s.Locked, ki)
			removed = append(removed, ki)
		}
	}
	for ki, input := range s.Spent {
		if input.BlockHeight >= forkHeight {
			delete(s.Spent, ki)
			removed = append(removed, ki)
			continue
		}
		if input.SpendHeight >= forkHeight {
			// Spent after the fork point by a transaction that is itself
			// being rewound, but the output's own creating block
			// predates the fork: it returns to unspent. This is the
			// "only for inputs that were spent after the fork" semantics
			// SPEC_FULL.md §9 resolves the Open Question to.
			delete(s.Spent, ki)
			input.SpendHeight = 0
			s.Unspent[ki] = input
		}
	}
	return removed
}

// PruneSpentInputs discards spent inputs older than cutoff. spec.md §4.2
// step 2: "forks deeper than this are accepted as unrecoverable."
func (s *Subwallet) PruneSpentInputs(cutoff uint64) {
	for ki, input := range s.Spent {
		if input.SpendHeight < cutoff {
			delete(s.Spent, ki)
		}
	}
}

// Reset clears all four input sets and re-anchors the subwallet's sync
// start point, spec.md §4.3.
func (s *Subwallet) Reset(height, timestamp uint64) {
	s.Unspent = make(map[types.KeyImage]types.TransactionInput)
	s.Locked = make(map[types.KeyImage]types.TransactionInput)
	s.Spent = make(map[types.KeyImage]types.TransactionInput)
	s.UnconfirmedIncoming = nil
	s.SyncStartHeight = height
	s.SyncStartTimestamp = timestamp
}

// Balance computes (unlocked, locked), spec.md §4.3.
func (s *Subwallet) Balance(currentHeight, nowUnix uint64) (unlocked, locked uint64) {
	for _, input := range s.Unspent {
		if input.Unlocked(currentHeight, nowUnix) {
			unlocked += input.Amount
		} else {
			locked += input.Amount
		}
	}
	for _, input := range s.Locked {
		locked += input.Amount
	}
	for _, u := range s.UnconfirmedIncoming {
		locked += u.Amount
	}
	return unlocked, locked
}

// SpendableInputs returns every unspent input that is currently unlocked,
// the candidate set for transaction input selection (spec.md §4.4 step 1).
func (s *Subwallet) SpendableInputs(currentHeight, nowUnix uint64) []types.TransactionInput {
	var out []types.TransactionInput
	for _, input := range s.Unspent {
		if input.Unlocked(currentHeight, nowUnix) {
			out = append(out, input)
		}
	}
	return out
}
