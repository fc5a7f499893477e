package subwallet

import (
	"fmt"
	"sort"

	"github.com/cryptonote-community/walletcore/types"
)

// Collection is the container-wide SubwalletCollection of spec.md §3: all
// subwallets sharing one private view key, the confirmed and unconfirmed
// transaction histories, the per-transaction private keys the wallet
// itself generated, and the derived keyImageOwners index.
type Collection struct {
	Subwallets      map[types.PublicKey]*Subwallet `json:"-"`
	PublicSpendKeys []types.PublicKey              `json:"publicSpendKeys"`

	Transactions       []types.Transaction `json:"transactions"`
	LockedTransactions []types.Transaction `json:"lockedTransactions"`

	PrivateViewKey types.PrivateKey                    `json:"privateViewKey"`
	TxPrivateKeys  map[types.Hash]types.PrivateKey      `json:"txPrivateKeys"`

	// keyImageOwners is a derived cache, never persisted (spec.md §9):
	// rebuilt from the subwallets' own inputs on load.
	keyImageOwners map[types.KeyImage]types.PublicKey
}

// New creates an empty Collection for a given private view key.
func New(privateViewKey types.PrivateKey) *Collection {
	return &Collection{
		Subwallets:     make(map[types.PublicKey]*Subwallet),
		TxPrivateKeys:  make(map[types.Hash]types.PrivateKey),
		PrivateViewKey: privateViewKey,
		keyImageOwners: make(map[types.KeyImage]types.PublicKey),
	}
}

// IsViewWallet reports whether no subwallet has a private spend key.
func (c *Collection) IsViewWallet() bool {
	for _, sw := range c.Subwallets {
		if !sw.IsViewOnly() {
			return false
		}
	}
	return true
}

// AddSubwallet registers a new subwallet, failing if one with the same
// public spend key already exists (spec.md §7 "subwallet-already-exists").
func (c *Collection) AddSubwallet(sw *Subwallet) error {
	if _, exists := c.Subwallets[sw.PublicSpendKey]; exists {
		return types.ErrSubwalletAlreadyExists
	}
	c.Subwallets[sw.PublicSpendKey] = sw
	c.PublicSpendKeys = append(c.PublicSpendKeys, sw.PublicSpendKey)
	return nil
}

// DeleteSubwallet removes a non-primary subwallet, dropping its key images
// from the index. spec.md §3 invariant: the primary subwallet cannot be
// deleted.
func (c *Collection) DeleteSubwallet(publicSpendKey types.PublicKey) error {
	sw, ok := c.Subwallets[publicSpendKey]
	if !ok {
		return types.ErrAddressNotInWallet
	}
	if sw.IsPrimary {
		return types.ErrCannotDeletePrimary
	}
	for ki := range sw.Unspent {
		delete(c.keyImageOwners, ki)
	}
	for ki := range sw.Locked {
		delete(c.keyImageOwners, ki)
	}
	for ki := range sw.Spent {
		delete(c.keyImageOwners, ki)
	}
	delete(c.Subwallets, publicSpendKey)
	for i, k := range c.PublicSpendKeys {
		if k == publicSpendKey {
			c.PublicSpendKeys = append(c.PublicSpendKeys[:i], c.PublicSpendKeys[i+1:]...)
			break
		}
	}
	return nil
}

// OwnerOfKeyImage looks up which subwallet owns a key image, via the
// derived index.
func (c *Collection) OwnerOfKeyImage(ki types.KeyImage) (types.PublicKey, bool) {
	owner, ok := c.keyImageOwners[ki]
	return owner, ok
}

// OwnerOfSpendKey reports whether publicSpendKey belongs to one of our own
// subwallets, used to detect self-sent change outputs while building a
// transaction (spec.md §4.4 "Submit": "record each ours-incoming stealth
// output as an UnconfirmedIncomingInput").
func (c *Collection) OwnerOfSpendKey(publicSpendKey types.PublicKey) (types.PublicKey, bool) {
	_, ok := c.Subwallets[publicSpendKey]
	return publicSpendKey, ok
}

// RegisterKeyImage adds ki to the derived index, owned by publicSpendKey.
// Every key image across all subwallets appears exactly once here
// (spec.md §3 invariant).
func (c *Collection) RegisterKeyImage(ki types.KeyImage, publicSpendKey types.PublicKey) {
	c.keyImageOwners[ki] = publicSpendKey
}

// RebuildKeyImageIndex reconstructs keyImageOwners from the subwallets'
// own input sets. Called once after restoring a persisted snapshot
// (spec.md §9: "never persist it; treat it as a cache").
func (c *Collection) RebuildKeyImageIndex() {
	c.keyImageOwners = make(map[types.KeyImage]types.PublicKey)
	for pub, sw := range c.Subwallets {
		for ki := range sw.Unspent {
			c.keyImageOwners[ki] = pub
		}
		for ki := range sw.Locked {
			c.keyImageOwners[ki] = pub
		}
		for ki := range sw.Spent {
			c.keyImageOwners[ki] = pub
		}
	}
}

// AppendConfirmedTransaction appends t to the confirmed history, removing
// any matching entry from lockedTransactions so the two lists stay
// disjoint by hash (spec.md §5 ordering guarantee).
func (c *Collection) AppendConfirmedTransaction(t types.Transaction) {
	out := c.LockedTransactions[:0]
	for _, lt := range c.LockedTransactions {
		if lt.Hash != t.Hash {
			out = append(out, lt)
		}
	}
	c.LockedTransactions = out
	c.Transactions = append(c.Transactions, t)
}

// AppendLockedTransaction records a just-submitted outgoing transaction as
// unconfirmed.
func (c *Collection) AppendLockedTransaction(t types.Transaction) {
	c.LockedTransactions = append(c.LockedTransactions, t)
}

// RemoveCancelledTransaction reverts a transaction the node no longer
// knows about: every subwallet's matching locked inputs return to
// unspent, and the locked transaction entry is dropped. spec.md §4.2
// findCancelled.
func (c *Collection) RemoveCancelledTransaction(txHash types.Hash) {
	for _, sw := range c.Subwallets {
		sw.RemoveCancelledTransaction(txHash)
	}
	out := c.LockedTransactions[:0]
	for _, lt := range c.LockedTransactions {
		if lt.Hash != txHash {
			out = append(out, lt)
		}
	}
	c.LockedTransactions = out
}

// RemoveForkedTransactions rewinds every subwallet past forkHeight,
// updates the key-image index accordingly, and drops confirmed
// transactions at or after the fork height (spec.md §4.2 step 1, §8
// scenario 5).
func (c *Collection) RemoveForkedTransactions(forkHeight uint64) {
	for _, sw := range c.Subwallets {
		removed := sw.RemoveForkedTransactions(forkHeight)
		for _, ki := range removed {
			delete(c.keyImageOwners, ki)
		}
	}
	kept := c.Transactions[:0]
	for _, t := range c.Transactions {
		if t.BlockHeight < forkHeight {
			kept = append(kept, t)
		}
	}
	c.Transactions = kept
}

// PruneSpentInputs discards spent inputs older than cutoff across every
// subwallet, spec.md §4.2 step 2.
func (c *Collection) PruneSpentInputs(cutoff uint64) {
	for _, sw := range c.Subwallets {
		sw.PruneSpentInputs(cutoff)
	}
}

// TotalBalance sums the unlocked/locked balance across every subwallet in
// the given set (nil/empty means "all subwallets").
func (c *Collection) TotalBalance(currentHeight, nowUnix uint64, subwallets []types.PublicKey) (unlocked, locked uint64) {
	keys := subwallets
	if len(keys) == 0 {
		keys = c.PublicSpendKeys
	}
	for _, k := range keys {
		sw, ok := c.Subwallets[k]
		if !ok {
			continue
		}
		u, l := sw.Balance(currentHeight, nowUnix)
		unlocked += u
		locked += l
	}
	return unlocked, locked
}

// OwnedInput is an input tagged with its owning public spend key.
type OwnedInput struct {
	Owner types.PublicKey
	Input types.TransactionInput
}

// SpendableInputs gathers spendable inputs (spec.md §4.4 step 1) across
// the given subwallets, tagged with their owning public spend key.
func (c *Collection) SpendableInputs(currentHeight, nowUnix uint64, subwallets []types.PublicKey) []OwnedInput {
	keys := subwallets
	if len(keys) == 0 {
		keys = c.PublicSpendKeys
	}
	var out []OwnedInput
	for _, k := range keys {
		sw, ok := c.Subwallets[k]
		if !ok {
			continue
		}
		for _, in := range sw.SpendableInputs(currentHeight, nowUnix) {
			out = append(out, OwnedInput{Owner: k, Input: in})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Input.Amount < out[j].Input.Amount })
	return out
}

// CollapseSyncStartToHeight rewrites every subwallet's sync start point
// from a timestamp to a concrete height, once the first synced batch has
// resolved what that height actually was (spec.md §4.2 fetch: "timestamps
// are treated as transient").
func (c *Collection) CollapseSyncStartToHeight(height uint64) {
	for _, sw := range c.Subwallets {
		if sw.SyncStartTimestamp != 0 {
			sw.SyncStartHeight = height
			sw.SyncStartTimestamp = 0
		}
	}
}

// PrimarySubwallet returns the one subwallet with IsPrimary set.
func (c *Collection) PrimarySubwallet() (*Subwallet, error) {
	for _, sw := range c.Subwallets {
		if sw.IsPrimary {
			return sw, nil
		}
	}
	return nil, fmt.Errorf("subwallet collection: no primary subwallet (invariant violated)")
}
