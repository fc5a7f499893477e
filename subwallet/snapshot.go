package subwallet

import "github.com/cryptonote-community/walletcore/types"

// Snapshot is the `subWallets` object of spec.md §6's JSON snapshot
// schema: `{ publicSpendKeys, subWallet[], transactions[],
// lockedTransactions[], privateViewKey, isViewWallet, txPrivateKeys[] }`.
type Snapshot struct {
	PublicSpendKeys    []types.PublicKey    `json:"publicSpendKeys"`
	SubWallet          []*Subwallet         `json:"subWallet"`
	Transactions       []types.Transaction  `json:"transactions"`
	LockedTransactions []types.Transaction  `json:"lockedTransactions"`
	PrivateViewKey     types.PrivateKey     `json:"privateViewKey"`
	IsViewWallet       bool                 `json:"isViewWallet"`
	TxPrivateKeys      []TxPrivateKeyEntry  `json:"txPrivateKeys"`
}

// TxPrivateKeyEntry is one element of the `txPrivateKeys` array: the
// per-transaction private key this wallet generated when it built that
// transaction (spec.md §3: needed to later prove payment).
type TxPrivateKeyEntry struct {
	TransactionHash types.Hash       `json:"transactionHash"`
	TxPrivateKey    types.PrivateKey `json:"txPrivateKey"`
}

// ToSnapshot renders the collection into the wire schema.
func (c *Collection) ToSnapshot() Snapshot {
	subWallets := make([]*Subwallet, 0, len(c.Subwallets))
	for _, k := range c.PublicSpendKeys {
		if sw, ok := c.Subwallets[k]; ok {
			subWallets = append(subWallets, sw)
		}
	}
	entries := make([]TxPrivateKeyEntry, 0, len(c.TxPrivateKeys))
	for hash, key := range c.TxPrivateKeys {
		entries = append(entries, TxPrivateKeyEntry{TransactionHash: hash, TxPrivateKey: key})
	}
	return Snapshot{
		PublicSpendKeys:    c.PublicSpendKeys,
		SubWallet:          subWallets,
		Transactions:       c.Transactions,
		LockedTransactions: c.LockedTransactions,
		PrivateViewKey:     c.PrivateViewKey,
		IsViewWallet:       c.IsViewWallet(),
		TxPrivateKeys:      entries,
	}
}

// FromSnapshot rebuilds a Collection from its wire schema, including the
// derived key-image index (spec.md §9: "never persist it; treat it as a
// cache" — RebuildKeyImageIndex reconstructs it from the restored inputs).
func FromSnapshot(snap Snapshot) *Collection {
	c := New(snap.PrivateViewKey)
	c.PublicSpendKeys = snap.PublicSpendKeys
	c.Transactions = snap.Transactions
	c.LockedTransactions = snap.LockedTransactions
	for _, sw := range snap.SubWallet {
		c.Subwallets[sw.PublicSpendKey] = sw
	}
	for _, e := range snap.TxPrivateKeys {
		c.TxPrivateKeys[e.TransactionHash] = e.TxPrivateKey
	}
	c.RebuildKeyImageIndex()
	return c
}
