package txbuilder

import (
	"context"

	"github.com/cryptonote-community/walletcore/types"
)

// PreparedTransaction is a built-but-not-relayed transaction held for
// later relay, spec.md §4.4 "Prepared transactions".
type PreparedTransaction struct {
	Built *BuiltTransaction
}

// PrepareStore holds prepared transactions by hash, keyed for later relay.
type PrepareStore struct {
	byHash map[types.Hash]*PreparedTransaction
}

// NewPrepareStore returns an empty PrepareStore.
func NewPrepareStore() *PrepareStore {
	return &PrepareStore{byHash: make(map[types.Hash]*PreparedTransaction)}
}

// Hold registers a built transaction as prepared, without submitting it.
func (s *PrepareStore) Hold(built *BuiltTransaction) {
	s.byHash[built.Hash] = &PreparedTransaction{Built: built}
}

// Relay re-checks every input of a previously prepared transaction is
// still unspent and unlocked before submitting it (spec.md §4.4
// "Prepared transactions": "otherwise fail PREPARED_TRANSACTION_EXPIRED").
func (b *Builder) Relay(ctx context.Context, store *PrepareStore, hash types.Hash, currentHeight, nowUnix uint64) (types.Transaction, error) {
	prepared, ok := store.byHash[hash]
	if !ok {
		return types.Transaction{}, types.ErrPreparedTransactionNotFound
	}

	for _, in := range prepared.Built.Inputs {
		sw, ok := b.Collection.Subwallets[in.Owner]
		if !ok {
			return types.Transaction{}, types.ErrPreparedTransactionExpired
		}
		current, ok := sw.Unspent[in.Input.KeyImage]
		if !ok || !current.Unlocked(currentHeight, nowUnix) {
			return types.Transaction{}, types.ErrPreparedTransactionExpired
		}
	}

	delete(store.byHash, hash)
	return b.Submit(ctx, prepared.Built)
}
