package subwallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptonote-community/walletcore/types"
)

func noopLog(string, ...interface{}) {}

func keyImage(n byte) types.KeyImage {
	var k types.KeyImage
	k[0] = n
	return k
}

func TestStoreAndSpendLifecycle(t *testing.T) {
	sk := types.PrivateKey{1}
	sw := New(types.PublicKey{1}, &sk, "addr1", true, 0, 0)

	input := types.TransactionInput{KeyImage: keyImage(1), Amount: 100, BlockHeight: 10}
	sw.StoreTransactionInput(input, noopLog)
	require.Contains(t, sw.Unspent, keyImage(1))

	ok := sw.MarkInputAsLocked(keyImage(1))
	require.True(t, ok)
	require.Contains(t, sw.Locked, keyImage(1))
	require.NotContains(t, sw.Unspent, keyImage(1))

	sw.MarkInputAsSpent(keyImage(1), 20, noopLog)
	require.Contains(t, sw.Spent, keyImage(1))
	assert.Equal(t, uint64(20), sw.Spent[keyImage(1)].SpendHeight)
}

func TestDuplicateInputIsNoop(t *testing.T) {
	sw := New(types.PublicKey{1}, nil, "addr1", true, 0, 0)
	input := types.TransactionInput{KeyImage: keyImage(2), Amount: 50, BlockHeight: 1}
	sw.StoreTransactionInput(input, noopLog)
	sw.StoreTransactionInput(input, noopLog)
	assert.Len(t, sw.Unspent, 1)
}

func TestRemoveForkedTransactionsOnlyRewindsPostForkSpends(t *testing.T) {
	sw := New(types.PublicKey{1}, nil, "addr1", true, 0, 0)
	// spent before the fork height: must remain spent.
	sw.Spent[keyImage(1)] = types.TransactionInput{KeyImage: keyImage(1), Amount: 10, BlockHeight: 5, SpendHeight: 8}
	// spent at/after the fork height: returns to unspent.
	sw.Spent[keyImage(2)] = types.TransactionInput{KeyImage: keyImage(2), Amount: 10, BlockHeight: 5, SpendHeight: 12}

	removed := sw.RemoveForkedTransactions(10)

	assert.Contains(t, sw.Spent, keyImage(1))
	assert.NotContains(t, sw.Spent, keyImage(2))
	assert.Contains(t, sw.Unspent, keyImage(2))
	assert.Equal(t, uint64(0), sw.Unspent[keyImage(2)].SpendHeight)
	assert.Empty(t, removed) // neither input's creating block is >= forkHeight
}

func TestRemoveForkedTransactionsDropsInputsCreatedAfterFork(t *testing.T) {
	sw := New(types.PublicKey{1}, nil, "addr1", true, 0, 0)
	sw.Unspent[keyImage(3)] = types.TransactionInput{KeyImage: keyImage(3), Amount: 10, BlockHeight: 15}

	removed := sw.RemoveForkedTransactions(10)

	assert.NotContains(t, sw.Unspent, keyImage(3))
	assert.Equal(t, []types.KeyImage{keyImage(3)}, removed)
}

func TestBalanceUnlockedVsLocked(t *testing.T) {
	sw := New(types.PublicKey{1}, nil, "addr1", true, 0, 0)
	sw.Unspent[keyImage(1)] = types.TransactionInput{Amount: 100, UnlockTime: 0}
	sw.Unspent[keyImage(2)] = types.TransactionInput{Amount: 50, UnlockTime: 1000}

	unlocked, locked := sw.Balance(500, 0)
	assert.Equal(t, uint64(100), unlocked)
	assert.Equal(t, uint64(50), locked)
}

func TestRemoveCancelledTransactionReturnsInputsToUnspent(t *testing.T) {
	sw := New(types.PublicKey{1}, nil, "addr1", true, 0, 0)
	var txHash types.Hash
	txHash[0] = 9
	sw.Locked[keyImage(1)] = types.TransactionInput{KeyImage: keyImage(1), Amount: 10, ParentTxHash: txHash}

	sw.RemoveCancelledTransaction(txHash)

	assert.NotContains(t, sw.Locked, keyImage(1))
	assert.Contains(t, sw.Unspent, keyImage(1))
}
