package subwallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptonote-community/walletcore/types"
)

func TestAddSubwalletRejectsDuplicate(t *testing.T) {
	c := New(types.PrivateKey{1})
	sw := New_(types.PublicKey{1})
	require.NoError(t, c.AddSubwallet(sw))
	err := c.AddSubwallet(sw)
	assert.ErrorIs(t, err, types.ErrSubwalletAlreadyExists)
}

func New_(pub types.PublicKey) *Subwallet {
	return New(pub, nil, "addr", false, 0, 0)
}

func TestDeleteSubwalletRejectsPrimary(t *testing.T) {
	c := New(types.PrivateKey{1})
	primary := New(types.PublicKey{1}, nil, "addr1", true, 0, 0)
	require.NoError(t, c.AddSubwallet(primary))
	err := c.DeleteSubwallet(primary.PublicSpendKey)
	assert.ErrorIs(t, err, types.ErrCannotDeletePrimary)
}

func TestRebuildKeyImageIndex(t *testing.T) {
	c := New(types.PrivateKey{1})
	sw := New_(types.PublicKey{7})
	sw.Unspent[keyImage(1)] = types.TransactionInput{KeyImage: keyImage(1)}
	require.NoError(t, c.AddSubwallet(sw))

	c.RebuildKeyImageIndex()

	owner, ok := c.OwnerOfKeyImage(keyImage(1))
	require.True(t, ok)
	assert.Equal(t, sw.PublicSpendKey, owner)
}

func TestTotalBalanceSumsAcrossSubwallets(t *testing.T) {
	c := New(types.PrivateKey{1})
	a := New_(types.PublicKey{1})
	a.Unspent[keyImage(1)] = types.TransactionInput{Amount: 100}
	b := New_(types.PublicKey{2})
	b.Unspent[keyImage(2)] = types.TransactionInput{Amount: 50}
	require.NoError(t, c.AddSubwallet(a))
	require.NoError(t, c.AddSubwallet(b))

	unlocked, _ := c.TotalBalance(0, 0, nil)
	assert.Equal(t, uint64(150), unlocked)
}
