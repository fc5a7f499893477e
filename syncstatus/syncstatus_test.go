package syncstatus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptonote-community/walletcore/types"
)

func hashFor(n byte) types.Hash {
	var h types.Hash
	h[0] = n
	return h
}

func TestStoreBlockHashContiguous(t *testing.T) {
	s := New()
	require.NoError(t, s.StoreBlockHash(1, hashFor(1)))
	require.NoError(t, s.StoreBlockHash(2, hashFor(2)))
	require.NoError(t, s.StoreBlockHash(3, hashFor(3)))
	assert.Equal(t, uint64(3), s.LastKnownBlockHeight)
	assert.Equal(t, hashFor(3), s.LastKnownBlockHashes[0])
}

func TestStoreBlockHashGapIsFatal(t *testing.T) {
	s := New()
	require.NoError(t, s.StoreBlockHash(1, hashFor(1)))
	err := s.StoreBlockHash(5, hashFor(5))
	require.Error(t, err)
	var fatal *types.FatalError
	require.ErrorAs(t, err, &fatal)
}

func TestRollingWindowCapped(t *testing.T) {
	s := New()
	for i := uint64(1); i <= uint64(RollingWindowSize)+10; i++ {
		require.NoError(t, s.StoreBlockHash(i, hashFor(byte(i))))
	}
	assert.Len(t, s.LastKnownBlockHashes, RollingWindowSize)
}

func TestSparseCheckpointEveryK(t *testing.T) {
	s := New()
	for i := uint64(1); i <= CheckpointSpacing; i++ {
		require.NoError(t, s.StoreBlockHash(i, hashFor(byte(i))))
	}
	require.Len(t, s.BlockHashCheckpoints, 1)
	assert.Equal(t, hashFor(byte(CheckpointSpacing)), s.BlockHashCheckpoints[0])
}

func TestGetProcessedCheckpointsConcatenatesNewestFirst(t *testing.T) {
	s := &Status{
		LastKnownBlockHashes: []types.Hash{hashFor(3), hashFor(2)},
		BlockHashCheckpoints: []types.Hash{hashFor(1)},
	}
	got := s.GetProcessedCheckpoints()
	assert.Equal(t, []types.Hash{hashFor(3), hashFor(2), hashFor(1)}, got)
}
