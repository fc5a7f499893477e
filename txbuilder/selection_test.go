package txbuilder

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptonote-community/walletcore/subwallet"
	"github.com/cryptonote-community/walletcore/types"
)

func owned(amount uint64) subwallet.OwnedInput {
	return subwallet.OwnedInput{Input: types.TransactionInput{Amount: amount}}
}

func TestSelectInputsMeetsAmountAndSortsAscending(t *testing.T) {
	candidates := []subwallet.OwnedInput{owned(50), owned(10), owned(30), owned(5)}
	rng := rand.New(rand.NewSource(1))

	chosen, err := SelectInputs(candidates, 40, rng)
	require.NoError(t, err)

	var sum uint64
	for i, c := range chosen {
		sum += c.Input.Amount
		if i > 0 {
			assert.LessOrEqual(t, chosen[i-1].Input.Amount, c.Input.Amount)
		}
	}
	assert.GreaterOrEqual(t, sum, uint64(40))
}

func TestSelectInputsInsufficientBalance(t *testing.T) {
	candidates := []subwallet.OwnedInput{owned(1), owned(2)}
	rng := rand.New(rand.NewSource(1))

	_, err := SelectInputs(candidates, 100, rng)
	assert.ErrorIs(t, err, types.ErrNotEnoughBalance)
}

func TestSelectInputsForFusionPrefersFullBucket(t *testing.T) {
	var candidates []subwallet.OwnedInput
	for i := 0; i < types.FusionTxMinInputCount; i++ {
		candidates = append(candidates, owned(10))
	}
	candidates = append(candidates, owned(500), owned(7000))

	chosen := SelectInputsForFusion(candidates)
	assert.Len(t, chosen, types.FusionTxMinInputCount)
	for _, c := range chosen {
		assert.Equal(t, uint64(10), c.Input.Amount)
	}
}

func TestSelectInputsForFusionFallsBackToAllSorted(t *testing.T) {
	candidates := []subwallet.OwnedInput{owned(500), owned(7), owned(30)}
	chosen := SelectInputsForFusion(candidates)
	require.Len(t, chosen, 3)
	assert.Equal(t, uint64(7), chosen[0].Input.Amount)
	assert.Equal(t, uint64(500), chosen[2].Input.Amount)
}
