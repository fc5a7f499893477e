package txbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cryptonote-community/walletcore/types"
)

func TestSplitAmountIntoDenominationsSumsToOriginal(t *testing.T) {
	for _, amount := range []uint64{0, 1, 9, 10, 19, 123456, 7000009} {
		parts := SplitAmountIntoDenominations(amount)
		var sum uint64
		for _, p := range parts {
			sum += p
			assert.True(t, IsPrettyAmount(p), "part %d of %d not pretty", p, amount)
		}
		assert.Equal(t, amount, sum)
	}
}

func TestSplitAmountIntoDenominationsZeroYieldsNoParts(t *testing.T) {
	assert.Empty(t, SplitAmountIntoDenominations(0))
}

func TestSplitOversizedStaysUnderCap(t *testing.T) {
	parts := SplitAmountIntoDenominations(900000000000000) // 9 * 10^14, above the cap
	for _, p := range parts {
		assert.LessOrEqual(t, p, types.MaxOutputSizeClient)
	}
}

func TestIsPrettyAmount(t *testing.T) {
	cases := map[uint64]bool{
		0:    false,
		1:    true,
		9:    true,
		10:   true,
		900:  true,
		99:   false,
		101:  false,
		1000: true,
	}
	for amount, want := range cases {
		assert.Equal(t, want, IsPrettyAmount(amount), "amount=%d", amount)
	}
}
