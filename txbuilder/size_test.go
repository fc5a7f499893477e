package txbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateSizeGrowsWithInputsAndOutputs(t *testing.T) {
	base := EstimateSize(3, 1, 1, false, 0)
	moreInputs := EstimateSize(3, 2, 1, false, 0)
	moreOutputs := EstimateSize(3, 1, 2, false, 0)
	withPaymentID := EstimateSize(3, 1, 1, true, 0)

	assert.Greater(t, moreInputs, base)
	assert.Greater(t, moreOutputs, base)
	assert.Greater(t, withPaymentID, base)
}

func TestRequiredFeeForSizeRoundsUpToChunk(t *testing.T) {
	fee := RequiredFeeForSize(101, 2, 100)
	assert.Equal(t, uint64(400), fee) // 2 chunks * feePerByte(2) * chunkSize(100)
}

func TestRequiredFeeForSizeNoChunking(t *testing.T) {
	fee := RequiredFeeForSize(50, 3, 0)
	assert.Equal(t, uint64(150), fee)
}

func TestMaxAllowedBlockSizeIsPositive(t *testing.T) {
	assert.Greater(t, MaxAllowedBlockSize(1000), uint64(0))
}
