package txbuilder

import "github.com/cryptonote-community/walletcore/types"

// EstimateSize implements the byte-count estimator named in spec.md §4.4
// "Fee policy", using the per-field constants of spec.md §6.
func EstimateSize(mixin, numInputs, numOutputs uint64, hasPaymentID bool, extraBytes uint64) uint64 {
	size := uint64(types.SizeTxVersion + types.SizeUnlockTime + types.SizeExtraTag)

	perInput := uint64(types.SizeInputTag+types.SizeAmount+types.SizeKeyImage) +
		types.SizeGlobalIndexHeader + (mixin+1)*types.SizeGlobalIndexEntry +
		(mixin+1)*types.SizeSignature
	size += numInputs * perInput

	perOutput := uint64(types.SizeOutputTag + types.SizeAmount + types.SizeOutputKey)
	size += numOutputs * perOutput

	size += types.SizePubKey // tx public key in extra
	if hasPaymentID {
		size += types.SizePaymentID
	}
	size += extraBytes
	return size
}

// RequiredFeeForSize implements spec.md §4.4: "required fee =
// ceil(size/chunkSize) · feePerByte · chunkSize".
func RequiredFeeForSize(size, feePerByte, chunkSize uint64) uint64 {
	if chunkSize == 0 {
		return size * feePerByte
	}
	chunks := (size + chunkSize - 1) / chunkSize
	return chunks * feePerByte * chunkSize
}

// MaxAllowedBlockSize implements the §4.4 post-build verification bound:
// min(MAX_BLOCK_SIZE_INITIAL + growth(height), 125_000) − COINBASE_RESERVE.
// growth is left at zero: this wallet core does not track the network's
// median-size growth curve, only the two constant bounds spec.md names.
func MaxAllowedBlockSize(height uint64) uint64 {
	maxSize := uint64(types.MaxBlockSizeInitial)
	if maxSize > types.MaxBlockSizeHardCap {
		maxSize = types.MaxBlockSizeHardCap
	}
	return maxSize - types.CoinbaseReserveBytes
}
