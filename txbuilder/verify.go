package txbuilder

import "github.com/cryptonote-community/walletcore/types"

// Verify implements spec.md §4.4 "Post-build verification": size bound,
// every output a pretty amount, and fee matching the requested policy.
func Verify(built *BuiltTransaction, destinations []Destination, mode FeeMode, feePerByte, currentHeight uint64) error {
	if built.Size > MaxAllowedBlockSize(currentHeight) {
		return types.ErrTooManyInputs
	}

	for _, d := range destinations {
		for _, amt := range SplitAmountIntoDenominations(d.Amount) {
			if !IsPrettyAmount(amt) {
				return types.ErrAmountsNotPretty
			}
		}
	}

	switch mode {
	case FixedFee:
		// exact equality is enforced by the caller supplying FixedFee as the
		// built fee directly; nothing further to check here.
	case FeePerByte:
		floor := feePerByte * built.Size
		ceiling := 2 * floor
		if built.Fee < floor || built.Fee > ceiling {
			return types.ErrUnexpectedFee
		}
	}
	return nil
}
