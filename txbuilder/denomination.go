// Package txbuilder implements spec.md §4.4: denomination splitting, input
// selection, fee policy, ring decoys, build/verify/submit, fusion
// transactions and prepared (held) transactions.
//
// Grounded on the teacher's modules/wallet/money.go SendOutputs pipeline
// (select funding outputs → build transaction → sign → append to
// wallet's unconfirmed set), generalized from the teacher's UTXO+fee
// model to CryptoNote's ring-signature-and-decoy model.
package txbuilder

import "github.com/cryptonote-community/walletcore/types"

// SplitAmountIntoDenominations decomposes amount into CryptoNote "pretty
// amounts": sums of d·10^k with d in {1..9}, zero digits omitted, each
// further subdivided into 10^n equal chunks if it would exceed
// MaxOutputSizeClient (spec.md §4.4).
func SplitAmountIntoDenominations(amount uint64) []uint64 {
	var denominations []uint64
	multiplier := uint64(1)

	for amount > 0 {
		digit := amount % 10
		if digit != 0 {
			denominations = append(denominations, splitOversized(digit*multiplier)...)
		}
		amount /= 10
		multiplier *= 10
	}
	return denominations
}

// splitOversized subdivides d into equal power-of-ten chunks until each is
// <= MaxOutputSizeClient.
func splitOversized(d uint64) []uint64 {
	if d <= types.MaxOutputSizeClient {
		return []uint64{d}
	}
	chunks := uint64(10)
	for d/chunks > types.MaxOutputSizeClient {
		chunks *= 10
	}
	chunk := d / chunks
	out := make([]uint64, 0, chunks)
	for i := uint64(0); i < chunks; i++ {
		out = append(out, chunk)
	}
	return out
}

// IsPrettyAmount reports whether amount is exactly d·10^k for a single
// digit d in {1..9} (the unit used by SplitAmountIntoDenominations, and
// the check spec.md §4.4 post-build verification runs against every
// output).
func IsPrettyAmount(amount uint64) bool {
	if amount == 0 {
		return false
	}
	for amount%10 == 0 {
		amount /= 10
	}
	return amount >= 1 && amount <= 9
}
