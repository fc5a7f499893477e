package txbuilder

import (
	"context"

	"github.com/cryptonote-community/walletcore/subwallet"
	"github.com/cryptonote-community/walletcore/types"
)

// BuildFusion implements spec.md §4.4 "Fusion": no payment ID, zero fee,
// single wallet-owned destination. Requires at least
// FusionTxMinInputCount inputs and an input/output ratio of at least
// FusionTxMinInOutCountRatio, dropping the largest input repeatedly until
// the serialized size fits MaxFusionTxSize.
func (b *Builder) BuildFusion(ctx context.Context, subwallets []types.PublicKey, destinationAddress string, mixin uint64, currentHeight, nowUnix uint64) (*BuiltTransaction, error) {
	candidates := b.Collection.SpendableInputs(currentHeight, nowUnix, subwallets)
	chosen := SelectInputsForFusion(candidates)

	for {
		if len(chosen) < types.FusionTxMinInputCount {
			return nil, types.ErrFullyOptimized
		}

		numOutputs := fusionOutputCount(chosen, mixin)
		if len(chosen) < types.FusionTxMinInOutCountRatio*numOutputs {
			return nil, types.ErrFullyOptimized
		}

		estimatedSize := EstimateSize(mixin, uint64(len(chosen)), uint64(numOutputs), false, 0)
		if estimatedSize <= types.MaxFusionTxSize {
			break
		}
		chosen = dropLargest(chosen)
	}

	req := BuildRequest{
		Subwallets:    subwallets,
		Destinations:  []Destination{{Address: destinationAddress, Amount: sumInputs(chosen)}},
		Mixin:         mixin,
		FeeMode:       FixedFee,
		FixedFee:      0,
		CurrentHeight: currentHeight,
		NowUnix:       nowUnix,
	}

	decoded, err := decodeDestinations(req.Destinations)
	if err != nil {
		return nil, err
	}
	ring, err := FetchDecoys(ctx, b.Client, chosen, mixin)
	if err != nil {
		return nil, err
	}
	return b.buildSerialized(chosen, ring, decoded, req.Destinations, req, 0)
}

// fusionOutputCount mirrors the number of pretty-amount outputs the fused
// sum will decompose into.
func fusionOutputCount(chosen []subwallet.OwnedInput, mixin uint64) int {
	return len(SplitAmountIntoDenominations(sumInputs(chosen)))
}

func dropLargest(chosen []subwallet.OwnedInput) []subwallet.OwnedInput {
	if len(chosen) == 0 {
		return chosen
	}
	maxIdx := 0
	for i, c := range chosen {
		if c.Input.Amount > chosen[maxIdx].Input.Amount {
			maxIdx = i
		}
	}
	return append(chosen[:maxIdx], chosen[maxIdx+1:]...)
}
