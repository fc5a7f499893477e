package txbuilder

import (
	"context"
	"sort"

	"github.com/cryptonote-community/walletcore/node"
	"github.com/cryptonote-community/walletcore/subwallet"
	"github.com/cryptonote-community/walletcore/types"
)

// RingInput pairs a spent input with the sorted decoy set it will be
// signed against, per spec.md §4.4 "Ring decoys".
type RingInput struct {
	Input      subwallet.OwnedInput
	Decoys     []node.RandomOutput // includes the real output
	RealIndex  int                 // index of the real output within Decoys
}

// FetchDecoys requests mixin+1 random outputs per spent-input amount (one
// extra in case our own output's global index is returned), rejects any
// amount with fewer than mixin decoys, and sorts decoys within each group
// by global index (spec.md §4.4 "Ring decoys").
func FetchDecoys(ctx context.Context, client node.Client, inputs []subwallet.OwnedInput, mixin uint64) ([]RingInput, error) {
	amounts := make([]uint64, len(inputs))
	for i, in := range inputs {
		amounts[i] = in.Input.Amount
	}

	resp, err := client.GetRandomOutputs(ctx, amounts, mixin+1)
	if err != nil {
		return nil, types.ErrCantGetDecoys
	}

	byAmount := make(map[uint64][]node.RandomOutput, len(resp))
	for _, group := range resp {
		byAmount[group.Amount] = group.Outputs
	}

	out := make([]RingInput, 0, len(inputs))
	for _, in := range inputs {
		candidates := byAmount[in.Input.Amount]
		filtered := candidates[:0]
		for _, c := range candidates {
			if c.GlobalIndex == in.Input.GlobalOutputIndex {
				continue
			}
			filtered = append(filtered, c)
		}
		if uint64(len(filtered)) < mixin {
			return nil, types.ErrNotEnoughDecoys
		}
		if uint64(len(filtered)) > mixin {
			filtered = filtered[:mixin]
		}

		real := node.RandomOutput{GlobalIndex: in.Input.GlobalOutputIndex, OutputKey: in.Input.OutputKey}
		ring := append(filtered, real)
		sort.Slice(ring, func(i, j int) bool { return ring[i].GlobalIndex < ring[j].GlobalIndex })

		realIndex := 0
		for i, c := range ring {
			if c.GlobalIndex == real.GlobalIndex {
				realIndex = i
				break
			}
		}
		out = append(out, RingInput{Input: in, Decoys: ring, RealIndex: realIndex})
	}
	return out, nil
}
