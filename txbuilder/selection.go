package txbuilder

import (
	"math/rand"
	"sort"

	"github.com/cryptonote-community/walletcore/subwallet"
	"github.com/cryptonote-community/walletcore/types"
)

// SelectInputs implements spec.md §4.4 "Input selection for a value
// transfer": shuffle the spendable candidates, accumulate until the
// requested amount is met, then sort the chosen subset ascending by
// amount before building.
func SelectInputs(candidates []subwallet.OwnedInput, amount uint64, rng *rand.Rand) ([]subwallet.OwnedInput, error) {
	shuffled := make([]subwallet.OwnedInput, len(candidates))
	copy(shuffled, candidates)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	var chosen []subwallet.OwnedInput
	var sum uint64
	for _, c := range shuffled {
		chosen = append(chosen, c)
		sum += c.Input.Amount
		if sum >= amount {
			sortAscending(chosen)
			return chosen, nil
		}
	}
	return nil, types.ErrNotEnoughBalance
}

// SelectInputsForFusion implements spec.md §4.4 "Fusion": inputs are
// gathered in ascending amount order (no shuffle — fusion has no privacy
// requirement to hide selection), bucketed by decimal magnitude, and a
// full bucket preferred if one exists.
func SelectInputsForFusion(candidates []subwallet.OwnedInput) []subwallet.OwnedInput {
	sorted := make([]subwallet.OwnedInput, len(candidates))
	copy(sorted, candidates)
	sortAscending(sorted)

	buckets := make(map[uint64][]subwallet.OwnedInput)
	var magnitudes []uint64
	for _, c := range sorted {
		m := magnitudeOf(c.Input.Amount)
		if _, seen := buckets[m]; !seen {
			magnitudes = append(magnitudes, m)
		}
		buckets[m] = append(buckets[m], c)
	}

	var best []subwallet.OwnedInput
	for _, m := range magnitudes {
		if len(buckets[m]) >= types.FusionTxMinInputCount && len(buckets[m]) > len(best) {
			best = buckets[m]
		}
	}
	if best != nil {
		return best
	}
	return sorted
}

func magnitudeOf(amount uint64) uint64 {
	m := uint64(1)
	for amount >= 10 {
		amount /= 10
		m *= 10
	}
	return m
}

func sortAscending(inputs []subwallet.OwnedInput) {
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].Input.Amount < inputs[j].Input.Amount })
}
