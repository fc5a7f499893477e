package mnemonic

// wordlistSize must satisfy wordlistSize^3 > 2^32 so that every 4-byte
// group of the seed has a unique 3-word encoding (see encode/decode in
// mnemonic.go). 1626 is the size the original CryptoNote wordlists use;
// this package's wordlist is a synthetic stand-in generated from syllable
// combinations rather than the real curated English dictionary (spec.md
// §1 places "the mnemonic codec" out of scope — see DESIGN.md and
// SPEC_FULL.md §8A).
const wordlistSize = 1626

var wordlist = generateWordlist(wordlistSize)

func generateWordlist(n int) []string {
	onsets := []string{"b", "c", "d", "f", "g", "h", "j", "k", "l", "m", "n", "p", "r", "s", "t", "v", "w", "z"}
	vowels := []string{"a", "e", "i", "o", "u"}
	codas := []string{"", "n", "r", "s", "t", "l", "m"}

	words := make([]string, 0, len(onsets)*len(vowels)*len(codas)*len(onsets))
	seen := make(map[string]bool)
	for _, o1 := range onsets {
		for _, v1 := range vowels {
			for _, c := range codas {
				for _, o2 := range onsets {
					for _, v2 := range vowels {
						w := o1 + v1 + c + o2 + v2
						if seen[w] {
							continue
						}
						seen[w] = true
						words = append(words, w)
						if len(words) == n {
							return words
						}
					}
				}
			}
		}
	}
	panic("mnemonic: syllable space exhausted before reaching wordlist size")
}

var wordIndex = buildWordIndex()

func buildWordIndex() map[string]int {
	idx := make(map[string]int, len(wordlist))
	for i, w := range wordlist {
		idx[w] = i
	}
	return idx
}
