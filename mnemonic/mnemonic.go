// Package mnemonic implements the 25-word mnemonic codec spec.md §1 calls
// out as an external, out-of-scope collaborator ("the mnemonic codec").
// This is the port plus one concrete adapter, mirroring the teacher's
// bip39 package's Phrase/DictionaryID shape (bip39/bip39.go) but
// implementing the CryptoNote Electrum-style scheme: 24 words encode an
// 8-group, 4-bytes-per-group seed, plus one trailing checksum word.
package mnemonic

import (
	"encoding/binary"
	"hash/crc32"
	"strings"

	"github.com/cryptonote-community/walletcore/cryptoprim"
	"github.com/cryptonote-community/walletcore/types"
)

// Phrase is the human-readable 25-word mnemonic.
type Phrase []string

const (
	wordsPerGroup = 3
	groupCount    = 8
	bodyWordCount = groupCount * wordsPerGroup
	totalWordCount = bodyWordCount + 1 // + checksum word
	prefixLen     = 3
)

var (
	errWrongLength = types.ErrMnemonicWrongLength
	errUnknownWord = types.ErrMnemonicInvalidWord
	errChecksum    = types.ErrMnemonicInvalidChecksum
)

// Encode renders a 32-byte seed (the wallet's private spend key) as a
// 25-word mnemonic phrase.
func Encode(seed [32]byte) Phrase {
	words := make([]string, 0, totalWordCount)
	for g := 0; g < groupCount; g++ {
		x := binary.LittleEndian.Uint32(seed[g*4 : g*4+4])
		n := uint32(wordlistSize)
		w1 := x % n
		w2 := (x/n + w1) % n
		w3 := (x/(n*n) + w2) % n
		words = append(words, wordlist[w1], wordlist[w2], wordlist[w3])
	}
	words = append(words, checksumWord(words))
	return Phrase(words)
}

// Decode parses a 25-word mnemonic phrase back into the 32-byte seed it
// encodes, verifying the trailing checksum word.
func Decode(p Phrase) ([32]byte, error) {
	if len(p) != totalWordCount {
		return [32]byte{}, errWrongLength
	}
	body := p[:bodyWordCount]
	if checksumWord(body) != p[bodyWordCount] {
		return [32]byte{}, errChecksum
	}

	var seed [32]byte
	n := uint32(wordlistSize)
	for g := 0; g < groupCount; g++ {
		i1, ok1 := wordIndex[body[g*3]]
		i2, ok2 := wordIndex[body[g*3+1]]
		i3, ok3 := wordIndex[body[g*3+2]]
		if !ok1 || !ok2 || !ok3 {
			return [32]byte{}, errUnknownWord
		}
		w1, w2, w3 := uint32(i1), uint32(i2), uint32(i3)
		x := w1 + n*mod(w2+n-w1, n) + n*n*mod(w3+n-w2, n)
		binary.LittleEndian.PutUint32(seed[g*4:g*4+4], x)
	}
	return seed, nil
}

func mod(a, n uint32) uint32 {
	return ((a % n) + n) % n
}

// checksumWord picks the body word whose position is the CRC32 of the
// first prefixLen letters of every body word, mod the body length — the
// same "trimmed prefix, then checksum" construction used by Electrum-style
// CryptoNote mnemonics.
func checksumWord(body []string) string {
	var sb strings.Builder
	for _, w := range body {
		if len(w) <= prefixLen {
			sb.WriteString(w)
			continue
		}
		sb.WriteString(w[:prefixLen])
	}
	sum := crc32.ChecksumIEEE([]byte(sb.String()))
	return body[int(sum)%len(body)]
}

// GenerateSeed produces a fresh random mnemonic and the seed it encodes.
func GenerateSeed(engine cryptoprim.Engine) (Phrase, [32]byte, error) {
	_, sk, err := engine.GenerateKeyPairRandom()
	if err != nil {
		return nil, [32]byte{}, err
	}
	return Encode(sk), [32]byte(sk), nil
}

// PrivateKeysFromPhrase derives the private spend and (deterministic)
// private view key that a 25-word mnemonic describes, per spec.md §8
// scenario 2: importing a mnemonic yields a private spend key, and an
// implied private view key derived deterministically from it.
func PrivateKeysFromPhrase(p Phrase, engine cryptoprim.Engine) (spend, view types.PrivateKey, err error) {
	seed, err := Decode(p)
	if err != nil {
		return types.PrivateKey{}, types.PrivateKey{}, err
	}
	spend = types.PrivateKey(seed)
	view = types.PrivateKey(engine.Keccak256(spend[:]))
	return spend, view, nil
}

// FromPrivateKeys reconstructs the mnemonic for a private spend key,
// failing with ErrKeysNotDeterministic if the supplied private view key is
// not the deterministic derivative of the spend key (e.g. because the
// wallet was created from an independently-random view key, spec.md §8
// scenario 4).
func FromPrivateKeys(spend, view types.PrivateKey, engine cryptoprim.Engine) (Phrase, error) {
	expectedView := types.PrivateKey(engine.Keccak256(spend[:]))
	if view != expectedView {
		return nil, types.ErrKeysNotDeterministic
	}
	return Encode([32]byte(spend)), nil
}
