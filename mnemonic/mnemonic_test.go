package mnemonic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptonote-community/walletcore/types"
)

func seedFor(n byte) [32]byte {
	var s [32]byte
	for i := range s {
		s[i] = n + byte(i)
	}
	return s
}

func TestEncodeProducesTwentyFiveWords(t *testing.T) {
	p := Encode(seedFor(1))
	assert.Len(t, p, totalWordCount)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	seed := seedFor(7)
	p := Encode(seed)
	got, err := Decode(p)
	require.NoError(t, err)
	assert.Equal(t, seed, got)
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	_, err := Decode(Phrase{"only", "three", "words"})
	assert.ErrorIs(t, err, types.ErrMnemonicWrongLength)
}

func TestDecodeRejectsBadChecksumWord(t *testing.T) {
	p := Encode(seedFor(2))
	tampered := make(Phrase, len(p))
	copy(tampered, p)
	tampered[len(tampered)-1] = "notarealchecksumword"
	_, err := Decode(tampered)
	assert.ErrorIs(t, err, types.ErrMnemonicInvalidChecksum)
}

func TestDecodeRejectsUnknownWord(t *testing.T) {
	p := Encode(seedFor(3))
	body := make([]string, bodyWordCount)
	copy(body, p[:bodyWordCount])
	body[0] = "zzzznotinthelist"
	tampered := append(Phrase(body), checksumWord(body))

	_, err := Decode(tampered)
	assert.ErrorIs(t, err, types.ErrMnemonicInvalidWord)
}
