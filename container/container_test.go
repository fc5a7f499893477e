package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptonote-community/walletcore/types"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintext := []byte(`{"walletFileFormatVersion":1}`)
	blob, err := Encrypt("correct horse battery staple", plaintext)
	require.NoError(t, err)

	got, err := Decrypt("correct horse battery staple", blob)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestDecryptWrongPassword(t *testing.T) {
	blob, err := Encrypt("right password", []byte("hello wallet"))
	require.NoError(t, err)

	_, err = Decrypt("wrong password", blob)
	assert.ErrorIs(t, err, types.ErrWrongPassword)
}

func TestDecryptRejectsMissingMagic(t *testing.T) {
	_, err := Decrypt("anything", []byte("not a wallet file at all"))
	assert.ErrorIs(t, err, types.ErrNotAWalletFile)
}

func TestDecryptRejectsTruncatedBlob(t *testing.T) {
	_, err := Decrypt("anything", []byte("CN"))
	assert.ErrorIs(t, err, types.ErrNotAWalletFile)
}

func TestEncryptProducesDistinctSaltsPerCall(t *testing.T) {
	a, err := Encrypt("pw", []byte("same plaintext"))
	require.NoError(t, err)
	b, err := Encrypt("pw", []byte("same plaintext"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
