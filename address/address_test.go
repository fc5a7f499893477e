package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptonote-community/walletcore/types"
)

func keys(n byte) (spend, view types.PublicKey) {
	spend[0] = n
	view[0] = n + 1
	return
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	spend, view := keys(1)
	addr, err := Encode(0x3a, spend, view, "")
	require.NoError(t, err)

	decoded, err := Decode(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x3a), decoded.Prefix)
	assert.Equal(t, spend, decoded.PublicSpendKey)
	assert.Equal(t, view, decoded.PublicViewKey)
	assert.Empty(t, decoded.PaymentID)
}

func TestEncodeIntegratedRoundTrip(t *testing.T) {
	spend, view := keys(5)
	paymentID := "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"

	addr, err := EncodeIntegrated(0x3a, spend, view, paymentID)
	require.NoError(t, err)

	decoded, err := Decode(addr)
	require.NoError(t, err)
	assert.Equal(t, paymentID, decoded.PaymentID)
}

func TestEncodeIntegratedRejectsWrongLengthPaymentID(t *testing.T) {
	spend, view := keys(1)
	_, err := EncodeIntegrated(0x3a, spend, view, "too-short")
	assert.ErrorIs(t, err, types.ErrAddressWrongLength)
}

func TestDecodeRejectsBadChecksum(t *testing.T) {
	spend, view := keys(1)
	addr, err := Encode(0x3a, spend, view, "")
	require.NoError(t, err)

	tampered := "1" + addr[1:]
	if tampered == addr {
		tampered = addr[:len(addr)-1] + "1"
	}
	_, err = Decode(tampered)
	assert.Error(t, err)
}

func TestDecodeRejectsEmptyInput(t *testing.T) {
	_, err := Decode("")
	assert.ErrorIs(t, err, types.ErrAddressNotBase58)
}

func TestVarintRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 300, 1 << 20, 1 << 40} {
		encoded := encodeVarint(v)
		got, n := decodeVarint(encoded)
		assert.Equal(t, len(encoded), n)
		assert.Equal(t, v, got)
	}
}
