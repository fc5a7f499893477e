// Package address implements the CryptoNote base58 address codec described
// in spec.md §3 ("Address"): network prefix + public spend key + public
// view key + 4-byte checksum, with an optional 64-hex-character payment ID
// for integrated addresses.
//
// The address codec itself is one of the primitives spec.md §1 calls out as
// an external collaborator ("the address codec"); this package is the
// concrete adapter the rest of the core is written against, grounded on the
// teacher's base58-family dependency (github.com/btcsuite/btcutil/base58,
// the same package family used throughout the btcsuite-derived forks in the
// retrieval pack).
package address

import (
	"encoding/hex"

	"github.com/btcsuite/btcutil/base58"
	"golang.org/x/crypto/sha3"

	"github.com/cryptonote-community/walletcore/types"
)

const checksumLen = 4

// Decoded is a parsed CryptoNote address.
type Decoded struct {
	Prefix         uint64
	PublicSpendKey types.PublicKey
	PublicViewKey  types.PublicKey
	PaymentID      string // present only for an integrated address
}

func checksum(payload []byte) [checksumLen]byte {
	var out [checksumLen]byte
	sum := sha3.NewLegacyKeccak256()
	sum.Write(payload)
	copy(out[:], sum.Sum(nil)[:checksumLen])
	return out
}

// Encode renders prefix + spendKey + viewKey (+ optional 32-byte paymentID)
// as a base58check address.
func Encode(prefix uint64, spendKey, viewKey types.PublicKey, paymentID string) (string, error) {
	payload := encodeVarint(prefix)
	payload = append(payload, spendKey[:]...)
	payload = append(payload, viewKey[:]...)
	if paymentID != "" {
		raw, err := hex.DecodeString(paymentID)
		if err != nil || len(raw) != 32 {
			return "", types.ErrKeyNotHex
		}
		payload = append(payload, raw...)
	}
	sum := checksum(payload)
	payload = append(payload, sum[:]...)
	return base58.Encode(payload), nil
}

// Decode parses a base58check address, verifying the checksum and the
// payload length. It does not verify the keys lie on the curve;
// that check belongs to the (out-of-scope) crypto primitive library.
func Decode(addr string) (Decoded, error) {
	raw := base58.Decode(addr)
	if len(raw) == 0 {
		return Decoded{}, types.ErrAddressNotBase58
	}
	if len(raw) < checksumLen {
		return Decoded{}, types.ErrAddressWrongLength
	}
	body, sum := raw[:len(raw)-checksumLen], raw[len(raw)-checksumLen:]
	want := checksum(body)
	for i := range want {
		if want[i] != sum[i] {
			return Decoded{}, types.ErrAddressBadChecksum
		}
	}

	prefix, n := decodeVarint(body)
	if n == 0 {
		return Decoded{}, types.ErrAddressWrongLength
	}
	body = body[n:]

	var d Decoded
	d.Prefix = prefix
	switch len(body) {
	case 64: // spend key + view key
	case 96: // spend key + view key + 32-byte payment ID (integrated)
	default:
		return Decoded{}, types.ErrAddressWrongLength
	}
	copy(d.PublicSpendKey[:], body[0:32])
	copy(d.PublicViewKey[:], body[32:64])
	if len(body) == 96 {
		d.PaymentID = hex.EncodeToString(body[64:96])
	}
	return d, nil
}

// EncodeIntegrated encodes an integrated address: an address plus a
// 64-hex-character payment ID, per spec.md §3 and the GLOSSARY.
func EncodeIntegrated(prefix uint64, spendKey, viewKey types.PublicKey, paymentID string) (string, error) {
	if len(paymentID) != 64 {
		return "", types.ErrAddressWrongLength
	}
	return Encode(prefix, spendKey, viewKey, paymentID)
}

// encodeVarint writes v as a base-128 varint, CryptoNote/LEB128 style.
func encodeVarint(v uint64) []byte {
	var out []byte
	for v >= 0x80 {
		out = append(out, byte(v)|0x80)
		v >>= 7
	}
	out = append(out, byte(v))
	return out
}

// decodeVarint reads a base-128 varint, returning the value and the number
// of bytes consumed (0 on malformed input).
func decodeVarint(b []byte) (uint64, int) {
	var v uint64
	var shift uint
	for i, c := range b {
		if shift >= 64 {
			return 0, 0
		}
		v |= uint64(c&0x7f) << shift
		if c&0x80 == 0 {
			return v, i + 1
		}
		shift += 7
	}
	return 0, 0
}
