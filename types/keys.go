package types

import "encoding/hex"

// PublicKey and PrivateKey are hex-encoded 32-byte Ed25519-family scalars or
// points, depending on context. They are kept as fixed-size byte arrays so
// they can be used as map keys (spec.md §3: "publicSpendKey" is the primary
// key for a Subwallet within a SubwalletCollection).
type (
	PublicKey  [32]byte
	PrivateKey [32]byte
	KeyImage   [32]byte
)

// IsZero reports whether k is the all-zero key, the sentinel the spec uses
// to mark "absent" (e.g. a key image that a view wallet could not compute).
func (k PublicKey) IsZero() bool  { return k == PublicKey{} }
func (k PrivateKey) IsZero() bool { return k == PrivateKey{} }
func (k KeyImage) IsZero() bool   { return k == KeyImage{} }

func (k PublicKey) String() string  { return hex.EncodeToString(k[:]) }
func (k PrivateKey) String() string { return hex.EncodeToString(k[:]) }
func (k KeyImage) String() string   { return hex.EncodeToString(k[:]) }

func (k PublicKey) MarshalText() ([]byte, error)  { return []byte(k.String()), nil }
func (k PrivateKey) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k KeyImage) MarshalText() ([]byte, error)   { return []byte(k.String()), nil }

func (k *PublicKey) UnmarshalText(text []byte) error  { return unmarshalHexKey(text, k[:]) }
func (k *PrivateKey) UnmarshalText(text []byte) error { return unmarshalHexKey(text, k[:]) }
func (k *KeyImage) UnmarshalText(text []byte) error   { return unmarshalHexKey(text, k[:]) }

func unmarshalHexKey(text []byte, dst []byte) error {
	if len(text) != hex.EncodedLen(len(dst)) {
		return ErrKeyNotHex
	}
	decoded := make([]byte, len(dst))
	if _, err := hex.Decode(decoded, text); err != nil {
		return ErrKeyNotHex
	}
	copy(dst, decoded)
	return nil
}

// PublicKeyFromHex parses a hex string into a PublicKey, surfacing
// ErrKeyNotHex on malformed input.
func PublicKeyFromHex(s string) (PublicKey, error) {
	var k PublicKey
	if err := k.UnmarshalText([]byte(s)); err != nil {
		return PublicKey{}, err
	}
	return k, nil
}

// PrivateKeyFromHex parses a hex string into a PrivateKey.
func PrivateKeyFromHex(s string) (PrivateKey, error) {
	var k PrivateKey
	if err := k.UnmarshalText([]byte(s)); err != nil {
		return PrivateKey{}, err
	}
	return k, nil
}

// KeyImageFromHex parses a hex string into a KeyImage.
func KeyImageFromHex(s string) (KeyImage, error) {
	var k KeyImage
	if err := k.UnmarshalText([]byte(s)); err != nil {
		return KeyImage{}, err
	}
	return k, nil
}

// Keypair is a public/private spend (or view) pair, spec.md §3.
type Keypair struct {
	PublicKey  PublicKey   `json:"publicKey"`
	PrivateKey *PrivateKey `json:"privateKey,omitempty"`
}
