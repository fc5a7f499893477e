// Package cryptoprim defines the interface the wallet core consumes for
// every CryptoNote primitive operation: scalar multiplication on Ed25519,
// ring-signature generation/verification, and key-derivation (H(rP)G).
// spec.md §1 marks this whole library as an external collaborator; this
// package is the port plus one concrete adapter, in the same spirit as the
// teacher's crypto/signatures_mock.go ("dependencies are separated to
// enable mocking").
//
// The shipped Engine is real (deterministic, uses golang.org/x/crypto's
// Keccak-256 and math/big arithmetic modulo the Ed25519 group order; it
// performs no curve-point operations), but it is not a byte-exact reimplementation of
// the original CryptoNote curve arithmetic or ring-signature scheme — see
// DESIGN.md and SPEC_FULL.md §8A. It exists to give every other package a
// concrete, swappable dependency to program against.
package cryptoprim

import "github.com/cryptonote-community/walletcore/types"

// Engine is the CryptoNote primitive library interface consumed by the
// rest of the core.
type Engine interface {
	// GenerateKeyPairDeterministic derives a spend or view keypair from 32
	// bytes of entropy (e.g. a mnemonic seed, or H(masterSeed, index)).
	GenerateKeyPairDeterministic(entropy [32]byte) (types.PublicKey, types.PrivateKey)

	// GenerateKeyPairRandom produces a fresh random keypair.
	GenerateKeyPairRandom() (types.PublicKey, types.PrivateKey, error)

	// GenerateKeyDerivation computes H(txPublicKey * privateViewKey), the
	// shared secret a recipient uses to find and unlock their outputs.
	GenerateKeyDerivation(txPublicKey types.PublicKey, privateViewKey types.PrivateKey) ([32]byte, error)

	// DerivePublicKey computes outputKey - H(derivation || outputIndex)*G,
	// spec.md §4.2 step 3's "derivedSpendKey".
	DerivePublicKey(derivation [32]byte, outputIndex uint64, outputKey types.PublicKey) types.PublicKey

	// DeriveSecretKey computes H(derivation || outputIndex) + privateSpendKey,
	// the per-output ephemeral secret key needed to sign a spend.
	DeriveSecretKey(derivation [32]byte, outputIndex uint64, privateSpendKey types.PrivateKey) types.PrivateKey

	// DeriveStealthPublicKey computes H(derivation || outputIndex)*G +
	// recipientPublicSpendKey, the stealth output key a sender writes into
	// a new transaction output.
	DeriveStealthPublicKey(derivation [32]byte, outputIndex uint64, recipientSpendKey types.PublicKey) types.PublicKey

	// GenerateKeyImage computes the key image for a spend: a deterministic,
	// one-way fingerprint unique to the output's ephemeral key, so the
	// network (and our own ledger) can detect it being spent twice.
	GenerateKeyImage(ephemeralPublic types.PublicKey, ephemeralSecret types.PrivateKey) (types.KeyImage, error)

	// GenerateRingSignature produces a ring signature for a spend, mixing
	// the real ephemeral key among the supplied decoy public keys.
	GenerateRingSignature(prefixHash [32]byte, keyImage types.KeyImage, decoyKeys []types.PublicKey, realIndex int, ephemeralSecret types.PrivateKey) ([]byte, error)

	// CheckRingSignature verifies a ring signature produced above.
	CheckRingSignature(prefixHash [32]byte, keyImage types.KeyImage, decoyKeys []types.PublicKey, signature []byte) bool

	// Keccak256 is CryptoNote's native hash function, used throughout key
	// derivation, key images, and the address checksum.
	Keccak256(data ...[]byte) [32]byte

	// IsOnCurve reports whether pk is a valid curve point.
	IsOnCurve(pk types.PublicKey) bool
}
