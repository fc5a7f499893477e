package txbuilder

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"math/rand"

	"github.com/cryptonote-community/walletcore/address"
	"github.com/cryptonote-community/walletcore/config"
	"github.com/cryptonote-community/walletcore/cryptoprim"
	"github.com/cryptonote-community/walletcore/node"
	"github.com/cryptonote-community/walletcore/subwallet"
	"github.com/cryptonote-community/walletcore/types"
)

// FeeMode selects one of the two fee policies of spec.md §4.4.
type FeeMode int

const (
	FixedFee FeeMode = iota
	FeePerByte
)

// Destination is one payment output requested by the caller.
type Destination struct {
	Address string
	Amount  uint64
}

// BuildRequest describes a transaction to build.
type BuildRequest struct {
	Subwallets   []types.PublicKey
	Destinations []Destination
	PaymentID    string
	Mixin        uint64

	FeeMode    FeeMode
	FixedFee   uint64
	FeePerByte uint64

	SendAll bool

	CurrentHeight uint64
	NowUnix       uint64
}

// StealthOutput is one of our own change outputs created by a build, kept
// so Submit can register it as unconfirmedIncoming.
type StealthOutput struct {
	Owner     types.PublicKey
	Amount    uint64
	OutputKey types.PublicKey
}

// BuiltTransaction is the result of Build: a serialized transaction ready
// for post-build verification and submission.
type BuiltTransaction struct {
	Hash       types.Hash
	RawHex     string
	Fee        uint64
	Size       uint64
	Inputs     []subwallet.OwnedInput
	OwnOutputs []StealthOutput
	Transfers  map[types.PublicKey]int64
}

// Builder assembles transactions against one subwallet collection.
type Builder struct {
	Engine     cryptoprim.Engine
	Client     node.Client
	Collection *subwallet.Collection
	Cfg        config.Config
	AddrPrefix uint64
}

// Build implements spec.md §4.4 "Input selection", "Fee policy" and
// "sendAll mode", then calls buildSerialized to produce the wire form.
func (b *Builder) Build(ctx context.Context, req BuildRequest) (*BuiltTransaction, error) {
	if len(req.Destinations) == 0 {
		return nil, types.ErrAmountIsZero
	}

	decoded, err := decodeDestinations(req.Destinations)
	if err != nil {
		return nil, err
	}

	candidates := b.Collection.SpendableInputs(req.CurrentHeight, req.NowUnix, req.Subwallets)
	if len(candidates) == 0 {
		return nil, types.ErrNotEnoughBalance
	}

	rng := rand.New(rand.NewSource(deterministicSeed(req)))

	var chosen []subwallet.OwnedInput
	var fee uint64

	switch req.FeeMode {
	case FixedFee:
		fee = req.FixedFee
		if req.SendAll {
			chosen = candidates
			sortAscending(chosen)
		} else {
			chosen, err = SelectInputs(candidates, req.totalFixedAmount()+fee, rng)
			if err != nil {
				return nil, err
			}
		}
	case FeePerByte:
		if req.SendAll {
			chosen = candidates
			sortAscending(chosen)
		} else {
			chosen, err = SelectInputs(candidates, req.totalFixedAmount(), rng)
			if err != nil {
				return nil, err
			}
		}
		fee, chosen, err = b.resolveFeePerByte(candidates, chosen, req, rng)
		if err != nil {
			return nil, err
		}
	}

	destinations := make([]Destination, len(req.Destinations))
	copy(destinations, req.Destinations)
	if req.SendAll {
		sum := sumInputs(chosen)
		otherFixed := uint64(0)
		for _, d := range destinations[1:] {
			otherFixed += d.Amount
		}
		if sum < fee+otherFixed {
			return nil, types.ErrNotEnoughBalance
		}
		destinations[0].Amount = sum - fee - otherFixed
	}

	ring, err := FetchDecoys(ctx, b.Client, chosen, req.Mixin)
	if err != nil {
		return nil, err
	}

	return b.buildSerialized(chosen, ring, decoded, destinations, req, fee)
}

func (req BuildRequest) totalFixedAmount() uint64 {
	var sum uint64
	for _, d := range req.Destinations {
		sum += d.Amount
	}
	return sum
}

func decodeDestinations(destinations []Destination) ([]address.Decoded, error) {
	decoded := make([]address.Decoded, len(destinations))
	for i, d := range destinations {
		dd, err := address.Decode(d.Address)
		if err != nil {
			return nil, err
		}
		decoded[i] = dd
	}
	return decoded, nil
}

func sumInputs(inputs []subwallet.OwnedInput) uint64 {
	var sum uint64
	for _, in := range inputs {
		sum += in.Input.Amount
	}
	return sum
}

// deterministicSeed derives a shuffle seed from the request so tests can
// reproduce a build; production callers vary destinations/height per call.
func deterministicSeed(req BuildRequest) int64 {
	h := int64(req.CurrentHeight)
	for _, d := range req.Destinations {
		h = h*31 + int64(d.Amount)
	}
	if h == 0 {
		h = 1
	}
	return h
}

// resolveFeePerByte implements the iterative fee loop of spec.md §4.4 "Fee
// policy": raise the fee to the required fee for the estimated size of the
// current selection, and reselect inputs if the new total exceeds what was
// chosen. Sizes here come from EstimateSize over the input and destination
// counts; the transaction is not built and its real size is not measured
// inside this loop (Verify later checks the fee against the built size).
func (b *Builder) resolveFeePerByte(candidates, chosen []subwallet.OwnedInput, req BuildRequest, rng *rand.Rand) (uint64, []subwallet.OwnedInput, error) {
	estimatedSize := EstimateSize(req.Mixin, uint64(len(chosen)), uint64(len(req.Destinations)), req.PaymentID != "", 0)
	fee := RequiredFeeForSize(estimatedSize, req.FeePerByte, b.Cfg.FeePerByteChunkSize)

	for i := 0; i < 8; i++ {
		needed := req.totalFixedAmount() + fee
		if req.SendAll {
			needed = fee
		}
		if sumInputs(chosen) >= needed {
			realSize := EstimateSize(req.Mixin, uint64(len(chosen)), uint64(len(req.Destinations)), req.PaymentID != "", 0)
			required := RequiredFeeForSize(realSize, req.FeePerByte, b.Cfg.FeePerByteChunkSize)
			if fee >= required {
				return fee, chosen, nil
			}
			fee = required
			continue
		}
		more, err := SelectInputs(candidates, needed, rng)
		if err != nil {
			return 0, nil, err
		}
		chosen = more
	}
	return fee, chosen, nil
}

// buildSerialized derives per-output stealth keys, signs each input with a
// ring signature, and produces a deterministic serialized form. The wire
// format here is this implementation's own concrete encoding rather than
// the official CryptoNote binary transaction format, for the same reason
// cryptoprim.defaultEngine is not byte-exact: the real format is owned by
// the out-of-scope primitive/serialization library (see DESIGN.md).
func (b *Builder) buildSerialized(chosen []subwallet.OwnedInput, ring []RingInput, destinations []address.Decoded, destAmounts []Destination, req BuildRequest, fee uint64) (*BuiltTransaction, error) {
	txPublicKey, txPrivateKey, err := b.Engine.GenerateKeyPairRandom()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte(types.SizeTxVersion)
	writeUvarint(&buf, 0) // unlockTime

	buf.WriteByte(byte(len(ring)))
	var transfersNeg = make(map[types.PublicKey]int64)
	for _, r := range ring {
		ephemeralDerivation, err := b.Engine.GenerateKeyDerivation(r.Input.Input.TxPublicKey, b.Collection.PrivateViewKey)
		if err != nil {
			return nil, err
		}
		sw := b.Collection.Subwallets[r.Input.Owner]
		ephemeralSecret := b.Engine.DeriveSecretKey(ephemeralDerivation, r.Input.Input.TxIndex, *sw.PrivateSpendKey)
		ephemeralPublic := b.Engine.DeriveStealthPublicKey(ephemeralDerivation, r.Input.Input.TxIndex, r.Input.Owner)

		decoyKeys := make([]types.PublicKey, len(r.Decoys))
		for i, d := range r.Decoys {
			decoyKeys[i] = d.OutputKey
		}
		prefixHash := b.Engine.Keccak256(buf.Bytes())
		sig, err := b.Engine.GenerateRingSignature(prefixHash, r.Input.Input.KeyImage, decoyKeys, r.RealIndex, ephemeralSecret)
		if err != nil {
			return nil, err
		}

		buf.Write(r.Input.Input.KeyImage[:])
		buf.Write(ephemeralPublic[:])
		buf.Write(sig)

		transfersNeg[r.Input.Owner] -= int64(r.Input.Input.Amount)
	}

	var ownOutputs []StealthOutput
	outputIndex := uint64(0)
	for i, dest := range destinations {
		amounts := SplitAmountIntoDenominations(destAmounts[i].Amount)
		for _, amt := range amounts {
			derivation, err := b.Engine.GenerateKeyDerivation(dest.PublicViewKey, txPrivateKey)
			if err != nil {
				return nil, err
			}
			stealthKey := b.Engine.DeriveStealthPublicKey(derivation, outputIndex, dest.PublicSpendKey)
			buf.WriteByte(types.SizeOutputTag)
			writeUvarint(&buf, amt)
			buf.Write(stealthKey[:])
			outputIndex++

			if owner, ok := b.Collection.OwnerOfSpendKey(dest.PublicSpendKey); ok {
				ownOutputs = append(ownOutputs, StealthOutput{Owner: owner, Amount: amt, OutputKey: stealthKey})
			}
		}
	}

	buf.Write(txPublicKey[:])
	if req.PaymentID != "" {
		pid, _ := hex.DecodeString(req.PaymentID)
		buf.Write(pid)
	}

	hash := b.Engine.Keccak256(buf.Bytes())

	transfers := transfersNeg
	for _, o := range ownOutputs {
		transfers[o.Owner] += int64(o.Amount)
	}

	return &BuiltTransaction{
		Hash:       hash,
		RawHex:     hex.EncodeToString(buf.Bytes()),
		Fee:        fee,
		Size:       uint64(buf.Len()),
		Inputs:     chosen,
		OwnOutputs: ownOutputs,
		Transfers:  transfers,
	}, nil
}

func writeUvarint(buf *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	buf.Write(tmp[:n])
}
