package types

import "encoding/hex"

// TransactionInput is one on-chain output the wallet has identified as its
// own, in whichever of the three ledger states (unspent/locked/spent) it
// currently occupies. spec.md §3.
type TransactionInput struct {
	KeyImage           KeyImage    `json:"keyImage"`
	Amount             uint64      `json:"amount"`
	BlockHeight        uint64      `json:"blockHeight"`
	TxPublicKey        PublicKey   `json:"txPublicKey"`
	TxIndex            uint64      `json:"txIndex"`
	GlobalOutputIndex  uint64      `json:"globalOutputIndex"`
	OutputKey          PublicKey   `json:"outputKey"`
	SpendHeight        uint64      `json:"spendHeight"`
	UnlockTime         uint64      `json:"unlockTime"`
	ParentTxHash       Hash        `json:"parentTransactionHash"`
	PrivateEphemeral   *PrivateKey `json:"privateEphemeral,omitempty"`
}

// IsSpent reports whether this input has been confirmed spent on chain.
func (t TransactionInput) IsSpent() bool { return t.SpendHeight > 0 }

// Unlocked reports whether t is spendable at currentHeight, per spec.md
// §4.3 "Balance": unlockTime == 0 is always unlocked; a height-form
// unlockTime unlocks one block early (currentHeight+1 >= unlockTime);
// a timestamp-form unlockTime (>= MaxBlockNumber) unlocks against wall
// clock time.
func (t TransactionInput) Unlocked(currentHeight uint64, nowUnix uint64) bool {
	if t.UnlockTime == 0 {
		return true
	}
	if t.UnlockTime < MaxBlockNumber {
		return currentHeight+1 >= t.UnlockTime
	}
	return nowUnix >= t.UnlockTime
}

// UnconfirmedInput tracks self-sent change before its parent transaction
// confirms, spec.md §3.
type UnconfirmedInput struct {
	Amount       uint64    `json:"amount"`
	OutputKey    PublicKey `json:"outputKey"`
	ParentTxHash Hash      `json:"parentTransactionHash"`
}

// Hash is a 32-byte transaction or block hash, hex-encoded when marshaled.
type Hash [32]byte

func (h Hash) IsZero() bool { return h == Hash{} }

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

func (h Hash) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *Hash) UnmarshalText(text []byte) error { return unmarshalHexKey(text, h[:]) }

// HashFromHex parses a hex string into a Hash.
func HashFromHex(s string) (Hash, error) {
	var h Hash
	if err := h.UnmarshalText([]byte(s)); err != nil {
		return Hash{}, err
	}
	return h, nil
}
