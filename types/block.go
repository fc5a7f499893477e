package types

// Block is a block as delivered by the node's sync endpoints. spec.md §3.
type Block struct {
	BlockHeight          uint64             `json:"blockHeight"`
	BlockHash            Hash               `json:"blockHash"`
	BlockTimestamp       uint64             `json:"blockTimestamp"`
	CoinbaseTransaction  *RawTransaction    `json:"coinbaseTransaction,omitempty"`
	Transactions         []RawTransaction   `json:"transactions"`
}

// RawTransaction is a transaction as it appears inside a Block, before the
// wallet has decided whether any of its outputs or inputs belong to us.
type RawTransaction struct {
	Hash        Hash          `json:"hash"`
	TxPublicKey PublicKey     `json:"txPublicKey"`
	UnlockTime  uint64        `json:"unlockTime"`
	KeyOutputs  []KeyOutput   `json:"keyOutputs"`
	KeyInputs   []KeyInput    `json:"keyInputs,omitempty"`
	PaymentID   string        `json:"paymentID,omitempty"`
}

// KeyOutput is one output inside a RawTransaction.
type KeyOutput struct {
	Key         PublicKey `json:"key"`
	Amount      uint64    `json:"amount"`
	GlobalIndex *uint64   `json:"globalIndex,omitempty"`
}

// KeyInput is one spent-output reference inside a RawTransaction.
type KeyInput struct {
	KeyImage     KeyImage `json:"keyImage"`
	Amount       uint64   `json:"amount"`
	OutputIndexes []uint64 `json:"outputIndexes"`
}
