// Package node defines the node RPC transport spec.md §1 places out of
// scope ("the node RPC transport itself") plus one concrete HTTP
// implementation, grounded on the teacher's pkg/client/http.go GET/POST
// JSON idiom (api.HttpGET/HttpPOST wrapped with status-code checks).
package node

import (
	"context"

	"github.com/cryptonote-community/walletcore/types"
)

// InfoResponse is the node's GET /info reply (spec.md §6).
type InfoResponse struct {
	Height                     uint64 `json:"height"`
	NetworkHeight              uint64 `json:"network_height"`
	IncomingConnectionsCount   int    `json:"incoming_connections_count"`
	OutgoingConnectionsCount   int    `json:"outgoing_connections_count"`
	Difficulty                 uint64 `json:"difficulty"`
	IsCacheAPI                 bool   `json:"isCacheApi"`
}

// FeeResponse is the node's GET /fee reply.
type FeeResponse struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}

// TopBlock identifies the tip the node returned in a sync response.
type TopBlock struct {
	Height uint64    `json:"height"`
	Hash   types.Hash `json:"hash"`
}

// SyncDataRequest is the POST /getwalletsyncdata or /getrawblocks body.
type SyncDataRequest struct {
	BlockCount              uint64       `json:"blockCount"`
	BlockHashCheckpoints     []types.Hash `json:"blockHashCheckpoints"`
	SkipCoinbaseTransactions bool         `json:"skipCoinbaseTransactions"`
	StartHeight              uint64       `json:"startHeight,omitempty"`
	StartTimestamp           uint64       `json:"startTimestamp,omitempty"`
}

// SyncDataResponse is the matching reply.
type SyncDataResponse struct {
	Items    []types.Block `json:"items"`
	Synced   bool          `json:"synced"`
	TopBlock *TopBlock     `json:"topBlock,omitempty"`
}

// GlobalIndexesRangeRequest is the POST /get_global_indexes_for_range body.
type GlobalIndexesRangeRequest struct {
	StartHeight uint64 `json:"startHeight"`
	EndHeight   uint64 `json:"endHeight"`
}

// GlobalIndexEntry is one element of a GlobalIndexesRangeResponse.
type GlobalIndexEntry struct {
	Key   types.Hash `json:"key"`
	Value []uint64   `json:"value"`
}

// GlobalIndexesRangeResponse is the matching reply.
type GlobalIndexesRangeResponse struct {
	Indexes []GlobalIndexEntry `json:"indexes"`
}

// TransactionsStatusResponse is the POST /get_transactions_status reply.
type TransactionsStatusResponse struct {
	TransactionsUnknown []types.Hash `json:"transactionsUnknown"`
}

// RandomOutput is one decoy candidate for an amount.
type RandomOutput struct {
	GlobalIndex uint64          `json:"global_amount_index"`
	OutputKey   types.PublicKey `json:"out_key"`
}

// RandomOutputsForAmount groups decoys by the amount they were requested
// for.
type RandomOutputsForAmount struct {
	Amount  uint64         `json:"amount"`
	Outputs []RandomOutput `json:"outs"`
}

// SendRawTransactionResponse is the POST /sendrawtransaction reply.
type SendRawTransactionResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Client is the node RPC transport the rest of the core consumes.
// Implementations must auto-detect HTTPS vs HTTP on the first request and
// cache the result (spec.md §6), and must fall back from /getrawblocks to
// /getwalletsyncdata permanently for the session on a 404 (spec.md §6).
type Client interface {
	Info(ctx context.Context) (InfoResponse, error)
	Fee(ctx context.Context) (FeeResponse, error)
	GetSyncData(ctx context.Context, req SyncDataRequest) (SyncDataResponse, error)
	GetGlobalIndexesForRange(ctx context.Context, req GlobalIndexesRangeRequest) (GlobalIndexesRangeResponse, error)
	GetTransactionsStatus(ctx context.Context, hashes []types.Hash) (TransactionsStatusResponse, error)
	GetRandomOutputs(ctx context.Context, amounts []uint64, mixin uint64) ([]RandomOutputsForAmount, error)
	SendRawTransaction(ctx context.Context, txHex string) (SendRawTransactionResponse, error)
	// IsCacheAPI reports whether the connected node is a lightweight cache
	// API (no /get_global_indexes_for_range, different random-outs path).
	IsCacheAPI() bool
}
