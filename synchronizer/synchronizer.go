// Package synchronizer implements spec.md §4.2: the bounded, in-order
// block buffer and the fetch/process/backpressure triangle that keeps the
// subwallet ledger and sync status current with the node.
//
// Grounded on the teacher's modules/wallet/update.go consensus-subscription
// loop (subscribeWallet → revertHistory → applyHistory), generalized from
// a push-based ConsensusChange callback to a pull-based fetch/process pair
// because the node transport here is a stateless REST API, not an
// in-process consensus set.
package synchronizer

import (
	"context"
	"fmt"
	"sync"

	"github.com/cryptonote-community/walletcore/config"
	"github.com/cryptonote-community/walletcore/cryptoprim"
	"github.com/cryptonote-community/walletcore/node"
	"github.com/cryptonote-community/walletcore/subwallet"
	"github.com/cryptonote-community/walletcore/syncstatus"
	"github.com/cryptonote-community/walletcore/types"
	"github.com/cryptonote-community/walletcore/walletlog"
)

// Synchronizer owns the fetched-but-unprocessed block buffer for one
// wallet container.
type Synchronizer struct {
	client     node.Client
	engine     cryptoprim.Engine
	collection *subwallet.Collection
	status     *syncstatus.Status
	cfg        config.Config
	log        *walletlog.Logger

	outputScan OutputScanFunc

	fetchMu sync.Mutex
	buffer  []types.Block

	startTimestamp    uint64
	batchSize         uint64
	consecutiveFails  int
	consecutiveOK     int
	processedSinceFetch int
}

// New constructs a Synchronizer bound to one collection/status pair.
func New(client node.Client, engine cryptoprim.Engine, collection *subwallet.Collection, status *syncstatus.Status, cfg config.Config, log *walletlog.Logger) *Synchronizer {
	return &Synchronizer{
		client:     client,
		engine:     engine,
		collection: collection,
		status:     status,
		cfg:        cfg,
		log:        log,
		outputScan: DefaultOutputScan,
		batchSize:  cfg.BlocksPerDaemonRequest,
	}
}

// SetOutputScan overrides the output-detection step with an
// externally-supplied scanner (spec.md §4.2 "Output-scan extensibility").
func (s *Synchronizer) SetOutputScan(fn OutputScanFunc) { s.outputScan = fn }

// SetSyncStartTimestamp seeds the synchronizer's transient wall-clock
// starting point, before the first successful fetch collapses it to a
// height.
func (s *Synchronizer) SetSyncStartTimestamp(ts uint64) { s.startTimestamp = ts }

// bufferFootprint estimates the buffer's memory use, coarse enough for
// the backpressure gate of spec.md §4.2.
func (s *Synchronizer) bufferFootprint() uint64 {
	const approxBytesPerTx = 512
	var n uint64
	for _, b := range s.buffer {
		n += approxBytesPerTx * uint64(1+len(b.Transactions))
	}
	return n
}

// Fetch implements spec.md §4.2 "fetch". It is a no-op if a fetch is
// already in flight, if the node is behind the wallet, or if the buffer is
// too full to safely grow.
func (s *Synchronizer) Fetch(ctx context.Context, localNodeHeight uint64) error {
	if !s.fetchMu.TryLock() {
		return nil
	}
	defer s.fetchMu.Unlock()

	walletHeight := s.status.LastKnownBlockHeight
	if localNodeHeight < walletHeight {
		return nil
	}
	if s.bufferFootprint()+s.cfg.MaxBodyResponseSize >= s.cfg.BlockStoreMemoryLimit {
		return nil
	}

	checkpoints := s.status.GetProcessedCheckpoints()
	req := node.SyncDataRequest{
		BlockCount:               s.batchSize,
		BlockHashCheckpoints:     checkpoints,
		SkipCoinbaseTransactions: !s.cfg.ScanCoinbaseTransactions,
	}
	firstBatch := len(checkpoints) == 0
	usingTimestamp := firstBatch && s.startTimestamp != 0
	if usingTimestamp {
		req.StartTimestamp = s.startTimestamp
	} else {
		req.StartHeight = walletHeight
	}

	resp, err := s.client.GetSyncData(ctx, req)
	if err != nil {
		s.consecutiveFails++
		s.consecutiveOK = 0
		if s.consecutiveFails >= 3 && s.batchSize > 1 {
			s.batchSize /= 2
		}
		return classifyNodeError(err)
	}
	s.consecutiveFails = 0
	s.consecutiveOK++
	if s.consecutiveOK >= 3 && s.batchSize < s.cfg.BlocksPerDaemonRequest {
		s.batchSize *= 2
		if s.batchSize > s.cfg.BlocksPerDaemonRequest {
			s.batchSize = s.cfg.BlocksPerDaemonRequest
		}
	}

	if len(resp.Items) == 0 {
		return nil // idle
	}

	if firstBatch && !usingTimestamp {
		if resp.Items[0].BlockHeight != req.StartHeight {
			return types.NewFatalError(types.ErrUnexpectedHeight)
		}
	}
	if usingTimestamp {
		s.collection.CollapseSyncStartToHeight(resp.Items[0].BlockHeight)
		s.startTimestamp = 0
	}

	s.buffer = append(s.buffer, resp.Items...)
	return nil
}

func classifyNodeError(err error) error {
	return fmt.Errorf("synchronizer fetch: %w", err)
}

// Process implements spec.md §4.2 "process": consumes the buffer in
// order, one block at a time.
func (s *Synchronizer) Process(ctx context.Context) error {
	for len(s.buffer) > 0 {
		block := s.buffer[0]

		if block.BlockHeight <= s.status.LastKnownBlockHeight && s.status.LastKnownBlockHeight != 0 {
			s.collection.RemoveForkedTransactions(block.BlockHeight)
		}

		if block.BlockHeight%types.SpentInputPruneWindow == 0 && block.BlockHeight >= types.SpentInputPruneWindow {
			s.collection.PruneSpentInputs(block.BlockHeight - types.SpentInputPruneWindow)
		}

		if err := s.fillMissingGlobalIndexes(ctx, &block); err != nil {
			return err
		}

		if err := s.processBlock(block); err != nil {
			return err
		}

		if err := s.status.StoreBlockHash(block.BlockHeight, block.BlockHash); err != nil {
			return err
		}
		s.buffer = s.buffer[1:]

		s.processedSinceFetch++
	}
	return nil
}

// ShouldOpportunisticallyFetch reports whether enough blocks have been
// processed since the last fetch to trigger another one (spec.md §4.2
// backpressure: "every N (~10) processed blocks").
func (s *Synchronizer) ShouldOpportunisticallyFetch() bool {
	if s.processedSinceFetch >= types.BlockFetchOpportunityStride {
		s.processedSinceFetch = 0
		return true
	}
	return false
}

func (s *Synchronizer) processBlock(block types.Block) error {
	scanned, err := s.outputScan(block, s.collection.PrivateViewKey, s.collection.PublicSpendKeys, s.engine)
	if err != nil {
		return err
	}

	transfers := make(map[types.PublicKey]int64)

	for _, r := range scanned {
		sw, ok := s.collection.Subwallets[r.Owner]
		if !ok {
			continue
		}
		derivation, err := s.engine.GenerateKeyDerivation(r.Input.TxPublicKey, s.collection.PrivateViewKey)
		if err != nil {
			return err
		}
		ephemeralPublic := s.engine.DeriveStealthPublicKey(derivation, r.Input.TxIndex, r.Owner)
		keyImage, err := fillKeyImage(s.engine, sw, derivation, r.Input.TxIndex, ephemeralPublic)
		if err != nil {
			return err
		}
		input := r.Input
		input.KeyImage = keyImage
		sw.StoreTransactionInput(input, s.logf)
		s.collection.RegisterKeyImage(keyImage, r.Owner)
		transfers[r.Owner] += int64(input.Amount)
	}

	txs := block.Transactions
	if block.CoinbaseTransaction != nil {
		txs = append([]types.RawTransaction{*block.CoinbaseTransaction}, txs...)
	}
	for _, tx := range txs {
		for _, ki := range tx.KeyInputs {
			owner, ok := s.collection.OwnerOfKeyImage(ki.KeyImage)
			if !ok {
				continue
			}
			sw := s.collection.Subwallets[owner]
			sw.MarkInputAsSpent(ki.KeyImage, block.BlockHeight, s.logf)
			transfers[owner] -= int64(ki.Amount)
		}
	}

	if len(transfers) == 0 {
		return nil
	}

	var fee uint64
	if block.CoinbaseTransaction == nil {
		fee = sumFee(txs)
	}

	tx := types.Transaction{
		Hash:        block.BlockHash,
		BlockHeight: block.BlockHeight,
		Timestamp:   block.BlockTimestamp,
		Fee:         fee,
		Transfers:   transfers,
	}
	s.collection.AppendConfirmedTransaction(tx)
	return nil
}

func sumFee(txs []types.RawTransaction) uint64 {
	var inTotal, outTotal uint64
	for _, tx := range txs {
		for _, in := range tx.KeyInputs {
			inTotal += in.Amount
		}
		for _, out := range tx.KeyOutputs {
			outTotal += out.Amount
		}
	}
	if inTotal <= outTotal {
		return 0
	}
	return inTotal - outTotal
}

func (s *Synchronizer) logf(format string, args ...interface{}) {
	if s.log != nil {
		s.log.Warnf(format, args...)
	}
}

// fillMissingGlobalIndexes implements spec.md §4.2 "global-index filling":
// lazily fetches global output indexes over an obscurity-radius range when
// the node's sync response omitted them.
func (s *Synchronizer) fillMissingGlobalIndexes(ctx context.Context, block *types.Block) error {
	needsFill := false
	for _, tx := range block.Transactions {
		for _, out := range tx.KeyOutputs {
			if out.GlobalIndex == nil {
				needsFill = true
				break
			}
		}
	}
	if !needsFill {
		return nil
	}

	start := uint64(0)
	if block.BlockHeight > types.ObscurityRadius {
		start = block.BlockHeight - types.ObscurityRadius
	}
	resp, err := s.client.GetGlobalIndexesForRange(ctx, node.GlobalIndexesRangeRequest{
		StartHeight: start,
		EndHeight:   block.BlockHeight + types.ObscurityRadius,
	})
	if err != nil {
		return err
	}
	byHash := make(map[types.Hash][]uint64, len(resp.Indexes))
	for _, e := range resp.Indexes {
		byHash[e.Key] = e.Value
	}

	for ti, tx := range block.Transactions {
		indexes, ok := byHash[tx.Hash]
		if !ok {
			return types.NewFatalError(types.ErrMissingGlobalIndex)
		}
		for oi := range tx.KeyOutputs {
			if oi >= len(indexes) {
				return types.NewFatalError(types.ErrMissingGlobalIndex)
			}
			idx := indexes[oi]
			block.Transactions[ti].KeyOutputs[oi].GlobalIndex = &idx
		}
	}
	return nil
}

// FindCancelled implements spec.md §4.2 "findCancelled": asks the node
// which of our locked transactions it no longer knows about, and unwinds
// those.
func (s *Synchronizer) FindCancelled(ctx context.Context) error {
	if len(s.collection.LockedTransactions) == 0 {
		return nil
	}
	hashes := make([]types.Hash, len(s.collection.LockedTransactions))
	for i, t := range s.collection.LockedTransactions {
		hashes[i] = t.Hash
	}
	resp, err := s.client.GetTransactionsStatus(ctx, hashes)
	if err != nil {
		return err
	}
	for _, h := range resp.TransactionsUnknown {
		s.collection.RemoveCancelledTransaction(h)
	}
	return nil
}
