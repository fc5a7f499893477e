// Package wallet is the façade gluing the subwallet ledger, sync status,
// synchronizer, transaction builder, container codec, and scheduler into
// one container, matching spec.md §2's system overview and §5's
// concurrency model.
//
// Grounded on the teacher's modules/wallet.Wallet: one struct holding a
// mutex, the persisted state, and a threadgroup, with every exported
// method taking the lock and checking an "unlocked"/"stopped" flag before
// touching state (wallet.go's pattern of `w.mu.Lock(); defer w.mu.Unlock()`
// guarding every mutation).
package wallet

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/cryptonote-community/walletcore/config"
	"github.com/cryptonote-community/walletcore/container"
	"github.com/cryptonote-community/walletcore/cryptoprim"
	"github.com/cryptonote-community/walletcore/node"
	"github.com/cryptonote-community/walletcore/scheduler"
	"github.com/cryptonote-community/walletcore/subwallet"
	"github.com/cryptonote-community/walletcore/synchronizer"
	"github.com/cryptonote-community/walletcore/syncstatus"
	"github.com/cryptonote-community/walletcore/txbuilder"
	"github.com/cryptonote-community/walletcore/types"
	"github.com/cryptonote-community/walletcore/walletlog"
)

// CurrentWalletFileFormatVersion is compared against the persisted
// `walletFileFormatVersion`, spec.md §6.
const CurrentWalletFileFormatVersion = 1

// Snapshot is the full JSON wallet snapshot, spec.md §6.
type Snapshot struct {
	WalletFileFormatVersion uint32                `json:"walletFileFormatVersion"`
	SubWallets              subwallet.Snapshot     `json:"subWallets"`
	WalletSynchronizer      syncstatus.Snapshot    `json:"walletSynchronizer"`
}

// Wallet is a single-writer, concurrent-reader container over one
// SubwalletCollection and its synchronizer, per spec.md §5.
type Wallet struct {
	mu sync.Mutex

	collection *subwallet.Collection
	status     *syncstatus.Status
	sync       *synchronizer.Synchronizer
	builder    *txbuilder.Builder
	prepared   *txbuilder.PrepareStore
	scheduler  *scheduler.Scheduler

	client node.Client
	engine cryptoprim.Engine
	cfg    config.Config
	log    *walletlog.Logger

	startTimestamp uint64
	startHeight    uint64

	currentlyTransacting bool
	shouldStop           bool
}

// New constructs a Wallet around a fresh, empty collection.
func New(privateViewKey types.PrivateKey, client node.Client, engine cryptoprim.Engine, cfg config.Config, log *walletlog.Logger) *Wallet {
	collection := subwallet.New(privateViewKey)
	status := syncstatus.New()
	sync := synchronizer.New(client, engine, collection, status, cfg, log)
	builder := &txbuilder.Builder{Engine: engine, Client: client, Collection: collection, Cfg: cfg, AddrPrefix: cfg.AddressPrefix}
	sch := scheduler.New(log)

	w := &Wallet{
		collection: collection,
		status:     status,
		sync:       sync,
		builder:    builder,
		prepared:   txbuilder.NewPrepareStore(),
		scheduler:  sch,
		client:     client,
		engine:     engine,
		cfg:        cfg,
		log:        log,
	}

	sch.SyncInterval = cfg.MainLoopInterval
	sch.DaemonInfoInterval = cfg.DaemonUpdateInterval
	sch.CancellationInterval = cfg.LockedTransactionsCheckInterval
	sch.SyncTask = w.runSyncTick
	sch.DaemonInfoTask = w.runDaemonInfoTick
	sch.CancellationTask = w.runCancellationTick

	return w
}

// Start launches the cooperative scheduler (spec.md §5).
func (w *Wallet) Start() { w.scheduler.Start() }

// Close stops the scheduler, letting any in-flight tick finish, and marks
// the wallet as stopped (spec.md §5 "Cancellation").
func (w *Wallet) Close() error {
	w.mu.Lock()
	w.shouldStop = true
	w.mu.Unlock()
	return w.scheduler.Stop()
}

func (w *Wallet) runSyncTick(ctx context.Context) error {
	w.mu.Lock()
	stopped := w.shouldStop
	w.mu.Unlock()
	if stopped {
		return nil
	}

	info, err := w.client.Info(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.sync.Fetch(ctx, info.Height); err != nil {
		return err
	}
	if err := w.sync.Process(ctx); err != nil {
		return err
	}
	if w.sync.ShouldOpportunisticallyFetch() {
		return w.sync.Fetch(ctx, info.Height)
	}
	return nil
}

func (w *Wallet) runDaemonInfoTick(ctx context.Context) error {
	_, err := w.client.Info(ctx)
	return err
}

func (w *Wallet) runCancellationTick(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sync.FindCancelled(ctx)
}

// Balance returns the wallet-wide unlocked/locked balance across the
// given subwallets (nil means "all").
func (w *Wallet) Balance(currentHeight, nowUnix uint64, subwallets []types.PublicKey) (unlocked, locked uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.collection.TotalBalance(currentHeight, nowUnix, subwallets)
}

// Send builds, verifies and submits a transaction, enforcing spec.md §5's
// "at most one send-in-flight" rule via currentlyTransacting.
func (w *Wallet) Send(ctx context.Context, req txbuilder.BuildRequest) (types.Transaction, error) {
	w.mu.Lock()
	if w.currentlyTransacting {
		w.mu.Unlock()
		return types.Transaction{}, types.ErrAlreadyTransacting
	}
	w.currentlyTransacting = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.currentlyTransacting = false
		w.mu.Unlock()
	}()

	built, err := w.builder.Build(ctx, req)
	if err != nil {
		return types.Transaction{}, err
	}
	feePerByte := req.FeePerByte
	if req.FeeMode == txbuilder.FixedFee {
		feePerByte = 0
	}
	if err := txbuilder.Verify(built, req.Destinations, req.FeeMode, feePerByte, req.CurrentHeight); err != nil {
		return types.Transaction{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.builder.Submit(ctx, built)
}

// ToSnapshot renders the wallet's persisted state into the wire schema of
// spec.md §6.
func (w *Wallet) ToSnapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{
		WalletFileFormatVersion: CurrentWalletFileFormatVersion,
		SubWallets:              w.collection.ToSnapshot(),
		WalletSynchronizer:      w.status.ToSnapshot(w.startTimestamp, w.startHeight, w.collection.PrivateViewKey),
	}
}

// SaveEncrypted serializes and encrypts the wallet snapshot per spec.md
// §4.5.
func (w *Wallet) SaveEncrypted(password string) ([]byte, error) {
	snap := w.ToSnapshot()
	plaintext, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	return container.Encrypt(password, plaintext)
}

// LoadEncrypted decrypts and restores a wallet snapshot, rejecting a
// format version it does not understand.
func LoadEncrypted(password string, blob []byte, client node.Client, engine cryptoprim.Engine, cfg config.Config, log *walletlog.Logger) (*Wallet, error) {
	plaintext, err := container.Decrypt(password, blob)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(plaintext, &snap); err != nil {
		return nil, types.ErrWalletFileCorrupted
	}
	if snap.WalletFileFormatVersion != CurrentWalletFileFormatVersion {
		return nil, types.ErrUnsupportedWalletFileFormatVersion
	}

	collection := subwallet.FromSnapshot(snap.SubWallets)
	status := syncstatus.FromSnapshot(snap.WalletSynchronizer)

	w := New(collection.PrivateViewKey, client, engine, cfg, log)
	w.collection = collection
	w.status = status
	w.sync = synchronizer.New(client, engine, collection, status, cfg, log)
	w.builder = &txbuilder.Builder{Engine: engine, Client: client, Collection: collection, Cfg: cfg, AddrPrefix: cfg.AddressPrefix}
	w.startTimestamp = snap.WalletSynchronizer.StartTimestamp
	w.startHeight = snap.WalletSynchronizer.StartHeight
	w.scheduler.SyncTask = w.runSyncTick
	w.scheduler.DaemonInfoTask = w.runDaemonInfoTick
	w.scheduler.CancellationTask = w.runCancellationTick

	return w, nil
}

// Collection exposes the underlying ledger for read-mostly callers (CLI,
// RPC handlers) that need direct access beyond the façade's own methods.
func (w *Wallet) Collection() *subwallet.Collection {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.collection
}
