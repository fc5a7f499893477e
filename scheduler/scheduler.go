// Package scheduler runs the three cooperating periodic tasks of spec.md
// §5: the sync tick, the daemon-info tick, and the locked-transaction
// cancellation-check tick. Each task re-arms its own timer only after its
// previous run completes, so a slow fetch/process cycle never overlaps
// itself.
//
// Grounded on the teacher's Wallet.tg (NebulousLabs/threadgroup) idiom in
// modules/wallet/wallet.go: every background goroutine calls tg.Add()
// before starting and tg.Done() on exit, and Close() calls tg.Stop() to
// signal and wait for them.
package scheduler

import (
	"context"
	"time"

	"github.com/NebulousLabs/threadgroup"

	"github.com/cryptonote-community/walletcore/walletlog"
)

// Task is one periodic unit of work. A returned error is logged; it never
// stops the scheduler (spec.md §5: individual task failures are
// transient and retried on the next tick).
type Task func(ctx context.Context) error

// Scheduler cooperatively re-arms three independent timers.
type Scheduler struct {
	tg  threadgroup.ThreadGroup
	log *walletlog.Logger

	SyncInterval          time.Duration
	DaemonInfoInterval    time.Duration
	CancellationInterval  time.Duration

	SyncTask         Task
	DaemonInfoTask   Task
	CancellationTask Task
}

// New constructs a Scheduler with spec.md §5's default intervals; callers
// may overwrite them before Start.
func New(log *walletlog.Logger) *Scheduler {
	return &Scheduler{
		log:                  log,
		SyncInterval:         time.Second,
		DaemonInfoInterval:   10 * time.Second,
		CancellationInterval: 30 * time.Second,
	}
}

// Start launches the three task loops as threadgroup-tracked goroutines.
func (s *Scheduler) Start() {
	s.runLoop(s.SyncInterval, s.SyncTask)
	s.runLoop(s.DaemonInfoInterval, s.DaemonInfoTask)
	s.runLoop(s.CancellationInterval, s.CancellationTask)
}

// runLoop re-arms a fresh timer only after the previous run of task
// completes, so a slow task never overlaps its own next tick.
func (s *Scheduler) runLoop(interval time.Duration, task Task) {
	if task == nil {
		return
	}
	if err := s.tg.Add(); err != nil {
		return
	}
	go func() {
		defer s.tg.Done()

		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-s.tg.StopChan():
				return
			case <-timer.C:
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				if err := task(ctx); err != nil && s.log != nil {
					s.log.Warnf("scheduled task failed: %v", err)
				}
				cancel()
				timer.Reset(interval)
			}
		}
	}()
}

// Stop signals every task loop to exit and waits for them, spec.md §5's
// graceful shutdown contract.
func (s *Scheduler) Stop() error {
	return s.tg.Stop()
}
