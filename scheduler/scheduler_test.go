package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLoopInvokesTaskRepeatedly(t *testing.T) {
	s := New(nil)
	s.SyncInterval = 5 * time.Millisecond
	s.DaemonInfoInterval = time.Hour
	s.CancellationInterval = time.Hour

	var calls int32
	s.SyncTask = func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 3
	}, time.Second, time.Millisecond)
}

func TestStopWaitsForInFlightTaskToFinish(t *testing.T) {
	s := New(nil)
	s.SyncInterval = time.Millisecond
	s.DaemonInfoInterval = time.Hour
	s.CancellationInterval = time.Hour

	started := make(chan struct{})
	finished := int32(0)
	s.SyncTask = func(ctx context.Context) error {
		close1(started)
		time.Sleep(20 * time.Millisecond)
		atomic.StoreInt32(&finished, 1)
		return nil
	}

	s.Start()
	<-started
	require.NoError(t, s.Stop())
	assert.Equal(t, int32(1), atomic.LoadInt32(&finished))
}

func close1(ch chan struct{}) {
	select {
	case <-ch:
	default:
		close(ch)
	}
}

func TestNilTaskIsSkipped(t *testing.T) {
	s := New(nil)
	s.SyncInterval = time.Millisecond
	s.DaemonInfoInterval = time.Millisecond
	s.CancellationInterval = time.Millisecond
	// All tasks left nil: Start/Stop must not block or panic.
	s.Start()
	require.NoError(t, s.Stop())
}
