package scheduler

import (
	"context"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeSyncer struct {
	exports   atomic.Int64
	connected atomic.Bool
	importing atomic.Bool
	block     chan struct{}
	mu        sync.Mutex
}

func (f *fakeSyncer) ExportAll(ctx context.Context) error {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.exports.Add(1)
	return nil
}

func (f *fakeSyncer) Connected() bool { return f.connected.Load() }
func (f *fakeSyncer) Importing() bool { return f.importing.Load() }

func newTestScheduler(syncer Syncer, debounce, interval time.Duration) *Scheduler {
	return New(syncer, &Config{
		Debounce: debounce,
		Interval: interval,
		Logger:   log.New(io.Discard, "", 0),
	})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("condition never met")
		default:
			time.Sleep(2 * time.Millisecond)
		}
	}
}

func TestDebounceCoalescesBurst(t *testing.T) {
	syncer := &fakeSyncer{}
	syncer.connected.Store(true)
	s := newTestScheduler(syncer, 20*time.Millisecond, 0)
	s.Start()
	defer s.Stop()

	for i := 0; i < 5; i++ {
		s.Notify()
		time.Sleep(2 * time.Millisecond)
	}

	waitFor(t, func() bool { return syncer.exports.Load() == 1 })
	// The window has passed; nothing further should fire.
	time.Sleep(60 * time.Millisecond)
	if got := syncer.exports.Load(); got != 1 {
		t.Errorf("exports = %d, want 1 for a burst of notifications", got)
	}
}

func TestSuppressedWhileImporting(t *testing.T) {
	syncer := &fakeSyncer{}
	syncer.connected.Store(true)
	syncer.importing.Store(true)
	s := newTestScheduler(syncer, 5*time.Millisecond, 0)
	s.Start()
	defer s.Stop()

	s.Notify()
	time.Sleep(40 * time.Millisecond)
	if got := syncer.exports.Load(); got != 0 {
		t.Errorf("exports = %d during import, want 0", got)
	}

	// After the import finishes, the next notification flows through.
	syncer.importing.Store(false)
	s.Notify()
	waitFor(t, func() bool { return syncer.exports.Load() == 1 })
}

func TestImportWritesDoNotArmDebounce(t *testing.T) {
	syncer := &fakeSyncer{}
	syncer.connected.Store(true)
	syncer.importing.Store(true)
	s := newTestScheduler(syncer, 50*time.Millisecond, 0)
	s.Start()
	defer s.Stop()

	// The import's own store writes notify the scheduler, then the
	// import finishes before the debounce window would have elapsed.
	// Nothing may fire: exporting the just-imported dataset back to
	// the remote is a pointless round trip.
	s.Notify()
	time.Sleep(10 * time.Millisecond)
	syncer.importing.Store(false)

	time.Sleep(150 * time.Millisecond)
	if got := syncer.exports.Load(); got != 0 {
		t.Errorf("exports = %d after import-driven notification, want 0", got)
	}
}

func TestSkippedWhileDisconnected(t *testing.T) {
	syncer := &fakeSyncer{}
	s := newTestScheduler(syncer, 5*time.Millisecond, 0)
	s.Start()
	defer s.Stop()

	s.Notify()
	time.Sleep(40 * time.Millisecond)
	if got := syncer.exports.Load(); got != 0 {
		t.Errorf("exports = %d while disconnected, want 0", got)
	}
}

func TestIntervalFires(t *testing.T) {
	syncer := &fakeSyncer{}
	syncer.connected.Store(true)
	s := newTestScheduler(syncer, time.Hour, 15*time.Millisecond)
	s.Start()
	defer s.Stop()

	waitFor(t, func() bool { return syncer.exports.Load() >= 2 })
}

func TestInFlightFiresCoalesce(t *testing.T) {
	syncer := &fakeSyncer{block: make(chan struct{})}
	syncer.connected.Store(true)
	s := newTestScheduler(syncer, 5*time.Millisecond, 0)
	s.Start()
	defer s.Stop()

	s.Notify()
	time.Sleep(20 * time.Millisecond) // first export is now blocked in flight

	// Several more triggers while blocked collapse into one follow-up.
	s.Notify()
	time.Sleep(20 * time.Millisecond)
	s.Notify()
	time.Sleep(20 * time.Millisecond)

	close(syncer.block)
	waitFor(t, func() bool { return syncer.exports.Load() == 2 })
	time.Sleep(40 * time.Millisecond)
	if got := syncer.exports.Load(); got != 2 {
		t.Errorf("exports = %d, want 2 (one in-flight + one coalesced)", got)
	}
}

func TestStopRacesWithDebounceFire(t *testing.T) {
	// Stop while the debounce timer is elapsing; repeat to land inside
	// the window where the timer callback and Stop's wait overlap. Run
	// under -race to check the shutdown handoff.
	for i := 0; i < 50; i++ {
		syncer := &fakeSyncer{}
		syncer.connected.Store(true)
		s := newTestScheduler(syncer, time.Millisecond, 0)
		s.Start()
		s.Notify()
		time.Sleep(time.Millisecond)
		s.Stop()
	}
}

func TestStopCancelsPendingWork(t *testing.T) {
	syncer := &fakeSyncer{}
	syncer.connected.Store(true)
	s := newTestScheduler(syncer, 50*time.Millisecond, 0)
	s.Start()

	s.Notify()
	s.Stop()

	time.Sleep(100 * time.Millisecond)
	if got := syncer.exports.Load(); got != 0 {
		t.Errorf("exports = %d after Stop, want 0", got)
	}

	// Notifications after Stop are ignored.
	s.Notify()
	time.Sleep(100 * time.Millisecond)
	if got := syncer.exports.Load(); got != 0 {
		t.Errorf("exports = %d after post-stop notify, want 0", got)
	}
}
