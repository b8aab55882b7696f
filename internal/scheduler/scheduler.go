// Package scheduler decides when exports run: a short debounce after each
// local mutation plus a periodic interval, both funneled through a single
// guarded trigger so overlapping fires coalesce into one export.
package scheduler

import (
	"context"
	"log"
	"os"
	"sync"
	"time"
)

// Default timings.
const (
	DefaultDebounce = 1 * time.Second
	DefaultInterval = 60 * time.Second
)

// Syncer is the reconciler surface the scheduler drives.
type Syncer interface {
	ExportAll(ctx context.Context) error
	Connected() bool
	Importing() bool
}

// Config holds scheduler settings.
type Config struct {
	// Debounce is how long after the last mutation an export fires
	// (default: 1s).
	Debounce time.Duration

	// Interval is the periodic export cadence (default: 60s). Zero or
	// negative disables the interval loop.
	Interval time.Duration

	// Logger for scheduler activity (default: stderr with [sched] prefix).
	Logger *log.Logger
}

// Scheduler debounces mutation notifications and runs the interval loop.
type Scheduler struct {
	syncer   Syncer
	debounce time.Duration
	interval time.Duration
	logger   *log.Logger

	mu       sync.Mutex
	timer    *time.Timer
	inFlight bool
	rerun    bool
	started  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Scheduler. Call Start before Notify has any effect.
func New(syncer Syncer, cfg *Config) *Scheduler {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "[sched] ", log.LstdFlags)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		syncer:   syncer,
		debounce: cfg.Debounce,
		interval: cfg.Interval,
		logger:   cfg.Logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the interval loop.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	if s.interval > 0 {
		s.wg.Add(1)
		go s.intervalLoop()
	}
}

// Notify records a local mutation and (re)arms the debounce timer. A
// burst of mutations inside the window produces one export. Mutations
// made by an import are the import itself landing; they must not arm a
// timer that would bounce the dataset straight back to the remote.
func (s *Scheduler) Notify() {
	if s.syncer.Importing() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.ctx.Err() != nil {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() { s.fire("debounce") })
}

// Stop cancels pending timers and waits for an in-flight export to
// finish its cancellation.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.started = false
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) intervalLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.fire("interval")
		}
	}
}

// fire runs one export. While a full import is replacing the local
// dataset its own writes must not bounce back to the remote, so fires are
// suppressed. Fires that land during an export are coalesced into one
// follow-up run.
func (s *Scheduler) fire(reason string) {
	if s.syncer.Importing() {
		s.logger.Printf("Skipping %s sync: import in progress", reason)
		return
	}
	if !s.syncer.Connected() {
		return
	}

	// wg.Add must happen under the same lock that Stop uses to flip
	// started, or a timer callback could Add after Stop's Wait began.
	s.mu.Lock()
	if !s.started || s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	if s.inFlight {
		s.rerun = true
		s.mu.Unlock()
		return
	}
	s.inFlight = true
	s.wg.Add(1)
	s.mu.Unlock()
	go func() {
		defer s.wg.Done()
		if err := s.syncer.ExportAll(s.ctx); err != nil {
			s.logger.Printf("Sync failed (%s): %v", reason, err)
		}

		s.mu.Lock()
		s.inFlight = false
		again := s.rerun
		s.rerun = false
		s.mu.Unlock()

		if again && s.ctx.Err() == nil {
			s.fire("coalesced")
		}
	}()
}
