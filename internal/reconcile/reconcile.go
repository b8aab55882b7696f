// Package reconcile moves whole datasets between the local store and the
// remote spreadsheet: a destructive full import (remote wins) and a
// batched full export (local wins). There is no merging; whichever side
// initiates replaces the other wholesale.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hvescovi/finsync/internal/service"
	"github.com/hvescovi/finsync/internal/store"
)

var (
	// ErrImportInProgress rejects a second import while one is running.
	ErrImportInProgress = errors.New("import already in progress")

	// ErrNotConnected rejects sync operations before Connect succeeds.
	ErrNotConnected = errors.New("not connected to spreadsheet")
)

// State is the connection state machine.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// EventType identifies a reconciler event.
type EventType string

const (
	EventConnected      EventType = "connected"
	EventDisconnected   EventType = "disconnected"
	EventImportComplete EventType = "import_complete"
	EventExportComplete EventType = "export_complete"
)

// Event is published to subscribers after state changes and completed
// syncs.
type Event struct {
	Type    EventType      `json:"type"`
	Time    time.Time      `json:"time"`
	Summary *ImportSummary `json:"summary,omitempty"`
	Sheets  int            `json:"sheets,omitempty"`
	Records int            `json:"records,omitempty"`
}

// ImportSummary reports what a full import brought in.
type ImportSummary struct {
	Sheets             int      `json:"sheets"`
	Records            int      `json:"records"`
	InferredBusinesses int      `json:"inferredBusinesses"`
	DefaultBusinessID  string   `json:"defaultBusinessId"`
	SkippedSheets      []string `json:"skippedSheets,omitempty"`
}

// Remote is the sheet surface the reconciler needs. *sheets.Client
// satisfies it; tests use fakes.
type Remote interface {
	GetStructure(ctx context.Context) ([]string, error)
	GetData(ctx context.Context, sheet string) ([][]any, error)
	SyncAll(ctx context.Context, data map[string][][]any) error
}

// Config wires a Reconciler.
type Config struct {
	Remote  Remote
	Store   *store.Store
	Finance *service.Finance
	Sales   *service.Sales
	Debtors *service.Debtors
	Logger  *log.Logger
}

// Reconciler owns the connection state and runs imports and exports.
type Reconciler struct {
	remote  Remote
	store   *store.Store
	finance *service.Finance
	sales   *service.Sales
	debtors *service.Debtors
	logger  *log.Logger

	mu       sync.Mutex
	state    State
	lastSync time.Time

	importing atomic.Bool

	subMu       sync.Mutex
	subscribers []func(Event)
}

// New creates a Reconciler. The last sync timestamp is restored from the
// store when present.
func New(cfg *Config) *Reconciler {
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	r := &Reconciler{
		remote:  cfg.Remote,
		store:   cfg.Store,
		finance: cfg.Finance,
		sales:   cfg.Sales,
		debtors: cfg.Debtors,
		logger:  cfg.Logger,
	}
	if raw, err := r.store.GetString(store.KeyLastSync); err == nil && raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			r.lastSync = t
		}
	}
	return r
}

// Subscribe registers fn for reconciler events. Subscribers run on the
// caller's goroutine and must return quickly.
func (r *Reconciler) Subscribe(fn func(Event)) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	r.subscribers = append(r.subscribers, fn)
}

func (r *Reconciler) publish(evt Event) {
	if evt.Time.IsZero() {
		evt.Time = time.Now()
	}
	r.subMu.Lock()
	subs := append(([]func(Event))(nil), r.subscribers...)
	r.subMu.Unlock()
	for _, fn := range subs {
		fn(evt)
	}
}

// Connect probes the remote and moves to connected. A failed probe leaves
// the reconciler disconnected.
func (r *Reconciler) Connect(ctx context.Context) error {
	r.mu.Lock()
	if r.state == StateConnected {
		r.mu.Unlock()
		return nil
	}
	r.state = StateConnecting
	r.mu.Unlock()

	sheetNames, err := r.remote.GetStructure(ctx)
	if err != nil {
		r.mu.Lock()
		r.state = StateDisconnected
		r.mu.Unlock()
		return fmt.Errorf("connection probe failed: %w", err)
	}

	r.mu.Lock()
	r.state = StateConnected
	r.mu.Unlock()
	r.logger.Printf("Connected, remote has %d sheets", len(sheetNames))
	r.publish(Event{Type: EventConnected})
	return nil
}

// Sheets lists the sheet names the remote currently exposes.
func (r *Reconciler) Sheets(ctx context.Context) ([]string, error) {
	return r.remote.GetStructure(ctx)
}

// Disconnect drops the connection state. Local data is untouched.
func (r *Reconciler) Disconnect() {
	r.mu.Lock()
	wasConnected := r.state == StateConnected
	r.state = StateDisconnected
	r.mu.Unlock()
	if wasConnected {
		r.publish(Event{Type: EventDisconnected})
	}
}

// State returns the current connection state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Connected reports whether the reconciler may sync.
func (r *Reconciler) Connected() bool {
	return r.State() == StateConnected
}

// Importing reports whether a full import is running. The scheduler
// checks it to suppress exports triggered by the import's own writes.
func (r *Reconciler) Importing() bool {
	return r.importing.Load()
}

// LastSync returns the time of the last completed import or export.
func (r *Reconciler) LastSync() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSync
}

func (r *Reconciler) touchLastSync() {
	now := time.Now()
	r.mu.Lock()
	r.lastSync = now
	r.mu.Unlock()
	if err := r.store.Set(store.KeyLastSync, now.UTC().Format(time.RFC3339)); err != nil {
		r.logger.Printf("Failed to persist last sync time: %v", err)
	}
}
