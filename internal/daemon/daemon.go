// Package daemon runs the foreground sync loop: it connects to the
// remote, pulls a fresh import, then keeps the spreadsheet up to date by
// exporting after local changes and on the periodic interval.
//
// Local changes arrive two ways: the store's in-process change hook for
// mutations made by this process, and an fsnotify watch on the store's
// database file for mutations made by other CLI invocations against the
// same store.
package daemon

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hvescovi/finsync/internal/reconcile"
	"github.com/hvescovi/finsync/internal/scheduler"
	"github.com/hvescovi/finsync/internal/service"
	"github.com/hvescovi/finsync/internal/store"
)

// selfWriteWindow is how long after one of our own store writes an
// fsnotify event on the database file is attributed to us and ignored,
// instead of being treated as another process's change.
const selfWriteWindow = 2 * time.Second

// statusRefreshInterval is how often debtor statuses are rederived so
// overdue and defaulted states surface without a mutation.
const statusRefreshInterval = 1 * time.Hour

// Config wires a Daemon.
type Config struct {
	Store      *store.Store
	Reconciler *reconcile.Reconciler
	Scheduler  *scheduler.Scheduler
	Finance    *service.Finance
	Sales      *service.Sales
	Debtors    *service.Debtors
	Logger     *log.Logger

	// SkipInitialImport starts syncing from the local dataset without
	// pulling the remote first.
	SkipInitialImport bool
}

// Daemon owns the watch loop.
type Daemon struct {
	cfg     *Config
	logger  *log.Logger
	watcher *fsnotify.Watcher

	mu            sync.Mutex
	lastSelfWrite time.Time
}

// New creates a Daemon.
func New(cfg *Config) (*Daemon, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "[daemon] ", log.LstdFlags)
	}
	return &Daemon{cfg: cfg, logger: cfg.Logger}, nil
}

// Run blocks until ctx is cancelled. It connects, imports, starts the
// scheduler, and forwards change events until shutdown.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.cfg.Reconciler.Connect(ctx); err != nil {
		d.logger.Printf("Starting disconnected: %v", err)
	} else if !d.cfg.SkipInitialImport {
		summary, err := d.cfg.Reconciler.ImportAll(ctx)
		if err != nil {
			d.logger.Printf("Initial import failed: %v", err)
		} else {
			d.logger.Printf("Initial import: %d records across %d sheets",
				summary.Records, summary.Sheets)
		}
	}

	if changed, err := d.cfg.Debtors.RefreshStatuses(time.Now()); err != nil {
		d.logger.Printf("Debtor status refresh failed: %v", err)
	} else if changed > 0 {
		d.logger.Printf("Debtor status refresh updated %d records", changed)
	}

	// In-process mutations feed the debounce directly. Metadata writes
	// (last sync time, current business) stay local and must not bounce
	// an export.
	d.cfg.Store.SetOnChange(func(key string) {
		d.noteSelfWrite()
		if isSyncedKey(key) {
			d.cfg.Scheduler.Notify()
		}
	})
	defer d.cfg.Store.SetOnChange(nil)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	d.watcher = watcher
	defer watcher.Close()

	dbPath := d.cfg.Store.Path()
	if err := watcher.Add(filepath.Dir(dbPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(dbPath), err)
	}

	d.cfg.Scheduler.Start()
	defer d.cfg.Scheduler.Stop()

	statusTicker := time.NewTicker(statusRefreshInterval)
	defer statusTicker.Stop()

	d.logger.Printf("Daemon running, watching %s", dbPath)
	for {
		select {
		case <-ctx.Done():
			d.logger.Printf("Shutting down")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event, dbPath) {
				continue
			}
			if d.recentSelfWrite() {
				continue
			}
			d.logger.Printf("External change detected on %s", filepath.Base(event.Name))
			if err := d.reloadServices(); err != nil {
				d.logger.Printf("Reload after external change failed: %v", err)
				continue
			}
			d.cfg.Scheduler.Notify()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			d.logger.Printf("Watcher error: %v", err)

		case now := <-statusTicker.C:
			if changed, err := d.cfg.Debtors.RefreshStatuses(now); err != nil {
				d.logger.Printf("Debtor status refresh failed: %v", err)
			} else if changed > 0 {
				d.logger.Printf("Debtor status refresh updated %d records", changed)
			}
		}
	}
}

func (d *Daemon) reloadServices() error {
	if err := d.cfg.Finance.Reload(); err != nil {
		return err
	}
	if err := d.cfg.Sales.Reload(); err != nil {
		return err
	}
	return d.cfg.Debtors.Reload()
}

func (d *Daemon) noteSelfWrite() {
	d.mu.Lock()
	d.lastSelfWrite = time.Now()
	d.mu.Unlock()
}

func (d *Daemon) recentSelfWrite() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return time.Since(d.lastSelfWrite) < selfWriteWindow
}

// relevantEvent reports whether a watcher event concerns the store's
// database file (the main file or its WAL sidecar) and is a write.
func relevantEvent(event fsnotify.Event, dbPath string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	base := filepath.Base(dbPath)
	name := filepath.Base(event.Name)
	return name == base || strings.HasPrefix(name, base+"-")
}

// isSyncedKey reports whether a store key belongs to a synced collection.
func isSyncedKey(key string) bool {
	for _, k := range store.CollectionKeys {
		if k == key {
			return true
		}
	}
	return false
}
