// finsync keeps a local finance dataset reconciled with a spreadsheet
// web app: transactions, accounts, sales, and debtor schedules live in a
// local SQLite store and sync to the sheet on change.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/hvescovi/finsync/internal/codec"
	"github.com/hvescovi/finsync/internal/config"
	"github.com/hvescovi/finsync/internal/reconcile"
	"github.com/hvescovi/finsync/internal/service"
	"github.com/hvescovi/finsync/internal/sheets"
	"github.com/hvescovi/finsync/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "finsync",
	Short: "Local-first finance tracking synced to a spreadsheet",
	Long: `finsync tracks businesses, transactions, accounts, sales, and debtors
in a local database and keeps a spreadsheet web app in step with it.

Local data is the working copy: commands mutate it instantly and the
daemon pushes changes to the sheet after a short debounce. A full import
pulls the sheet back over the local data (the sheet wins).

Start with:
  finsync config init --url <web app URL>
  finsync import
  finsync daemon`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "data", Title: "Data Commands:"},
		&cobra.Group{ID: "sync", Title: "Sync Commands:"},
	)
}

// app bundles everything a command needs against one open store.
type app struct {
	cfg     *config.Config
	store   *store.Store
	finance *service.Finance
	sales   *service.Sales
	debtors *service.Debtors
	rec     *reconcile.Reconciler
}

// openApp loads config, opens the store, and wires the services and
// reconciler. Callers must Close().
func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DBPath, nil)
	if err != nil {
		return nil, err
	}

	finance, err := service.NewFinance(st, nil)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	sales, err := service.NewSales(st, nil)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	debtors, err := service.NewDebtors(st, nil)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	if _, err := finance.EnsureDefaultBusiness(); err != nil {
		_ = st.Close()
		return nil, err
	}

	var remote reconcile.Remote
	if cfg.WebAppURL != "" {
		remote = sheets.New(&sheets.Config{BaseURL: cfg.WebAppURL})
	}
	rec := reconcile.New(&reconcile.Config{
		Remote:  remote,
		Store:   st,
		Finance: finance,
		Sales:   sales,
		Debtors: debtors,
	})

	return &app{
		cfg:     cfg,
		store:   st,
		finance: finance,
		sales:   sales,
		debtors: debtors,
		rec:     rec,
	}, nil
}

func (a *app) Close() {
	_ = a.store.Close()
}

// requireRemote fails fast when no web app URL is configured.
func (a *app) requireRemote() error {
	if a.cfg.WebAppURL == "" {
		return fmt.Errorf("no web app URL configured; run: finsync config init --url <url>")
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// money renders cents as a major-unit string for terminal output.
func money(cents int64) string {
	return fmt.Sprintf("%.2f", codec.ToMajor(cents))
}

// parseMoney converts a user-entered major-unit amount to cents.
func parseMoney(s string) (int64, error) {
	cents, ok := codec.MajorToCents(s)
	if !ok {
		return 0, fmt.Errorf("could not parse amount %q", s)
	}
	return cents, nil
}

var dateParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// parseDate accepts ISO dates and natural language ("next friday",
// "in 2 weeks"). Empty input returns the zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	r, err := dateParser.Parse(s, time.Now())
	if err != nil || r == nil {
		return time.Time{}, fmt.Errorf("could not parse date %q", s)
	}
	return r.Time, nil
}
