package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hvescovi/finsync/internal/daemon"
	"github.com/hvescovi/finsync/internal/dashboard"
	"github.com/hvescovi/finsync/internal/scheduler"
)

var daemonCmd = &cobra.Command{
	Use:     "daemon",
	GroupID: "sync",
	Short:   "Watch the local store and keep the spreadsheet in sync",
	Long: `Run the sync daemon in the foreground.

On startup the daemon connects to the web app and pulls a full import
(unless --no-import is set). After that it watches the local database
for changes and exports the dataset after a short debounce, plus on a
periodic interval. Debtor statuses are refreshed hourly.

With --dashboard a WebSocket status server runs alongside, broadcasting
connection, import, and export events.

Examples:
  finsync daemon
  finsync daemon --no-import
  finsync daemon --dashboard --dashboard-port 9000`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()
		if err := app.requireRemote(); err != nil {
			fatal(err)
		}

		noImport, _ := cmd.Flags().GetBool("no-import")
		withDash, _ := cmd.Flags().GetBool("dashboard")
		dashPort, _ := cmd.Flags().GetInt("dashboard-port")
		if dashPort == 0 {
			dashPort = app.cfg.DashboardPort
		}

		sched := scheduler.New(app.rec, &scheduler.Config{
			Debounce: app.cfg.Debounce,
			Interval: app.cfg.Interval,
			Logger:   app.cfg.NewLogger("[sched] "),
		})

		d, err := daemon.New(&daemon.Config{
			Store:             app.store,
			Reconciler:        app.rec,
			Scheduler:         sched,
			Finance:           app.finance,
			Sales:             app.sales,
			Debtors:           app.debtors,
			Logger:            app.cfg.NewLogger("[daemon] "),
			SkipInitialImport: noImport,
		})
		if err != nil {
			fatal(err)
		}

		if withDash {
			srv := dashboard.NewServer(&dashboard.Config{
				Port:       dashPort,
				Reconciler: app.rec,
				Logger:     app.cfg.NewLogger("[dash] "),
			})
			if err := srv.Start(); err != nil {
				fatal(err)
			}
			defer func() { _ = srv.Stop() }()
			fmt.Printf("Dashboard listening on http://%s\n", srv.Addr())
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Println("Sync daemon running. Press Ctrl+C to stop.")
		if err := d.Run(ctx); err != nil {
			fatal(err)
		}
	},
}

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	GroupID: "sync",
	Short:   "Serve sync status over WebSocket",
	Long: `Start the standalone dashboard server.

Clients connect to ws://localhost:<port>/ws and receive the current
connection state on connect, then live events as syncs happen. Running
the dashboard inside the daemon (finsync daemon --dashboard) is usually
what you want; the standalone server only reports local state.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = app.cfg.DashboardPort
		}

		srv := dashboard.NewServer(&dashboard.Config{
			Port:       port,
			Reconciler: app.rec,
			Logger:     app.cfg.NewLogger("[dash] "),
		})
		if err := srv.Start(); err != nil {
			fatal(err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Dashboard listening on http://%s\n", srv.Addr())
		<-ctx.Done()
		_ = srv.Stop()
	},
}

func init() {
	daemonCmd.Flags().Bool("no-import", false, "Skip the initial import from the spreadsheet")
	daemonCmd.Flags().Bool("dashboard", false, "Also serve the WebSocket status dashboard")
	daemonCmd.Flags().Int("dashboard-port", 0, "Dashboard port (default from config)")

	dashboardCmd.Flags().Int("port", 0, "Port to listen on (default from config)")

	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(dashboardCmd)
}
