package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hvescovi/finsync/internal/ui"
)

var connectCmd = &cobra.Command{
	Use:     "connect",
	GroupID: "sync",
	Short:   "Verify the web app connection",
	Long: `Probe the configured web app and list the sheets it exposes.

A successful probe also confirms the fallback transport is not needed;
if the direct request fails but the callback-wrapped one succeeds, later
reads keep using the fallback.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()
		if err := app.requireRemote(); err != nil {
			fatal(err)
		}

		if err := app.rec.Connect(cmd.Context()); err != nil {
			fatal(err)
		}
		fmt.Printf("%s to %s\n", ui.RenderPass("Connected"), app.cfg.WebAppURL)

		sheets, err := app.rec.Sheets(cmd.Context())
		if err != nil {
			fatal(err)
		}
		for _, name := range sheets {
			fmt.Printf("  %s\n", name)
		}
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)
}
