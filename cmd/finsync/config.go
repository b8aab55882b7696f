package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hvescovi/finsync/internal/config"
	"github.com/hvescovi/finsync/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage finsync configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Write ~/.finsync/config.yaml with defaults and the given web app URL.

The web app URL is the deployed spreadsheet script endpoint finsync
syncs against. An existing config file is never overwritten.`,
	Run: func(cmd *cobra.Command, args []string) {
		url, _ := cmd.Flags().GetString("url")

		path, err := config.WriteDefault(url)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s %s\n", ui.RenderPass("Wrote"), path)
		if url == "" {
			fmt.Println(ui.RenderDim("No web app URL set; edit the file or rerun with --url."))
		}
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fatal(err)
		}
		url := cfg.WebAppURL
		if url == "" {
			url = ui.RenderDim("(not set)")
		}
		fmt.Printf("web_app_url:    %s\n", url)
		fmt.Printf("db_path:        %s\n", cfg.DBPath)
		fmt.Printf("debounce:       %s\n", cfg.Debounce)
		fmt.Printf("interval:       %s\n", cfg.Interval)
		fmt.Printf("dashboard_port: %d\n", cfg.DashboardPort)
		if cfg.LogFile != "" {
			fmt.Printf("log_file:       %s\n", cfg.LogFile)
		}
	},
}

func init() {
	configInitCmd.Flags().String("url", "", "Web app URL to sync against")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
