package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hvescovi/finsync/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	GroupID: "sync",
	Short:   "Show connection state and local record counts",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		probe, _ := cmd.Flags().GetBool("probe")
		if probe {
			if err := app.requireRemote(); err != nil {
				fatal(err)
			}
			if err := app.rec.Connect(cmd.Context()); err != nil {
				fmt.Printf("Remote: %s (%v)\n", ui.RenderError("unreachable"), err)
			} else {
				fmt.Printf("Remote: %s\n", ui.RenderPass("connected"))
			}
		} else if app.cfg.WebAppURL == "" {
			fmt.Printf("Remote: %s\n", ui.RenderDim("not configured"))
		} else {
			fmt.Printf("Remote: %s\n", ui.RenderDim(app.cfg.WebAppURL))
		}

		if last := app.rec.LastSync(); !last.IsZero() {
			fmt.Printf("Last sync: %s\n", last.Local().Format("2006-01-02 15:04:05"))
		} else {
			fmt.Printf("Last sync: %s\n", ui.RenderDim("never"))
		}

		current := app.finance.CurrentBusinessID()
		for _, b := range app.finance.Businesses() {
			if b.ID == current {
				fmt.Printf("Business: %s\n", ui.RenderAccent(b.Name))
			}
		}

		counts := map[string]int{
			"transactions": len(app.finance.Transactions("")),
			"accounts":     len(app.finance.Accounts("")),
			"categories":   len(app.finance.Categories("")),
			"budgets":      len(app.finance.Budgets("")),
			"investments":  len(app.finance.Investments("")),
			"debts":        len(app.finance.Debts("")),
			"goals":        len(app.finance.Goals("")),
			"businesses":   len(app.finance.Businesses()),
			"customers":    len(app.sales.Customers("")),
			"products":     len(app.sales.Products("")),
			"sales":        len(app.sales.Sales("")),
			"debtors":      len(app.debtors.Debtors("")),
		}
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Println()
		for _, name := range names {
			fmt.Printf("  %-14s %d\n", name, counts[name])
		}
	},
}

var importCmd = &cobra.Command{
	Use:     "import",
	GroupID: "sync",
	Short:   "Pull all spreadsheet data over the local store",
	Long: `Fetch every sheet from the web app and replace the local dataset.

The spreadsheet wins: local records not present in the sheet are gone
after an import. Sheets that fail to download are skipped and reported;
the rest still import.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()
		if err := app.requireRemote(); err != nil {
			fatal(err)
		}

		summary, err := app.rec.ImportAll(cmd.Context())
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s %d records across %d sheets\n",
			ui.RenderPass("Imported"), summary.Records, summary.Sheets)
		if summary.InferredBusinesses > 0 {
			fmt.Printf("Inferred %d business profile(s) from sheet data\n",
				summary.InferredBusinesses)
		}
		for _, sheet := range summary.SkippedSheets {
			fmt.Printf("%s sheet %q could not be read\n", ui.RenderWarn("Skipped"), sheet)
		}
	},
}

var exportCmd = &cobra.Command{
	Use:     "export",
	GroupID: "sync",
	Short:   "Push the local dataset to the spreadsheet",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()
		if err := app.requireRemote(); err != nil {
			fatal(err)
		}

		ctx := cmd.Context()
		if err := app.rec.Connect(ctx); err != nil {
			fatal(err)
		}
		if err := app.rec.ExportAll(ctx); err != nil {
			fatal(err)
		}
		fmt.Println(ui.RenderPass("Export complete"))
	},
}

func init() {
	statusCmd.Flags().Bool("probe", false, "Actively probe the web app connection")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}
