package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hvescovi/finsync/internal/ui"
)

var businessCmd = &cobra.Command{
	Use:     "business",
	GroupID: "data",
	Short:   "Manage business profiles",
	Long: `Manage business profiles.

Every record belongs to a business. Commands that take amounts or list
records operate on the current business unless told otherwise; switch
with "finsync business switch".`,
}

var businessListCmd = &cobra.Command{
	Use:   "list",
	Short: "List business profiles",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		current := app.finance.CurrentBusinessID()
		for _, b := range app.finance.Businesses() {
			marker := "  "
			name := b.Name
			if b.ID == current {
				marker = "* "
				name = ui.RenderAccent(name)
			}
			fmt.Printf("%s%s  %s\n", marker, name, ui.RenderDim(b.ID))
		}
	},
}

var businessAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a business profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		desc, _ := cmd.Flags().GetString("description")
		bizType, _ := cmd.Flags().GetString("type")

		b, err := app.finance.CreateBusiness(args[0], desc, bizType)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s business %s (%s)\n", ui.RenderPass("Created"), b.Name, ui.RenderDim(b.ID))
	},
}

var businessSwitchCmd = &cobra.Command{
	Use:   "switch <id>",
	Short: "Set the current business",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		if err := app.finance.SwitchBusiness(args[0]); err != nil {
			fatal(err)
		}
		fmt.Printf("%s to %s\n", ui.RenderPass("Switched"), args[0])
	},
}

var businessDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a business and everything it owns",
	Long: `Delete a business profile along with its transactions, accounts,
categories, budgets, investments, debts, goals, customers, products,
sales, and debtors. The last remaining business cannot be deleted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		id := args[0]
		if err := app.finance.DeleteBusiness(id); err != nil {
			fatal(err)
		}
		if err := app.sales.Purge(id); err != nil {
			fatal(err)
		}
		if err := app.debtors.Purge(id); err != nil {
			fatal(err)
		}
		fmt.Printf("%s business %s and all its records\n", ui.RenderPass("Deleted"), id)
	},
}

func init() {
	businessAddCmd.Flags().String("description", "", "Business description")
	businessAddCmd.Flags().String("type", "personal", "Business type (personal, mei, company)")

	businessCmd.AddCommand(businessListCmd)
	businessCmd.AddCommand(businessAddCmd)
	businessCmd.AddCommand(businessSwitchCmd)
	businessCmd.AddCommand(businessDeleteCmd)
	rootCmd.AddCommand(businessCmd)
}
