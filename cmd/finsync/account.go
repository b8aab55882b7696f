package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hvescovi/finsync/internal/ui"
)

var accountCmd = &cobra.Command{
	Use:     "account",
	GroupID: "data",
	Short:   "Manage accounts",
}

var accountAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		accType, _ := cmd.Flags().GetString("type")
		balanceStr, _ := cmd.Flags().GetString("balance")

		var balance int64
		if balanceStr != "" {
			balance, err = parseMoney(balanceStr)
			if err != nil {
				fatal(err)
			}
		}

		a, err := app.finance.CreateAccount(
			app.finance.CurrentBusinessID(), args[0], accType, "", "", balance)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s account %s with balance %s (%s)\n",
			ui.RenderPass("Created"), a.Name, money(a.Balance), ui.RenderDim(a.ID))
	},
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts for the current business",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		accounts := app.finance.Accounts(app.finance.CurrentBusinessID())
		if len(accounts) == 0 {
			fmt.Println(ui.RenderDim("No accounts."))
			return
		}
		var total int64
		for _, a := range accounts {
			name := a.Name
			if !a.Active {
				name += " " + ui.RenderDim("(inactive)")
			}
			fmt.Printf("  %-24s %12s  %s\n", name, money(a.Balance), ui.RenderDim(a.ID))
			if a.Active {
				total += a.Balance
			}
		}
		fmt.Printf("  %-24s %12s\n", ui.RenderAccent("Total"), money(total))
	},
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an account (deactivates if transactions reference it)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		deactivated, err := app.finance.DeleteAccount(args[0])
		if err != nil {
			fatal(err)
		}
		if deactivated {
			fmt.Printf("%s account %s (transactions reference it)\n",
				ui.RenderWarn("Deactivated"), args[0])
		} else {
			fmt.Printf("%s account %s\n", ui.RenderPass("Deleted"), args[0])
		}
	},
}

var categoryCmd = &cobra.Command{
	Use:     "category",
	GroupID: "data",
	Short:   "Manage transaction categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		catType, _ := cmd.Flags().GetString("type")
		icon, _ := cmd.Flags().GetString("icon")
		color, _ := cmd.Flags().GetString("color")

		c, err := app.finance.CreateCategory(
			app.finance.CurrentBusinessID(), args[0], icon, color, catType)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s category %s (%s)\n", ui.RenderPass("Created"), c.Name, ui.RenderDim(c.ID))
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories for the current business",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		cats := app.finance.Categories(app.finance.CurrentBusinessID())
		if len(cats) == 0 {
			fmt.Println(ui.RenderDim("No categories."))
			return
		}
		for _, c := range cats {
			fmt.Printf("  %-24s %-8s %s\n", c.Name, c.Type, ui.RenderDim(c.ID))
		}
	},
}

func init() {
	accountAddCmd.Flags().String("type", "checking", "Account type (checking, savings, cash, credit)")
	accountAddCmd.Flags().String("balance", "", "Initial balance in major units")

	categoryAddCmd.Flags().String("type", "expense", "Category type (income, expense)")
	categoryAddCmd.Flags().String("icon", "", "Icon name")
	categoryAddCmd.Flags().String("color", "", "Display color")

	accountCmd.AddCommand(accountAddCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountDeleteCmd)
	rootCmd.AddCommand(accountCmd)

	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryListCmd)
	rootCmd.AddCommand(categoryCmd)
}
