package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/hvescovi/finsync/internal/model"
	"github.com/hvescovi/finsync/internal/service"
	"github.com/hvescovi/finsync/internal/ui"
)

var txCmd = &cobra.Command{
	Use:     "tx",
	GroupID: "data",
	Short:   "Record and list transactions",
}

var txAddCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Record a transaction",
	Long: `Record a transaction against the current business.

Amounts are entered in major units ("150.75" or "150,75"). Dates accept
ISO format or natural language.

Examples:
  finsync tx add "Groceries" --amount 89.40
  finsync tx add "Consulting invoice" --amount 1200 --type income --date yesterday
  finsync tx add "Rent" --amount 950 --pending --date "next friday"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		amountStr, _ := cmd.Flags().GetString("amount")
		txType, _ := cmd.Flags().GetString("type")
		dateStr, _ := cmd.Flags().GetString("date")
		categoryID, _ := cmd.Flags().GetString("category")
		accountID, _ := cmd.Flags().GetString("account")
		notes, _ := cmd.Flags().GetString("notes")
		pending, _ := cmd.Flags().GetBool("pending")

		amount, err := parseMoney(amountStr)
		if err != nil {
			fatal(err)
		}
		date, err := parseDate(dateStr)
		if err != nil {
			fatal(err)
		}
		if date.IsZero() {
			date = time.Now()
		}
		status := model.TransactionPaid
		if pending {
			status = model.TransactionPending
		}

		t, err := app.finance.CreateTransaction(service.TransactionInput{
			BusinessID:  app.finance.CurrentBusinessID(),
			Type:        txType,
			Amount:      amount,
			Description: args[0],
			Date:        date,
			CategoryID:  categoryID,
			AccountID:   accountID,
			Status:      status,
			Notes:       notes,
		})
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s %s %s on %s (%s)\n",
			ui.RenderPass("Recorded"), t.Type, money(t.Amount),
			t.Date.Format("2006-01-02"), ui.RenderDim(t.ID))
	},
}

var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions for the current business",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		month, _ := cmd.Flags().GetString("month")
		limit, _ := cmd.Flags().GetInt("limit")

		txs := app.finance.Transactions(app.finance.CurrentBusinessID())
		sort.Slice(txs, func(i, j int) bool { return txs[i].Date.After(txs[j].Date) })

		shown := 0
		for _, t := range txs {
			if month != "" && t.Date.Format("2006-01") != month {
				continue
			}
			if limit > 0 && shown >= limit {
				break
			}
			shown++

			amount := money(t.Amount)
			if t.Type == model.TypeExpense {
				amount = "-" + amount
			}
			line := fmt.Sprintf("%s  %10s  %s", t.Date.Format("2006-01-02"), amount, t.Description)
			if t.Status == model.TransactionPending {
				line += "  " + ui.RenderWarn("(pending)")
			}
			fmt.Println(line)
		}
		if shown == 0 {
			fmt.Println(ui.RenderDim("No transactions."))
		}
	},
}

var txDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a transaction",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		if err := app.finance.DeleteTransaction(args[0]); err != nil {
			fatal(err)
		}
		fmt.Printf("%s transaction %s\n", ui.RenderPass("Deleted"), args[0])
	},
}

var reportCmd = &cobra.Command{
	Use:     "report",
	GroupID: "data",
	Short:   "Monthly income/expense summary with budget progress",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		month, _ := cmd.Flags().GetString("month")
		if month == "" {
			month = time.Now().Format("2006-01")
		}

		bizID := app.finance.CurrentBusinessID()
		stats := app.finance.MonthlyReport(bizID, month)

		fmt.Printf("%s\n", ui.RenderAccent(month))
		fmt.Printf("  Income:       %s\n", money(stats.Income))
		fmt.Printf("  Expenses:     %s\n", money(stats.Expenses))
		balance := money(stats.Balance)
		if stats.Balance < 0 {
			balance = ui.RenderError(balance)
		}
		fmt.Printf("  Balance:      %s\n", balance)
		fmt.Printf("  Transactions: %d\n", stats.Transactions)

		progress := app.finance.BudgetReport(bizID, month)
		if len(progress) == 0 {
			return
		}
		fmt.Println()
		for _, p := range progress {
			name := p.Budget.CategoryID
			for _, c := range app.finance.Categories(bizID) {
				if c.ID == p.Budget.CategoryID {
					name = c.Name
				}
			}
			line := fmt.Sprintf("  %-20s %s / %s", name, money(p.Spent), money(p.Budget.Amount))
			if p.Spent > p.Budget.Amount {
				line += "  " + ui.RenderError("over budget")
			}
			fmt.Println(line)
		}
	},
}

func init() {
	txAddCmd.Flags().String("amount", "", "Amount in major units (required)")
	txAddCmd.Flags().String("type", model.TypeExpense, "Transaction type (income, expense)")
	txAddCmd.Flags().String("date", "", "Date (ISO or natural language; default today)")
	txAddCmd.Flags().String("category", "", "Category ID")
	txAddCmd.Flags().String("account", "", "Account ID")
	txAddCmd.Flags().String("notes", "", "Free-form notes")
	txAddCmd.Flags().Bool("pending", false, "Mark as pending instead of paid")
	_ = txAddCmd.MarkFlagRequired("amount")

	txListCmd.Flags().String("month", "", "Filter to a month (YYYY-MM)")
	txListCmd.Flags().Int("limit", 20, "Maximum rows to show (0 for all)")

	reportCmd.Flags().String("month", "", "Month to report (YYYY-MM; default current)")

	txCmd.AddCommand(txAddCmd)
	txCmd.AddCommand(txListCmd)
	txCmd.AddCommand(txDeleteCmd)
	rootCmd.AddCommand(txCmd)
	rootCmd.AddCommand(reportCmd)
}
