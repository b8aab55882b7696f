package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hvescovi/finsync/internal/model"
	"github.com/hvescovi/finsync/internal/service"
	"github.com/hvescovi/finsync/internal/ui"
)

var debtorCmd = &cobra.Command{
	Use:     "debtor",
	GroupID: "data",
	Short:   "Track money owed to you",
	Long: `Track debtors and their installment schedules.

A debtor owes a total amount, optionally split into monthly
installments. Payments pay down the oldest unpaid installment first
and can never push the paid amount past the total.`,
}

var debtorAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a debtor",
	Long: `Register a debtor for the current business.

Examples:
  finsync debtor add "John Smith" --amount 1000 --installments 4
  finsync debtor add "Acme Ltd" --amount 350.50 --due "in 2 weeks"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		amountStr, _ := cmd.Flags().GetString("amount")
		dueStr, _ := cmd.Flags().GetString("due")
		installments, _ := cmd.Flags().GetInt("installments")
		phone, _ := cmd.Flags().GetString("phone")
		desc, _ := cmd.Flags().GetString("description")

		amount, err := parseMoney(amountStr)
		if err != nil {
			fatal(err)
		}
		due, err := parseDate(dueStr)
		if err != nil {
			fatal(err)
		}

		deb, err := app.debtors.Create(service.DebtorInput{
			BusinessID:   app.finance.CurrentBusinessID(),
			Name:         args[0],
			Phone:        phone,
			TotalAmount:  amount,
			DueDate:      due,
			Installments: installments,
			Description:  desc,
		})
		if err != nil {
			fatal(err)
		}

		fmt.Printf("%s debtor %s owing %s (%s)\n",
			ui.RenderPass("Registered"), deb.Name, money(deb.TotalAmount), ui.RenderDim(deb.ID))
		for _, ins := range deb.Installments {
			fmt.Printf("  #%d  %10s  due %s\n",
				ins.Number, money(ins.Amount), ins.DueDate.Format("2006-01-02"))
		}
	},
}

var debtorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List debtors for the current business",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		debtors := app.debtors.Debtors(app.finance.CurrentBusinessID())
		if len(debtors) == 0 {
			fmt.Println(ui.RenderDim("No debtors."))
			return
		}
		for _, d := range debtors {
			status := d.Status
			switch d.Status {
			case model.DebtorOverdue:
				status = ui.RenderWarn(status)
			case model.DebtorDefaulted:
				status = ui.RenderError(status)
			case model.DebtorPaid:
				status = ui.RenderPass(status)
			}
			fmt.Printf("  %-24s %10s owed, %10s left  %-10s %s\n",
				d.Name, money(d.TotalAmount), money(d.RemainingAmount),
				status, ui.RenderDim(d.ID))
		}

		stats := app.debtors.Stats(app.finance.CurrentBusinessID())
		fmt.Printf("\n  %s %s received of %s (%s outstanding)\n",
			ui.RenderAccent("Total:"), money(stats.Received),
			money(stats.Total), money(stats.Outstanding))
	},
}

var debtorPayCmd = &cobra.Command{
	Use:   "pay <debtor-id>",
	Short: "Record a payment from a debtor",
	Long: `Record a payment. Without --installment the amount pays down the
oldest unpaid installments first. Amounts beyond what is owed are
clamped to the remaining balance.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		amountStr, _ := cmd.Flags().GetString("amount")
		dateStr, _ := cmd.Flags().GetString("date")
		installmentID, _ := cmd.Flags().GetString("installment")
		notes, _ := cmd.Flags().GetString("notes")

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

		p, err := app.debtors.RegisterPayment(args[0], amount, date, installmentID, notes)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s payment of %s\n", ui.RenderPass("Recorded"), money(p.Amount))
		if p.Amount < amount {
			fmt.Printf("%s amount clamped to the remaining balance\n", ui.RenderWarn("Note:"))
		}
	},
}

var debtorOverdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "List debtors with overdue installments",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		overdue := app.debtors.Overdue(app.finance.CurrentBusinessID(), time.Now())
		if len(overdue) == 0 {
			fmt.Println(ui.RenderPass("Nothing overdue."))
			return
		}
		for _, d := range overdue {
			fmt.Printf("  %-24s %10s left  %s\n",
				d.Name, money(d.RemainingAmount), ui.RenderDim(d.ID))
		}
	},
}

var debtorDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a debtor and its payment history",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		if err := app.debtors.Delete(args[0]); err != nil {
			fatal(err)
		}
		fmt.Printf("%s debtor %s\n", ui.RenderPass("Deleted"), args[0])
	},
}

func init() {
	debtorAddCmd.Flags().String("amount", "", "Total owed in major units (required)")
	debtorAddCmd.Flags().String("due", "", "Due date (ISO or natural language)")
	debtorAddCmd.Flags().Int("installments", 0, "Split into N monthly installments")
	debtorAddCmd.Flags().String("phone", "", "Contact phone")
	debtorAddCmd.Flags().String("description", "", "What the debt is for")
	_ = debtorAddCmd.MarkFlagRequired("amount")

	debtorPayCmd.Flags().String("amount", "", "Payment amount in major units (required)")
	debtorPayCmd.Flags().String("date", "", "Payment date (default today)")
	debtorPayCmd.Flags().String("installment", "", "Target a specific installment ID")
	debtorPayCmd.Flags().String("notes", "", "Payment notes")
	_ = debtorPayCmd.MarkFlagRequired("amount")

	debtorCmd.AddCommand(debtorAddCmd)
	debtorCmd.AddCommand(debtorListCmd)
	debtorCmd.AddCommand(debtorPayCmd)
	debtorCmd.AddCommand(debtorOverdueCmd)
	debtorCmd.AddCommand(debtorDeleteCmd)
	rootCmd.AddCommand(debtorCmd)
}
