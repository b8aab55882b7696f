package reconcile

import (
	"context"
	"fmt"

	"github.com/hvescovi/finsync/internal/codec"
)

// ExportAll pushes every non-empty local collection to the remote in one
// batched request. Local data wins: the remote's data rows are replaced.
// The batch fails or succeeds as a whole.
func (r *Reconciler) ExportAll(ctx context.Context) error {
	if !r.Connected() {
		return ErrNotConnected
	}

	data := map[string][][]any{}
	records := 0
	add := func(sheet string, rows [][]any) {
		if len(rows) > 0 {
			data[sheet] = rows
			records += len(rows)
		}
	}

	var rows [][]any
	for _, b := range r.finance.Businesses() {
		rows = append(rows, codec.EncodeBusiness(b))
	}
	add(codec.SheetBusinesses, rows)

	rows = nil
	for _, t := range r.finance.Transactions("") {
		rows = append(rows, codec.EncodeTransaction(t))
	}
	add(codec.SheetTransactions, rows)

	rows = nil
	for _, a := range r.finance.Accounts("") {
		rows = append(rows, codec.EncodeAccount(a))
	}
	add(codec.SheetAccounts, rows)

	rows = nil
	for _, c := range r.finance.Categories("") {
		rows = append(rows, codec.EncodeCategory(c))
	}
	add(codec.SheetCategories, rows)

	rows = nil
	for _, b := range r.finance.Budgets("") {
		rows = append(rows, codec.EncodeBudget(b))
	}
	add(codec.SheetBudgets, rows)

	rows = nil
	for _, inv := range r.finance.Investments("") {
		rows = append(rows, codec.EncodeInvestment(inv))
	}
	add(codec.SheetInvestments, rows)

	rows = nil
	for _, d := range r.finance.Debts("") {
		rows = append(rows, codec.EncodeDebt(d))
	}
	add(codec.SheetDebts, rows)

	rows = nil
	for _, g := range r.finance.Goals("") {
		rows = append(rows, codec.EncodeGoal(g))
	}
	add(codec.SheetGoals, rows)

	rows = nil
	for _, s := range r.sales.Sales("") {
		rows = append(rows, codec.EncodeSale(s))
	}
	add(codec.SheetSales, rows)

	rows = nil
	for _, c := range r.sales.Customers("") {
		rows = append(rows, codec.EncodeCustomer(c))
	}
	add(codec.SheetClients, rows)

	rows = nil
	for _, p := range r.sales.Products("") {
		rows = append(rows, codec.EncodeProduct(p))
	}
	add(codec.SheetProducts, rows)

	rows = nil
	for _, d := range r.debtors.Debtors("") {
		rows = append(rows, codec.EncodeDebtor(d))
	}
	add(codec.SheetDebtors, rows)

	if len(data) == 0 {
		r.logger.Printf("Nothing to export")
		return nil
	}

	if err := r.remote.SyncAll(ctx, data); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.touchLastSync()
	r.logger.Printf("Export complete: %d records across %d sheets", records, len(data))
	r.publish(Event{Type: EventExportComplete, Sheets: len(data), Records: records})
	return nil
}
