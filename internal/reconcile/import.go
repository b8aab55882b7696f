package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/hvescovi/finsync/internal/codec"
	"github.com/hvescovi/finsync/internal/model"
	"github.com/hvescovi/finsync/internal/store"
)

// ImportAll replaces every local collection with the remote's data. The
// remote wins unconditionally: local records absent from the sheets are
// gone afterwards.
//
// Sheets are processed in a fixed order with Businesses first. A sheet
// that fails to read is logged, reported in the summary, and imported as
// empty; the rest of the import proceeds. When the Businesses sheet is
// empty but other records carry owner IDs, placeholder businesses are
// fabricated for them in order of first appearance.
func (r *Reconciler) ImportAll(ctx context.Context) (*ImportSummary, error) {
	if !r.Connected() {
		if err := r.Connect(ctx); err != nil {
			return nil, err
		}
	}
	if !r.importing.CompareAndSwap(false, true) {
		return nil, ErrImportInProgress
	}
	defer r.importing.Store(false)

	now := time.Now()
	summary := &ImportSummary{}

	// Owner IDs in order of first appearance, for deterministic
	// placeholder numbering.
	var ownerOrder []string
	ownerSeen := map[string]bool{}
	noteOwner := func(id string) {
		if id != "" && !ownerSeen[id] {
			ownerSeen[id] = true
			ownerOrder = append(ownerOrder, id)
		}
	}

	read := func(sheet string) ([]string, [][]any) {
		rows, err := r.remote.GetData(ctx, sheet)
		if err != nil {
			r.logger.Printf("Skipping sheet %s: %v", sheet, err)
			summary.SkippedSheets = append(summary.SkippedSheets, sheet)
			return nil, nil
		}
		if len(rows) < 2 {
			return nil, nil
		}
		summary.Sheets++
		return codec.HeaderStrings(rows[0]), rows[1:]
	}

	var (
		businesses   []*model.Business
		transactions []*model.Transaction
		accounts     []*model.Account
		categories   []*model.Category
		budgets      []*model.Budget
		investments  []*model.Investment
		debts        []*model.Debt
		goals        []*model.Goal
		sales        []*model.Sale
		customers    []*model.Customer
		products     []*model.Product
		debtors      []*model.Debtor
	)

	for _, sheet := range codec.ImportOrder {
		headers, rows := read(sheet)
		for _, cells := range rows {
			switch sheet {
			case codec.SheetBusinesses:
				if b, ok := codec.DecodeBusiness(headers, cells); ok {
					businesses = append(businesses, b)
					summary.Records++
				}
			case codec.SheetTransactions:
				if t, ok := codec.DecodeTransaction(headers, cells); ok {
					transactions = append(transactions, t)
					noteOwner(t.BusinessID)
					summary.Records++
				}
			case codec.SheetAccounts:
				if a, ok := codec.DecodeAccount(headers, cells); ok {
					accounts = append(accounts, a)
					noteOwner(a.BusinessID)
					summary.Records++
				}
			case codec.SheetCategories:
				if c, ok := codec.DecodeCategory(headers, cells); ok {
					categories = append(categories, c)
					noteOwner(c.BusinessID)
					summary.Records++
				}
			case codec.SheetBudgets:
				if b, ok := codec.DecodeBudget(headers, cells); ok {
					budgets = append(budgets, b)
					noteOwner(b.BusinessID)
					summary.Records++
				}
			case codec.SheetInvestments:
				if inv, ok := codec.DecodeInvestment(headers, cells); ok {
					investments = append(investments, inv)
					noteOwner(inv.BusinessID)
					summary.Records++
				}
			case codec.SheetDebts:
				if dbt, ok := codec.DecodeDebt(headers, cells); ok {
					debts = append(debts, dbt)
					noteOwner(dbt.BusinessID)
					summary.Records++
				}
			case codec.SheetGoals:
				if g, ok := codec.DecodeGoal(headers, cells); ok {
					goals = append(goals, g)
					noteOwner(g.BusinessID)
					summary.Records++
				}
			case codec.SheetSales:
				if sl, ok := codec.DecodeSale(headers, cells); ok {
					sales = append(sales, sl)
					noteOwner(sl.BusinessID)
					summary.Records++
				}
			case codec.SheetClients:
				if c, ok := codec.DecodeCustomer(headers, cells); ok {
					customers = append(customers, c)
					noteOwner(c.BusinessID)
					summary.Records++
				}
			case codec.SheetProducts:
				if p, ok := codec.DecodeProduct(headers, cells); ok {
					products = append(products, p)
					noteOwner(p.BusinessID)
					summary.Records++
				}
			case codec.SheetDebtors:
				if deb, ok := codec.DecodeDebtor(headers, cells, now); ok {
					debtors = append(debtors, deb)
					noteOwner(deb.BusinessID)
					summary.Records++
				}
			}
		}
	}

	// Fabricate placeholder businesses for owner IDs the Businesses sheet
	// does not know, numbered by first appearance.
	known := map[string]bool{}
	for _, b := range businesses {
		known[b.ID] = true
	}
	for _, id := range ownerOrder {
		if known[id] {
			continue
		}
		summary.InferredBusinesses++
		businesses = append(businesses, &model.Business{
			ID:        id,
			Name:      fmt.Sprintf("Profile %d", summary.InferredBusinesses),
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		known[id] = true
	}
	if len(businesses) == 0 && summary.Records > 0 {
		// Records exist but none carry an owner; give them one home.
		summary.InferredBusinesses++
		businesses = append(businesses, &model.Business{
			ID:        model.NewID(),
			Name:      "Profile 1",
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	previous, _ := r.store.GetString(store.KeyCurrentBusiness)
	defaultBusiness := ""
	if len(businesses) > 0 {
		defaultBusiness = businesses[0].ID
		if known[previous] {
			defaultBusiness = previous
		}
	}
	summary.DefaultBusinessID = defaultBusiness

	// Orphan records adopt the default business.
	if defaultBusiness != "" {
		for _, t := range transactions {
			if t.BusinessID == "" {
				t.BusinessID = defaultBusiness
			}
		}
		for _, a := range accounts {
			if a.BusinessID == "" {
				a.BusinessID = defaultBusiness
			}
		}
		for _, c := range categories {
			if c.BusinessID == "" {
				c.BusinessID = defaultBusiness
			}
		}
		for _, b := range budgets {
			if b.BusinessID == "" {
				b.BusinessID = defaultBusiness
			}
		}
		for _, inv := range investments {
			if inv.BusinessID == "" {
				inv.BusinessID = defaultBusiness
			}
		}
		for _, dbt := range debts {
			if dbt.BusinessID == "" {
				dbt.BusinessID = defaultBusiness
			}
		}
		for _, g := range goals {
			if g.BusinessID == "" {
				g.BusinessID = defaultBusiness
			}
		}
		for _, sl := range sales {
			if sl.BusinessID == "" {
				sl.BusinessID = defaultBusiness
			}
		}
		for _, c := range customers {
			if c.BusinessID == "" {
				c.BusinessID = defaultBusiness
			}
		}
		for _, p := range products {
			if p.BusinessID == "" {
				p.BusinessID = defaultBusiness
			}
		}
		for _, deb := range debtors {
			if deb.BusinessID == "" {
				deb.BusinessID = defaultBusiness
			}
		}
	}

	// Replace the local dataset wholesale.
	if err := r.store.DeleteAll(append(append([]string(nil), store.CollectionKeys...), store.KeyCurrentBusiness)); err != nil {
		return nil, fmt.Errorf("failed to clear local collections: %w", err)
	}
	writes := []struct {
		key string
		v   any
	}{
		{store.KeyBusinesses, businesses},
		{store.KeyTransactions, transactions},
		{store.KeyAccounts, accounts},
		{store.KeyCategories, categories},
		{store.KeyBudgets, budgets},
		{store.KeyInvestments, investments},
		{store.KeyDebts, debts},
		{store.KeyGoals, goals},
		{store.KeySales, sales},
		{store.KeyCustomers, customers},
		{store.KeyProducts, products},
		{store.KeyDebtors, debtors},
	}
	for _, w := range writes {
		if err := r.store.Set(w.key, w.v); err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", w.key, err)
		}
	}
	if defaultBusiness != "" {
		if err := r.store.Set(store.KeyCurrentBusiness, defaultBusiness); err != nil {
			return nil, fmt.Errorf("failed to store current business: %w", err)
		}
	}

	if err := r.reloadServices(); err != nil {
		return nil, err
	}
	r.touchLastSync()

	r.logger.Printf("Import complete: %d records across %d sheets (%d businesses inferred)",
		summary.Records, summary.Sheets, summary.InferredBusinesses)
	r.publish(Event{Type: EventImportComplete, Summary: summary})
	return summary, nil
}

func (r *Reconciler) reloadServices() error {
	if r.finance != nil {
		if err := r.finance.Reload(); err != nil {
			return fmt.Errorf("failed to reload finance: %w", err)
		}
	}
	if r.sales != nil {
		if err := r.sales.Reload(); err != nil {
			return fmt.Errorf("failed to reload sales: %w", err)
		}
	}
	if r.debtors != nil {
		if err := r.debtors.Reload(); err != nil {
			return fmt.Errorf("failed to reload debtors: %w", err)
		}
	}
	return nil
}
