package service

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/hvescovi/finsync/internal/model"
	"github.com/hvescovi/finsync/internal/store"
)

// Finance manages businesses, transactions, accounts, categories, budgets,
// investments, debts, and goals.
type Finance struct {
	store  *store.Store
	logger *log.Logger

	mu              sync.Mutex
	businesses      []*model.Business
	transactions    []*model.Transaction
	accounts        []*model.Account
	categories      []*model.Category
	budgets         []*model.Budget
	investments     []*model.Investment
	debts           []*model.Debt
	goals           []*model.Goal
	currentBusiness string
}

// NewFinance creates the finance service and loads its collections.
func NewFinance(st *store.Store, logger *log.Logger) (*Finance, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "[finance] ", log.LstdFlags)
	}
	f := &Finance{store: st, logger: logger}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Reload replaces the in-memory collections with whatever the store holds.
func (f *Finance) Reload() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.businesses = nil
	f.transactions = nil
	f.accounts = nil
	f.categories = nil
	f.budgets = nil
	f.investments = nil
	f.debts = nil
	f.goals = nil

	loads := []struct {
		key string
		dst any
	}{
		{store.KeyBusinesses, &f.businesses},
		{store.KeyTransactions, &f.transactions},
		{store.KeyAccounts, &f.accounts},
		{store.KeyCategories, &f.categories},
		{store.KeyBudgets, &f.budgets},
		{store.KeyInvestments, &f.investments},
		{store.KeyDebts, &f.debts},
		{store.KeyGoals, &f.goals},
	}
	for _, l := range loads {
		if _, err := f.store.Load(l.key, l.dst); err != nil {
			return fmt.Errorf("failed to load %s: %w", l.key, err)
		}
	}

	current, err := f.store.GetString(store.KeyCurrentBusiness)
	if err != nil {
		return fmt.Errorf("failed to load current business: %w", err)
	}
	f.currentBusiness = current
	return nil
}

// EnsureDefaultBusiness creates a starter business when none exists and
// makes sure the current-business pointer is valid.
func (f *Finance) EnsureDefaultBusiness() (*model.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.businesses) == 0 {
		now := time.Now()
		b := &model.Business{
			ID:        model.NewID(),
			Name:      "Personal",
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		f.businesses = append(f.businesses, b)
		if err := f.store.Set(store.KeyBusinesses, f.businesses); err != nil {
			return nil, err
		}
	}
	if f.findBusiness(f.currentBusiness) == nil {
		f.currentBusiness = f.businesses[0].ID
		if err := f.store.Set(store.KeyCurrentBusiness, f.currentBusiness); err != nil {
			return nil, err
		}
	}
	return f.findBusiness(f.currentBusiness), nil
}

// --- businesses ---

func (f *Finance) Businesses() []*model.Business {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.Business(nil), f.businesses...)
}

func (f *Finance) BusinessByID(id string) (*model.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b := f.findBusiness(id); b != nil {
		return b, nil
	}
	return nil, ErrNotFound
}

func (f *Finance) findBusiness(id string) *model.Business {
	for _, b := range f.businesses {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (f *Finance) CreateBusiness(name, description, businessType string) (*model.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	b := &model.Business{
		ID:          model.NewID(),
		Name:        name,
		Description: description,
		Type:        businessType,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.businesses = append(f.businesses, b)
	if err := f.store.Set(store.KeyBusinesses, f.businesses); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBusiness removes a business and every finance record it owns.
// The last remaining business cannot be deleted. Sales and debtor records
// are purged by their own services; callers coordinate the cascade.
func (f *Finance) DeleteBusiness(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findBusiness(id) == nil {
		return ErrNotFound
	}
	if len(f.businesses) <= 1 {
		return ErrLastBusiness
	}

	f.businesses = filterSlice(f.businesses, func(b *model.Business) bool { return b.ID != id })
	f.transactions = filterSlice(f.transactions, func(t *model.Transaction) bool { return t.BusinessID != id })
	f.accounts = filterSlice(f.accounts, func(a *model.Account) bool { return a.BusinessID != id })
	f.categories = filterSlice(f.categories, func(c *model.Category) bool { return c.BusinessID != id })
	f.budgets = filterSlice(f.budgets, func(b *model.Budget) bool { return b.BusinessID != id })
	f.investments = filterSlice(f.investments, func(i *model.Investment) bool { return i.BusinessID != id })
	f.debts = filterSlice(f.debts, func(d *model.Debt) bool { return d.BusinessID != id })
	f.goals = filterSlice(f.goals, func(g *model.Goal) bool { return g.BusinessID != id })

	if f.currentBusiness == id {
		f.currentBusiness = f.businesses[0].ID
		if err := f.store.Set(store.KeyCurrentBusiness, f.currentBusiness); err != nil {
			return err
		}
	}

	return f.persist(
		store.KeyBusinesses, store.KeyTransactions, store.KeyAccounts,
		store.KeyCategories, store.KeyBudgets, store.KeyInvestments,
		store.KeyDebts, store.KeyGoals,
	)
}

// SwitchBusiness changes the current business pointer.
func (f *Finance) SwitchBusiness(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findBusiness(id) == nil {
		return ErrNotFound
	}
	f.currentBusiness = id
	return f.store.Set(store.KeyCurrentBusiness, id)
}

func (f *Finance) CurrentBusinessID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentBusiness
}

// --- categories ---

func (f *Finance) Categories(businessID string) []*model.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Category
	for _, c := range f.categories {
		if businessID == "" || c.BusinessID == businessID {
			out = append(out, c)
		}
	}
	return out
}

func (f *Finance) CreateCategory(businessID, name, icon, color, categoryType string) (*model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	c := &model.Category{
		ID:         model.NewID(),
		BusinessID: businessID,
		Name:       name,
		Icon:       icon,
		Color:      color,
		Type:       categoryType,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.categories = append(f.categories, c)
	if err := f.store.Set(store.KeyCategories, f.categories); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory refuses to remove a category while transactions still
// reference it.
func (f *Finance) DeleteCategory(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range f.transactions {
		if t.CategoryID == id {
			return ErrCategoryInUse
		}
	}
	before := len(f.categories)
	f.categories = filterSlice(f.categories, func(c *model.Category) bool { return c.ID != id })
	if len(f.categories) == before {
		return ErrNotFound
	}
	return f.store.Set(store.KeyCategories, f.categories)
}

// --- accounts ---

func (f *Finance) Accounts(businessID string) []*model.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Account
	for _, a := range f.accounts {
		if businessID == "" || a.BusinessID == businessID {
			out = append(out, a)
		}
	}
	return out
}

func (f *Finance) AccountByID(id string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a := f.findAccount(id); a != nil {
		return a, nil
	}
	return nil, ErrNotFound
}

func (f *Finance) findAccount(id string) *model.Account {
	for _, a := range f.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (f *Finance) CreateAccount(businessID, name, accountType, color, icon string, initialBalance int64) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	a := &model.Account{
		ID:             model.NewID(),
		BusinessID:     businessID,
		Name:           name,
		Type:           accountType,
		Color:          color,
		Icon:           icon,
		Balance:        initialBalance,
		InitialBalance: initialBalance,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.accounts = append(f.accounts, a)
	if err := f.store.Set(store.KeyAccounts, f.accounts); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAccount removes an account, or deactivates it instead when
// transactions still reference it. The returned flag reports which
// happened: true means deactivated.
func (f *Finance) DeleteAccount(id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a := f.findAccount(id)
	if a == nil {
		return false, ErrNotFound
	}

	referenced := false
	for _, t := range f.transactions {
		if t.AccountID == id {
			referenced = true
			break
		}
	}
	if referenced {
		a.Active = false
		a.UpdatedAt = time.Now()
		return true, f.store.Set(store.KeyAccounts, f.accounts)
	}

	f.accounts = filterSlice(f.accounts, func(x *model.Account) bool { return x.ID != id })
	return false, f.store.Set(store.KeyAccounts, f.accounts)
}

// applyToBalance adjusts an account for a paid transaction. reverse undoes
// a previously applied effect. Unknown accounts are ignored: imported data
// may reference accounts that no longer exist.
func (f *Finance) applyToBalance(accountID string, amount int64, txType string, reverse bool) {
	a := f.findAccount(accountID)
	if a == nil {
		return
	}
	delta := amount
	if txType == model.TypeExpense {
		delta = -delta
	}
	if reverse {
		delta = -delta
	}
	a.Balance += delta
	a.UpdatedAt = time.Now()
}

// --- transactions ---

// TransactionInput holds the fields accepted when creating a transaction.
type TransactionInput struct {
	BusinessID  string
	Type        string
	Amount      int64
	Description string
	Date        time.Time
	CategoryID  string
	AccountID   string
	Status      string
	Recurring   bool
	Tags        []string
	Notes       string
}

// TransactionUpdate carries partial edits; nil fields keep their value.
type TransactionUpdate struct {
	Type        *string
	Amount      *int64
	Description *string
	Date        *time.Time
	CategoryID  *string
	AccountID   *string
	Status      *string
	Notes       *string
}

func (f *Finance) Transactions(businessID string) []*model.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Transaction
	for _, t := range f.transactions {
		if businessID == "" || t.BusinessID == businessID {
			out = append(out, t)
		}
	}
	return out
}

func (f *Finance) CreateTransaction(in TransactionInput) (*model.Transaction, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.Type != model.TypeIncome && in.Type != model.TypeExpense {
		return nil, fmt.Errorf("unknown transaction type %q", in.Type)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	if in.Date.IsZero() {
		in.Date = now
	}
	if in.Status == "" {
		in.Status = model.TransactionPaid
	}

	t := &model.Transaction{
		ID:          model.NewID(),
		BusinessID:  in.BusinessID,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        in.Date,
		CategoryID:  in.CategoryID,
		AccountID:   in.AccountID,
		Status:      in.Status,
		Recurring:   in.Recurring,
		Tags:        in.Tags,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.transactions = append(f.transactions, t)

	if t.Status == model.TransactionPaid && t.AccountID != "" {
		f.applyToBalance(t.AccountID, t.Amount, t.Type, false)
	}
	if err := f.persist(store.KeyTransactions, store.KeyAccounts); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTransaction edits a transaction, reversing and reapplying its
// balance effect so accounts stay consistent across amount, type, status,
// and account changes.
func (f *Finance) UpdateTransaction(id string, upd TransactionUpdate) (*model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var t *model.Transaction
	for _, x := range f.transactions {
		if x.ID == id {
			t = x
			break
		}
	}
	if t == nil {
		return nil, ErrNotFound
	}

	if t.Status == model.TransactionPaid && t.AccountID != "" {
		f.applyToBalance(t.AccountID, t.Amount, t.Type, true)
	}

	if upd.Type != nil {
		t.Type = *upd.Type
	}
	if upd.Amount != nil {
		t.Amount = *upd.Amount
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Date != nil {
		t.Date = *upd.Date
	}
	if upd.CategoryID != nil {
		t.CategoryID = *upd.CategoryID
	}
	if upd.AccountID != nil {
		t.AccountID = *upd.AccountID
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	if upd.Notes != nil {
		t.Notes = *upd.Notes
	}
	t.UpdatedAt = time.Now()

	if t.Status == model.TransactionPaid && t.AccountID != "" {
		f.applyToBalance(t.AccountID, t.Amount, t.Type, false)
	}
	if err := f.persist(store.KeyTransactions, store.KeyAccounts); err != nil {
		return nil, err
	}
	return t, nil
}

func (f *Finance) DeleteTransaction(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var t *model.Transaction
	for _, x := range f.transactions {
		if x.ID == id {
			t = x
			break
		}
	}
	if t == nil {
		return ErrNotFound
	}
	if t.Status == model.TransactionPaid && t.AccountID != "" {
		f.applyToBalance(t.AccountID, t.Amount, t.Type, true)
	}
	f.transactions = filterSlice(f.transactions, func(x *model.Transaction) bool { return x.ID != id })
	return f.persist(store.KeyTransactions, store.KeyAccounts)
}

// --- budgets ---

func (f *Finance) Budgets(businessID string) []*model.Budget {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Budget
	for _, b := range f.budgets {
		if businessID == "" || b.BusinessID == businessID {
			out = append(out, b)
		}
	}
	return out
}

// UpsertBudget sets the cap for one category in one month, replacing any
// prior entry for the same pair.
func (f *Finance) UpsertBudget(businessID, categoryID, month string, amount int64) (*model.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	for _, b := range f.budgets {
		if b.BusinessID == businessID && b.CategoryID == categoryID && b.Month == month {
			b.Amount = amount
			b.UpdatedAt = now
			return b, f.store.Set(store.KeyBudgets, f.budgets)
		}
	}
	b := &model.Budget{
		ID:         model.NewID(),
		BusinessID: businessID,
		CategoryID: categoryID,
		Month:      month,
		Amount:     amount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.budgets = append(f.budgets, b)
	return b, f.store.Set(store.KeyBudgets, f.budgets)
}

func (f *Finance) DeleteBudget(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	before := len(f.budgets)
	f.budgets = filterSlice(f.budgets, func(b *model.Budget) bool { return b.ID != id })
	if len(f.budgets) == before {
		return ErrNotFound
	}
	return f.store.Set(store.KeyBudgets, f.budgets)
}

// BudgetProgress pairs each budget of a month with what was actually spent
// in its category.
type BudgetProgress struct {
	Budget *model.Budget
	Spent  int64
}

func (f *Finance) BudgetReport(businessID, month string) []BudgetProgress {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []BudgetProgress
	for _, b := range f.budgets {
		if b.BusinessID != businessID || b.Month != month {
			continue
		}
		var spent int64
		for _, t := range f.transactions {
			if t.BusinessID == businessID &&
				t.CategoryID == b.CategoryID &&
				t.Type == model.TypeExpense &&
				t.Status == model.TransactionPaid &&
				t.Date.Format("2006-01") == month {
				spent += t.Amount
			}
		}
		out = append(out, BudgetProgress{Budget: b, Spent: spent})
	}
	return out
}

// --- investments ---

func (f *Finance) Investments(businessID string) []*model.Investment {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Investment
	for _, i := range f.investments {
		if businessID == "" || i.BusinessID == businessID {
			out = append(out, i)
		}
	}
	return out
}

func (f *Finance) CreateInvestment(businessID, name, invType string, initialValue int64, startDate time.Time, accountID, notes string) (*model.Investment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	if startDate.IsZero() {
		startDate = now
	}
	inv := &model.Investment{
		ID:           model.NewID(),
		BusinessID:   businessID,
		Name:         name,
		Type:         invType,
		InitialValue: initialValue,
		CurrentValue: initialValue,
		History:      []model.ValuePoint{{Date: startDate, Value: initialValue}},
		StartDate:    startDate,
		AccountID:    accountID,
		Notes:        notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.investments = append(f.investments, inv)
	return inv, f.store.Set(store.KeyInvestments, f.investments)
}

// UpdateInvestmentValue records a new valuation, appending to the history.
func (f *Finance) UpdateInvestmentValue(id string, value int64, date time.Time) (*model.Investment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, inv := range f.investments {
		if inv.ID != id {
			continue
		}
		if date.IsZero() {
			date = time.Now()
		}
		inv.CurrentValue = value
		inv.History = append(inv.History, model.ValuePoint{Date: date, Value: value})
		inv.UpdatedAt = time.Now()
		return inv, f.store.Set(store.KeyInvestments, f.investments)
	}
	return nil, ErrNotFound
}

func (f *Finance) DeleteInvestment(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	before := len(f.investments)
	f.investments = filterSlice(f.investments, func(i *model.Investment) bool { return i.ID != id })
	if len(f.investments) == before {
		return ErrNotFound
	}
	return f.store.Set(store.KeyInvestments, f.investments)
}

// --- debts ---

func (f *Finance) Debts(businessID string) []*model.Debt {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Debt
	for _, d := range f.debts {
		if businessID == "" || d.BusinessID == businessID {
			out = append(out, d)
		}
	}
	return out
}

func (f *Finance) CreateDebt(businessID, name, debtType string, total int64, interestRate float64, installments int, startDate time.Time, notes string) (*model.Debt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	if startDate.IsZero() {
		startDate = now
	}
	d := &model.Debt{
		ID:              model.NewID(),
		BusinessID:      businessID,
		Name:            name,
		Type:            debtType,
		TotalAmount:     total,
		RemainingAmount: total,
		InterestRate:    interestRate,
		Installments:    installments,
		StartDate:       startDate,
		Status:          model.DebtActive,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.debts = append(f.debts, d)
	return d, f.store.Set(store.KeyDebts, f.debts)
}

// RegisterDebtPayment pays down a debt, clamping so the paid amount never
// exceeds the total.
func (f *Finance) RegisterDebtPayment(id string, amount int64, date time.Time, notes string) (*model.Debt, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, d := range f.debts {
		if d.ID != id {
			continue
		}
		if date.IsZero() {
			date = time.Now()
		}
		applied := min(amount, d.TotalAmount-d.PaidAmount)
		if applied <= 0 {
			return d, nil
		}
		d.Payments = append(d.Payments, model.Payment{
			ID:     model.NewID(),
			Amount: applied,
			Date:   date,
			Notes:  notes,
		})
		d.PaidAmount += applied
		d.RemainingAmount = d.TotalAmount - d.PaidAmount
		if d.Installments > 0 {
			d.PaidInstallments = int(d.PaidAmount * int64(d.Installments) / d.TotalAmount)
		}
		d.Status = model.DeriveDebtStatus(d)
		d.UpdatedAt = time.Now()
		return d, f.store.Set(store.KeyDebts, f.debts)
	}
	return nil, ErrNotFound
}

func (f *Finance) DeleteDebt(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	before := len(f.debts)
	f.debts = filterSlice(f.debts, func(d *model.Debt) bool { return d.ID != id })
	if len(f.debts) == before {
		return ErrNotFound
	}
	return f.store.Set(store.KeyDebts, f.debts)
}

// --- goals ---

func (f *Finance) Goals(businessID string) []*model.Goal {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Goal
	for _, g := range f.goals {
		if businessID == "" || g.BusinessID == businessID {
			out = append(out, g)
		}
	}
	return out
}

func (f *Finance) CreateGoal(businessID, name string, target int64, deadline *time.Time, category, notes string) (*model.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	g := &model.Goal{
		ID:           model.NewID(),
		BusinessID:   businessID,
		Name:         name,
		TargetAmount: target,
		Deadline:     deadline,
		Category:     category,
		Status:       model.GoalInProgress,
		Notes:        notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.goals = append(f.goals, g)
	return g, f.store.Set(store.KeyGoals, f.goals)
}

func (f *Finance) ContributeToGoal(id string, amount int64, date time.Time, notes string) (*model.Goal, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, g := range f.goals {
		if g.ID != id {
			continue
		}
		if date.IsZero() {
			date = time.Now()
		}
		g.Contributions = append(g.Contributions, model.Payment{
			ID:     model.NewID(),
			Amount: amount,
			Date:   date,
			Notes:  notes,
		})
		g.CurrentAmount += amount
		g.Status = model.DeriveGoalStatus(g)
		g.UpdatedAt = time.Now()
		return g, f.store.Set(store.KeyGoals, f.goals)
	}
	return nil, ErrNotFound
}

func (f *Finance) DeleteGoal(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	before := len(f.goals)
	f.goals = filterSlice(f.goals, func(g *model.Goal) bool { return g.ID != id })
	if len(f.goals) == before {
		return ErrNotFound
	}
	return f.store.Set(store.KeyGoals, f.goals)
}

// --- reporting ---

// MonthlyStats summarizes one business month from paid transactions.
type MonthlyStats struct {
	Month        string
	Income       int64
	Expenses     int64
	Balance      int64
	Transactions int
}

func (f *Finance) MonthlyReport(businessID, month string) MonthlyStats {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := MonthlyStats{Month: month}
	for _, t := range f.transactions {
		if t.BusinessID != businessID || t.Status != model.TransactionPaid {
			continue
		}
		if t.Date.Format("2006-01") != month {
			continue
		}
		stats.Transactions++
		if t.Type == model.TypeIncome {
			stats.Income += t.Amount
		} else {
			stats.Expenses += t.Amount
		}
	}
	stats.Balance = stats.Income - stats.Expenses
	return stats
}

// persist writes the named collections back to the store.
func (f *Finance) persist(keys ...string) error {
	for _, key := range keys {
		var v any
		switch key {
		case store.KeyBusinesses:
			v = f.businesses
		case store.KeyTransactions:
			v = f.transactions
		case store.KeyAccounts:
			v = f.accounts
		case store.KeyCategories:
			v = f.categories
		case store.KeyBudgets:
			v = f.budgets
		case store.KeyInvestments:
			v = f.investments
		case store.KeyDebts:
			v = f.debts
		case store.KeyGoals:
			v = f.goals
		default:
			return fmt.Errorf("unknown collection %s", key)
		}
		if err := f.store.Set(key, v); err != nil {
			return err
		}
	}
	return nil
}

func filterSlice[T any](in []T, keep func(T) bool) []T {
	out := in[:0]
	for _, x := range in {
		if keep(x) {
			out = append(out, x)
		}
	}
	return out
}
