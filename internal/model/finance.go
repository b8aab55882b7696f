package model

import "time"

// Business is the tenancy boundary: every other record belongs to exactly
// one business through its BusinessID.
type Business struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Transaction is a single income or expense entry.
type Transaction struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"businessId"`
	Type        string    `json:"type"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	CategoryID  string    `json:"categoryId,omitempty"`
	AccountID   string    `json:"accountId,omitempty"`
	Status      string    `json:"status"`
	Recurring   bool      `json:"recurring,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Account holds a running balance. Balances change only through paid
// transactions; pending ones contribute nothing until marked paid.
type Account struct {
	ID             string    `json:"id"`
	BusinessID     string    `json:"businessId"`
	Name           string    `json:"name"`
	Type           string    `json:"type,omitempty"`
	Color          string    `json:"color,omitempty"`
	Icon           string    `json:"icon,omitempty"`
	Balance        int64     `json:"balance"`
	InitialBalance int64     `json:"initialBalance"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Category classifies transactions as either income or expense buckets.
type Category struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"businessId"`
	Name       string    `json:"name"`
	Icon       string    `json:"icon,omitempty"`
	Color      string    `json:"color,omitempty"`
	Type       string    `json:"type"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Budget caps spending for one category in one calendar month.
// Month uses the "YYYY-MM" form.
type Budget struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"businessId"`
	CategoryID string    `json:"categoryId"`
	Month      string    `json:"month"`
	Amount     int64     `json:"amount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Investment tracks an asset's value over time.
type Investment struct {
	ID           string       `json:"id"`
	BusinessID   string       `json:"businessId"`
	Name         string       `json:"name"`
	Type         string       `json:"type,omitempty"`
	InitialValue int64        `json:"initialValue"`
	CurrentValue int64        `json:"currentValue"`
	History      []ValuePoint `json:"history,omitempty"`
	StartDate    time.Time    `json:"startDate"`
	AccountID    string       `json:"accountId,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Debt is money the business owes, paid down over installments.
type Debt struct {
	ID               string    `json:"id"`
	BusinessID       string    `json:"businessId"`
	Name             string    `json:"name"`
	Type             string    `json:"type,omitempty"`
	TotalAmount      int64     `json:"totalAmount"`
	PaidAmount       int64     `json:"paidAmount"`
	RemainingAmount  int64     `json:"remainingAmount"`
	InterestRate     float64   `json:"interestRate,omitempty"`
	Installments     int       `json:"installments,omitempty"`
	PaidInstallments int       `json:"paidInstallments,omitempty"`
	StartDate        time.Time `json:"startDate"`
	Status           string    `json:"status"`
	Payments         []Payment `json:"payments,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// DeriveDebtStatus returns settled once the debt is fully paid.
func DeriveDebtStatus(d *Debt) string {
	if d.TotalAmount > 0 && d.PaidAmount >= d.TotalAmount {
		return DebtSettled
	}
	return DebtActive
}

// Goal is a savings target funded by contributions.
type Goal struct {
	ID            string     `json:"id"`
	BusinessID    string     `json:"businessId"`
	Name          string     `json:"name"`
	TargetAmount  int64      `json:"targetAmount"`
	CurrentAmount int64      `json:"currentAmount"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Category      string     `json:"category,omitempty"`
	Status        string     `json:"status"`
	Contributions []Payment  `json:"contributions,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// DeriveGoalStatus returns completed once the target is reached.
func DeriveGoalStatus(g *Goal) string {
	if g.TargetAmount > 0 && g.CurrentAmount >= g.TargetAmount {
		return GoalCompleted
	}
	return GoalInProgress
}
