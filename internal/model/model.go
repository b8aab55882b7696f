// Package model defines the domain records tracked by finsync.
//
// Every record kind shares the same envelope: a process-generated ID, the
// owning business (the tenancy boundary), and created/updated timestamps.
// Monetary amounts are stored as int64 minor units (cents) everywhere;
// conversion to decimal major units happens only at the row codec boundary.
package model

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a new unique record identifier.
// IDs are assigned once at creation and never reused.
func NewID() string {
	return uuid.NewString()
}

// Transaction types.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction statuses. Only paid transactions affect account balances.
const (
	TransactionPaid    = "paid"
	TransactionPending = "pending"
)

// Sale statuses.
const (
	SalePending   = "pending"
	SalePartial   = "partial"
	SalePaid      = "paid"
	SaleCancelled = "cancelled"
)

// Debtor statuses. These are derived, never authoritative: call
// DeriveDebtorStatus after every mutation.
const (
	DebtorActive    = "active"
	DebtorPartial   = "partial"
	DebtorOverdue   = "overdue"
	DebtorDefaulted = "defaulted"
	DebtorPaid      = "paid"
)

// Installment statuses.
const (
	InstallmentPending = "pending"
	InstallmentPartial = "partial"
	InstallmentPaid    = "paid"
)

// Debt and goal statuses.
const (
	DebtActive  = "active"
	DebtSettled = "settled"

	GoalInProgress = "in_progress"
	GoalCompleted  = "completed"
)

// DefaultedAfter is how long an installment may stay overdue before the
// debtor is considered defaulted rather than merely overdue.
const DefaultedAfter = 30 * 24 * time.Hour

// Payment is a single amount received against a sale, debt, or debtor.
type Payment struct {
	ID            string    `json:"id"`
	Amount        int64     `json:"amount"`
	Date          time.Time `json:"date"`
	InstallmentID string    `json:"installmentId,omitempty"`
	AccountID     string    `json:"accountId,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

// ValuePoint is one entry in an investment's value history.
type ValuePoint struct {
	Date  time.Time `json:"date"`
	Value int64     `json:"value"`
}
