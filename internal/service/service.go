// Package service implements the entity operations over the local store:
// finance (businesses, transactions, accounts, categories, budgets,
// investments, debts, goals), sales (products, customers, sales), and
// debtors (installment schedules).
//
// Each service keeps its collections in memory and writes the whole
// collection back to the store after every mutation; the store's change
// hook is what feeds the sync scheduler. Services are safe for concurrent
// use but expect to be the only writer for their collections within a
// process. After a full import, call Reload to pick up the replaced data.
package service

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the services.
var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrLastBusiness blocks deleting the only remaining business.
	ErrLastBusiness = errors.New("cannot delete the last business")

	// ErrCategoryInUse blocks deleting a category still referenced by
	// transactions.
	ErrCategoryInUse = errors.New("category is referenced by transactions")

	// ErrCustomerHasSales blocks deleting a customer with sale history.
	ErrCustomerHasSales = errors.New("customer has recorded sales")

	// ErrSaleCancelled rejects payments against a cancelled sale.
	ErrSaleCancelled = errors.New("sale is cancelled")

	// ErrInvalidAmount rejects non-positive payment amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// InsufficientStockError reports a sale line asking for more units than a
// product has.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}
