package service

import (
	"errors"
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/hvescovi/finsync/internal/model"
	"github.com/hvescovi/finsync/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "finsync.db"), testLogger())
	if err != nil {
		t.Fatalf("store.Open() error: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testFinance(t *testing.T) *Finance {
	t.Helper()
	f, err := NewFinance(testStore(t), testLogger())
	if err != nil {
		t.Fatalf("NewFinance() error: %v", err)
	}
	return f
}

func TestAccountBalanceFollowsPaidTransactions(t *testing.T) {
	f := testFinance(t)
	biz, _ := f.CreateBusiness("Shop", "", "")
	acc, err := f.CreateAccount(biz.ID, "Cash", "cash", "", "", 10000)
	if err != nil {
		t.Fatalf("CreateAccount() error: %v", err)
	}

	_, err = f.CreateTransaction(TransactionInput{
		BusinessID: biz.ID, Type: model.TypeIncome, Amount: 5000,
		AccountID: acc.ID, Status: model.TransactionPaid,
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error: %v", err)
	}
	if acc.Balance != 15000 {
		t.Errorf("balance after income = %d, want 15000", acc.Balance)
	}

	tx, err := f.CreateTransaction(TransactionInput{
		BusinessID: biz.ID, Type: model.TypeExpense, Amount: 2000,
		AccountID: acc.ID, Status: model.TransactionPaid,
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error: %v", err)
	}
	if acc.Balance != 13000 {
		t.Errorf("balance after expense = %d, want 13000", acc.Balance)
	}

	// A pending transaction must not move the balance.
	if _, err := f.CreateTransaction(TransactionInput{
		BusinessID: biz.ID, Type: model.TypeExpense, Amount: 9999,
		AccountID: acc.ID, Status: model.TransactionPending,
	}); err != nil {
		t.Fatalf("CreateTransaction() error: %v", err)
	}
	if acc.Balance != 13000 {
		t.Errorf("pending transaction moved balance to %d", acc.Balance)
	}

	// Deleting a paid transaction reverses its effect.
	if err := f.DeleteTransaction(tx.ID); err != nil {
		t.Fatalf("DeleteTransaction() error: %v", err)
	}
	if acc.Balance != 15000 {
		t.Errorf("balance after delete = %d, want 15000", acc.Balance)
	}
}

func TestUpdateTransactionReappliesBalance(t *testing.T) {
	f := testFinance(t)
	biz, _ := f.CreateBusiness("Shop", "", "")
	acc, _ := f.CreateAccount(biz.ID, "Cash", "cash", "", "", 0)

	tx, err := f.CreateTransaction(TransactionInput{
		BusinessID: biz.ID, Type: model.TypeIncome, Amount: 1000,
		AccountID: acc.ID,
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error: %v", err)
	}
	if acc.Balance != 1000 {
		t.Fatalf("balance = %d, want 1000", acc.Balance)
	}

	newAmount := int64(2500)
	newType := model.TypeExpense
	if _, err := f.UpdateTransaction(tx.ID, TransactionUpdate{
		Amount: &newAmount, Type: &newType,
	}); err != nil {
		t.Fatalf("UpdateTransaction() error: %v", err)
	}
	if acc.Balance != -2500 {
		t.Errorf("balance after edit = %d, want -2500", acc.Balance)
	}

	// Flipping to pending reverses the applied effect.
	pending := model.TransactionPending
	if _, err := f.UpdateTransaction(tx.ID, TransactionUpdate{Status: &pending}); err != nil {
		t.Fatalf("UpdateTransaction() error: %v", err)
	}
	if acc.Balance != 0 {
		t.Errorf("balance after marking pending = %d, want 0", acc.Balance)
	}
}

func TestDeleteAccountDeactivatesWhenReferenced(t *testing.T) {
	f := testFinance(t)
	biz, _ := f.CreateBusiness("Shop", "", "")
	acc, _ := f.CreateAccount(biz.ID, "Cash", "cash", "", "", 0)

	if _, err := f.CreateTransaction(TransactionInput{
		BusinessID: biz.ID, Type: model.TypeIncome, Amount: 100, AccountID: acc.ID,
	}); err != nil {
		t.Fatalf("CreateTransaction() error: %v", err)
	}

	deactivated, err := f.DeleteAccount(acc.ID)
	if err != nil {
		t.Fatalf("DeleteAccount() error: %v", err)
	}
	if !deactivated {
		t.Error("referenced account was removed, want deactivated")
	}
	got, err := f.AccountByID(acc.ID)
	if err != nil {
		t.Fatalf("AccountByID() error: %v", err)
	}
	if got.Active {
		t.Error("account still active after deactivation")
	}

	// An unreferenced account goes away entirely.
	other, _ := f.CreateAccount(biz.ID, "Spare", "cash", "", "", 0)
	deactivated, err = f.DeleteAccount(other.ID)
	if err != nil {
		t.Fatalf("DeleteAccount() error: %v", err)
	}
	if deactivated {
		t.Error("unreferenced account was deactivated, want removed")
	}
	if _, err := f.AccountByID(other.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("AccountByID() after delete = %v, want ErrNotFound", err)
	}
}

func TestDeleteCategoryBlockedWhileReferenced(t *testing.T) {
	f := testFinance(t)
	biz, _ := f.CreateBusiness("Shop", "", "")
	cat, _ := f.CreateCategory(biz.ID, "Rent", "", "", model.TypeExpense)

	tx, _ := f.CreateTransaction(TransactionInput{
		BusinessID: biz.ID, Type: model.TypeExpense, Amount: 100, CategoryID: cat.ID,
	})
	if err := f.DeleteCategory(cat.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Errorf("DeleteCategory() = %v, want ErrCategoryInUse", err)
	}

	if err := f.DeleteTransaction(tx.ID); err != nil {
		t.Fatalf("DeleteTransaction() error: %v", err)
	}
	if err := f.DeleteCategory(cat.ID); err != nil {
		t.Errorf("DeleteCategory() after freeing = %v, want nil", err)
	}
}

func TestDeleteBusinessCascades(t *testing.T) {
	f := testFinance(t)
	keep, _ := f.CreateBusiness("Keep", "", "")
	gone, _ := f.CreateBusiness("Gone", "", "")

	if _, err := f.CreateTransaction(TransactionInput{
		BusinessID: gone.ID, Type: model.TypeIncome, Amount: 100,
	}); err != nil {
		t.Fatalf("CreateTransaction() error: %v", err)
	}
	f.CreateAccount(gone.ID, "Cash", "cash", "", "", 0)
	f.CreateAccount(keep.ID, "Cash", "cash", "", "", 0)

	if err := f.DeleteBusiness(gone.ID); err != nil {
		t.Fatalf("DeleteBusiness() error: %v", err)
	}
	if got := f.Transactions(gone.ID); len(got) != 0 {
		t.Errorf("%d transactions survived the cascade", len(got))
	}
	if got := f.Accounts(gone.ID); len(got) != 0 {
		t.Errorf("%d accounts survived the cascade", len(got))
	}
	if got := f.Accounts(keep.ID); len(got) != 1 {
		t.Errorf("cascade touched the other business: %d accounts", len(got))
	}
}

func TestDeleteLastBusinessRefused(t *testing.T) {
	f := testFinance(t)
	only, _ := f.CreateBusiness("Only", "", "")
	if err := f.DeleteBusiness(only.ID); !errors.Is(err, ErrLastBusiness) {
		t.Errorf("DeleteBusiness() = %v, want ErrLastBusiness", err)
	}
}

func TestUpsertBudgetReplacesSamePair(t *testing.T) {
	f := testFinance(t)
	biz, _ := f.CreateBusiness("Shop", "", "")
	cat, _ := f.CreateCategory(biz.ID, "Food", "", "", model.TypeExpense)

	if _, err := f.UpsertBudget(biz.ID, cat.ID, "2026-08", 50000); err != nil {
		t.Fatalf("UpsertBudget() error: %v", err)
	}
	if _, err := f.UpsertBudget(biz.ID, cat.ID, "2026-08", 60000); err != nil {
		t.Fatalf("UpsertBudget() error: %v", err)
	}

	budgets := f.Budgets(biz.ID)
	if len(budgets) != 1 {
		t.Fatalf("got %d budgets, want 1", len(budgets))
	}
	if budgets[0].Amount != 60000 {
		t.Errorf("budget amount = %d, want 60000", budgets[0].Amount)
	}
}

func TestMonthlyReportCountsOnlyPaid(t *testing.T) {
	f := testFinance(t)
	biz, _ := f.CreateBusiness("Shop", "", "")
	date := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	f.CreateTransaction(TransactionInput{
		BusinessID: biz.ID, Type: model.TypeIncome, Amount: 10000, Date: date,
	})
	f.CreateTransaction(TransactionInput{
		BusinessID: biz.ID, Type: model.TypeExpense, Amount: 3000, Date: date,
	})
	f.CreateTransaction(TransactionInput{
		BusinessID: biz.ID, Type: model.TypeExpense, Amount: 99999, Date: date,
		Status: model.TransactionPending,
	})

	stats := f.MonthlyReport(biz.ID, "2026-08")
	if stats.Income != 10000 || stats.Expenses != 3000 || stats.Balance != 7000 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Transactions != 2 {
		t.Errorf("counted %d transactions, want 2", stats.Transactions)
	}
}

func TestReloadPicksUpReplacedCollections(t *testing.T) {
	st := testStore(t)
	f, err := NewFinance(st, testLogger())
	if err != nil {
		t.Fatalf("NewFinance() error: %v", err)
	}
	if _, err := f.CreateBusiness("Before", "", ""); err != nil {
		t.Fatalf("CreateBusiness() error: %v", err)
	}

	// Simulate a full import replacing the collection behind the service.
	replacement := []*model.Business{{ID: "b-new", Name: "After", Active: true}}
	if err := st.Set(store.KeyBusinesses, replacement); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := f.Reload(); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}

	got := f.Businesses()
	if len(got) != 1 || got[0].ID != "b-new" {
		t.Errorf("Businesses() after reload = %+v", got)
	}
}
