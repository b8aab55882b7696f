package service

import (
	"errors"
	"testing"
	"time"
)

func zeroTime() time.Time { return time.Time{} }

func testSales(t *testing.T) *Sales {
	t.Helper()
	s, err := NewSales(testStore(t), testLogger())
	if err != nil {
		t.Fatalf("NewSales() error: %v", err)
	}
	return s
}

func seedProduct(t *testing.T, s *Sales, name string, price int64, stock int) string {
	t.Helper()
	p, err := s.CreateProduct(ProductInput{
		BusinessID: "biz-1", Name: name, Price: price, Stock: stock,
	})
	if err != nil {
		t.Fatalf("CreateProduct() error: %v", err)
	}
	return p.ID
}

func TestCreateSaleDecrementsStock(t *testing.T) {
	s := testSales(t)
	productID := seedProduct(t, s, "Widget", 2500, 10)

	sale, err := s.CreateSale(SaleInput{
		BusinessID: "biz-1",
		Items:      []SaleItemInput{{ProductID: productID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("CreateSale() error: %v", err)
	}
	if sale.TotalAmount != 7500 {
		t.Errorf("total = %d, want 7500", sale.TotalAmount)
	}
	if sale.Status != "pending" {
		t.Errorf("status = %q, want pending", sale.Status)
	}

	p, _ := s.ProductByID(productID)
	if p.Stock != 7 {
		t.Errorf("stock = %d, want 7", p.Stock)
	}
	if p.TotalSold != 3 {
		t.Errorf("totalSold = %d, want 3", p.TotalSold)
	}
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	s := testSales(t)
	productID := seedProduct(t, s, "Widget", 2500, 2)

	_, err := s.CreateSale(SaleInput{
		BusinessID: "biz-1",
		Items:      []SaleItemInput{{ProductID: productID, Quantity: 5}},
	})
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("error = %v, want *InsufficientStockError", err)
	}
	if stockErr.Available != 2 || stockErr.Requested != 5 {
		t.Errorf("stock error = %+v", stockErr)
	}

	// The failed sale must not have touched stock.
	p, _ := s.ProductByID(productID)
	if p.Stock != 2 {
		t.Errorf("stock after failed sale = %d, want 2", p.Stock)
	}
}

func TestSalePaymentsClampAndDeriveStatus(t *testing.T) {
	s := testSales(t)
	productID := seedProduct(t, s, "Widget", 10000, 5)

	sale, err := s.CreateSale(SaleInput{
		BusinessID: "biz-1",
		Items:      []SaleItemInput{{ProductID: productID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateSale() error: %v", err)
	}

	if _, err := s.RegisterPayment(sale.ID, 4000, zeroTime(), "", ""); err != nil {
		t.Fatalf("RegisterPayment() error: %v", err)
	}
	if sale.Status != "partial" || sale.RemainingAmount != 6000 {
		t.Errorf("after partial payment: status=%q remaining=%d", sale.Status, sale.RemainingAmount)
	}

	// Over-payment clamps at the total.
	if _, err := s.RegisterPayment(sale.ID, 99999, zeroTime(), "", ""); err != nil {
		t.Fatalf("RegisterPayment() error: %v", err)
	}
	if sale.PaidAmount != sale.TotalAmount {
		t.Errorf("paid = %d, want %d", sale.PaidAmount, sale.TotalAmount)
	}
	if sale.RemainingAmount != 0 || sale.Status != "paid" {
		t.Errorf("after overpayment: status=%q remaining=%d", sale.Status, sale.RemainingAmount)
	}
}

func TestCancelSaleRestoresStock(t *testing.T) {
	s := testSales(t)
	productID := seedProduct(t, s, "Widget", 1000, 10)

	sale, _ := s.CreateSale(SaleInput{
		BusinessID: "biz-1",
		Items:      []SaleItemInput{{ProductID: productID, Quantity: 4}},
	})
	if _, err := s.CancelSale(sale.ID); err != nil {
		t.Fatalf("CancelSale() error: %v", err)
	}

	p, _ := s.ProductByID(productID)
	if p.Stock != 10 {
		t.Errorf("stock after cancel = %d, want 10", p.Stock)
	}
	if p.TotalSold != 0 {
		t.Errorf("totalSold after cancel = %d, want 0", p.TotalSold)
	}

	// Payments against a cancelled sale are rejected.
	if _, err := s.RegisterPayment(sale.ID, 100, zeroTime(), "", ""); !errors.Is(err, ErrSaleCancelled) {
		t.Errorf("RegisterPayment() on cancelled sale = %v, want ErrSaleCancelled", err)
	}

	// Deleting the cancelled sale must not restore stock a second time.
	if err := s.DeleteSale(sale.ID); err != nil {
		t.Fatalf("DeleteSale() error: %v", err)
	}
	p, _ = s.ProductByID(productID)
	if p.Stock != 10 {
		t.Errorf("stock after delete of cancelled sale = %d, want 10", p.Stock)
	}
}

func TestCustomerStatsFollowSales(t *testing.T) {
	s := testSales(t)
	productID := seedProduct(t, s, "Widget", 5000, 10)
	cust, err := s.CreateCustomer(CustomerInput{BusinessID: "biz-1", Name: "Alice"})
	if err != nil {
		t.Fatalf("CreateCustomer() error: %v", err)
	}

	sale, _ := s.CreateSale(SaleInput{
		BusinessID: "biz-1", CustomerID: cust.ID,
		Items: []SaleItemInput{{ProductID: productID, Quantity: 2}},
	})
	if cust.TotalPurchases != 1 || cust.TotalSpent != 10000 {
		t.Errorf("customer stats = %d purchases / %d spent", cust.TotalPurchases, cust.TotalSpent)
	}

	// A customer with sales cannot be deleted.
	if err := s.DeleteCustomer(cust.ID); !errors.Is(err, ErrCustomerHasSales) {
		t.Errorf("DeleteCustomer() = %v, want ErrCustomerHasSales", err)
	}

	// Cancelling the sale zeroes the stats.
	if _, err := s.CancelSale(sale.ID); err != nil {
		t.Fatalf("CancelSale() error: %v", err)
	}
	if cust.TotalPurchases != 0 || cust.TotalSpent != 0 {
		t.Errorf("stats after cancel = %d purchases / %d spent", cust.TotalPurchases, cust.TotalSpent)
	}
}

func TestDeleteProductDeactivatesWhenSold(t *testing.T) {
	s := testSales(t)
	productID := seedProduct(t, s, "Widget", 1000, 10)

	s.CreateSale(SaleInput{
		BusinessID: "biz-1",
		Items:      []SaleItemInput{{ProductID: productID, Quantity: 1}},
	})

	deactivated, err := s.DeleteProduct(productID)
	if err != nil {
		t.Fatalf("DeleteProduct() error: %v", err)
	}
	if !deactivated {
		t.Error("sold product was removed, want deactivated")
	}
	p, _ := s.ProductByID(productID)
	if p.Active {
		t.Error("product still active")
	}
}

func TestInstallmentValueCeils(t *testing.T) {
	s := testSales(t)
	productID := seedProduct(t, s, "Widget", 10000, 10)

	sale, err := s.CreateSale(SaleInput{
		BusinessID:   "biz-1",
		Items:        []SaleItemInput{{ProductID: productID, Quantity: 1}},
		Installments: 3,
	})
	if err != nil {
		t.Fatalf("CreateSale() error: %v", err)
	}
	if sale.InstallmentValue != 3334 {
		t.Errorf("installment value = %d, want 3334", sale.InstallmentValue)
	}
}
