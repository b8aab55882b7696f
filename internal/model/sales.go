package model

import "time"

// ProductCategory groups products. Categories referenced by active products
// are deactivated on delete rather than removed.
type ProductCategory struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon,omitempty"`
	Color     string    `json:"color,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Customer is a buyer. Purchase stats are recomputed from the sales
// collection, not incremented blindly.
type Customer struct {
	ID             string     `json:"id"`
	BusinessID     string     `json:"businessId"`
	Name           string     `json:"name"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Document       string     `json:"document,omitempty"`
	Address        string     `json:"address,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	TotalPurchases int        `json:"totalPurchases"`
	TotalSpent     int64      `json:"totalSpent"`
	LastPurchase   *time.Time `json:"lastPurchase,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Product is a sellable item with tracked stock.
type Product struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"businessId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price"`
	Cost        int64     `json:"cost,omitempty"`
	Stock       int       `json:"stock"`
	Unit        string    `json:"unit,omitempty"`
	CategoryID  string    `json:"categoryId,omitempty"`
	Active      bool      `json:"active"`
	TotalSold   int       `json:"totalSold"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SaleItem is one line of a sale, priced at sale time so later product
// edits do not rewrite history.
type SaleItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	CategoryID  string `json:"categoryId,omitempty"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
	Cost        int64  `json:"cost,omitempty"`
	Total       int64  `json:"total"`
}

// Sale records items sold, amounts received, and an optional installment
// plan. Status is derived from amounts via DeriveSaleStatus.
type Sale struct {
	ID               string     `json:"id"`
	BusinessID       string     `json:"businessId"`
	CustomerID       string     `json:"customerId,omitempty"`
	CustomerName     string     `json:"customerName,omitempty"`
	Items            []SaleItem `json:"items"`
	Subtotal         int64      `json:"subtotal"`
	Discount         int64      `json:"discount,omitempty"`
	TotalAmount      int64      `json:"totalAmount"`
	PaidAmount       int64      `json:"paidAmount"`
	RemainingAmount  int64      `json:"remainingAmount"`
	PaymentType      string     `json:"paymentType,omitempty"`
	Installments     int        `json:"installments,omitempty"`
	InstallmentValue int64      `json:"installmentValue,omitempty"`
	DueDate          *time.Time `json:"dueDate,omitempty"`
	AccountID        string     `json:"accountId,omitempty"`
	Status           string     `json:"status"`
	Payments         []Payment  `json:"payments,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	Date             time.Time  `json:"date"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// DeriveSaleStatus maps a sale's amounts to its status. A cancelled sale
// stays cancelled regardless of amounts.
func DeriveSaleStatus(s *Sale) string {
	if s.Status == SaleCancelled {
		return SaleCancelled
	}
	if s.TotalAmount > 0 && s.RemainingAmount <= 0 {
		return SalePaid
	}
	if s.PaidAmount > 0 {
		return SalePartial
	}
	return SalePending
}
