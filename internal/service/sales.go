package service

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/hvescovi/finsync/internal/model"
	"github.com/hvescovi/finsync/internal/store"
)

// Sales manages products, product categories, customers, and sales.
type Sales struct {
	store  *store.Store
	logger *log.Logger

	mu                sync.Mutex
	sales             []*model.Sale
	customers         []*model.Customer
	products          []*model.Product
	productCategories []*model.ProductCategory
}

// NewSales creates the sales service and loads its collections.
func NewSales(st *store.Store, logger *log.Logger) (*Sales, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "[sales] ", log.LstdFlags)
	}
	s := &Sales{store: st, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory collections with whatever the store holds.
func (s *Sales) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sales = nil
	s.customers = nil
	s.products = nil
	s.productCategories = nil

	loads := []struct {
		key string
		dst any
	}{
		{store.KeySales, &s.sales},
		{store.KeyCustomers, &s.customers},
		{store.KeyProducts, &s.products},
		{store.KeyProductCategories, &s.productCategories},
	}
	for _, l := range loads {
		if _, err := s.store.Load(l.key, l.dst); err != nil {
			return err
		}
	}
	return nil
}

// --- product categories ---

func (s *Sales) ProductCategories() []*model.ProductCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.ProductCategory(nil), s.productCategories...)
}

func (s *Sales) CreateProductCategory(name, icon, color string) (*model.ProductCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	c := &model.ProductCategory{
		ID:        model.NewID(),
		Name:      name,
		Icon:      icon,
		Color:     color,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.productCategories = append(s.productCategories, c)
	return c, s.store.Set(store.KeyProductCategories, s.productCategories)
}

// DeleteProductCategory removes a category, or deactivates it when active
// products still reference it. The returned flag reports deactivation.
func (s *Sales) DeleteProductCategory(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cat *model.ProductCategory
	for _, c := range s.productCategories {
		if c.ID == id {
			cat = c
			break
		}
	}
	if cat == nil {
		return false, ErrNotFound
	}

	referenced := false
	for _, p := range s.products {
		if p.CategoryID == id && p.Active {
			referenced = true
			break
		}
	}
	if referenced {
		cat.Active = false
		cat.UpdatedAt = time.Now()
		return true, s.store.Set(store.KeyProductCategories, s.productCategories)
	}

	s.productCategories = filterSlice(s.productCategories, func(c *model.ProductCategory) bool { return c.ID != id })
	return false, s.store.Set(store.KeyProductCategories, s.productCategories)
}

// --- customers ---

// CustomerInput holds the fields accepted when creating a customer.
type CustomerInput struct {
	BusinessID string
	Name       string
	Email      string
	Phone      string
	Document   string
	Address    string
	Notes      string
}

func (s *Sales) Customers(businessID string) []*model.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Customer
	for _, c := range s.customers {
		if businessID == "" || c.BusinessID == businessID {
			out = append(out, c)
		}
	}
	return out
}

func (s *Sales) CreateCustomer(in CustomerInput) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	c := &model.Customer{
		ID:         model.NewID(),
		BusinessID: in.BusinessID,
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Document:   in.Document,
		Address:    in.Address,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.customers = append(s.customers, c)
	return c, s.store.Set(store.KeyCustomers, s.customers)
}

// DeleteCustomer refuses while the customer has sale history.
func (s *Sales) DeleteCustomer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sale := range s.sales {
		if sale.CustomerID == id {
			return ErrCustomerHasSales
		}
	}
	before := len(s.customers)
	s.customers = filterSlice(s.customers, func(c *model.Customer) bool { return c.ID != id })
	if len(s.customers) == before {
		return ErrNotFound
	}
	return s.store.Set(store.KeyCustomers, s.customers)
}

// refreshCustomerStats recomputes a customer's purchase stats from the
// sales collection. Cancelled sales do not count.
func (s *Sales) refreshCustomerStats(customerID string) {
	if customerID == "" {
		return
	}
	var c *model.Customer
	for _, x := range s.customers {
		if x.ID == customerID {
			c = x
			break
		}
	}
	if c == nil {
		return
	}

	c.TotalPurchases = 0
	c.TotalSpent = 0
	c.LastPurchase = nil
	for _, sale := range s.sales {
		if sale.CustomerID != customerID || sale.Status == model.SaleCancelled {
			continue
		}
		c.TotalPurchases++
		c.TotalSpent += sale.TotalAmount
		if c.LastPurchase == nil || sale.Date.After(*c.LastPurchase) {
			d := sale.Date
			c.LastPurchase = &d
		}
	}
	c.UpdatedAt = time.Now()
}

// --- products ---

// ProductInput holds the fields accepted when creating a product.
type ProductInput struct {
	BusinessID  string
	Name        string
	Description string
	Price       int64
	Cost        int64
	Stock       int
	Unit        string
	CategoryID  string
}

func (s *Sales) Products(businessID string) []*model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Product
	for _, p := range s.products {
		if businessID == "" || p.BusinessID == businessID {
			out = append(out, p)
		}
	}
	return out
}

func (s *Sales) ProductByID(id string) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.findProduct(id); p != nil {
		return p, nil
	}
	return nil, ErrNotFound
}

func (s *Sales) findProduct(id string) *model.Product {
	for _, p := range s.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Sales) CreateProduct(in ProductInput) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	p := &model.Product{
		ID:          model.NewID(),
		BusinessID:  in.BusinessID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Cost:        in.Cost,
		Stock:       in.Stock,
		Unit:        in.Unit,
		CategoryID:  in.CategoryID,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.products = append(s.products, p)
	return p, s.store.Set(store.KeyProducts, s.products)
}

// AdjustStock changes a product's stock by delta (restocks or manual
// corrections).
func (s *Sales) AdjustStock(id string, delta int) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(id)
	if p == nil {
		return nil, ErrNotFound
	}
	p.Stock += delta
	p.UpdatedAt = time.Now()
	return p, s.store.Set(store.KeyProducts, s.products)
}

// DeleteProduct removes a product, or deactivates it when sales reference
// it so history keeps resolving. The returned flag reports deactivation.
func (s *Sales) DeleteProduct(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(id)
	if p == nil {
		return false, ErrNotFound
	}

	referenced := false
	for _, sale := range s.sales {
		for _, item := range sale.Items {
			if item.ProductID == id {
				referenced = true
				break
			}
		}
	}
	if referenced {
		p.Active = false
		p.UpdatedAt = time.Now()
		return true, s.store.Set(store.KeyProducts, s.products)
	}

	s.products = filterSlice(s.products, func(x *model.Product) bool { return x.ID != id })
	return false, s.store.Set(store.KeyProducts, s.products)
}

// --- sales ---

// SaleItemInput selects a product and quantity; Price overrides the
// product's list price when positive.
type SaleItemInput struct {
	ProductID string
	Quantity  int
	Price     int64
}

// SaleInput holds the fields accepted when recording a sale.
type SaleInput struct {
	BusinessID     string
	CustomerID     string
	Items          []SaleItemInput
	Discount       int64
	PaymentType    string
	Installments   int
	DueDate        *time.Time
	AccountID      string
	Notes          string
	Date           time.Time
	InitialPayment int64
}

func (s *Sales) Sales(businessID string) []*model.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Sale
	for _, sale := range s.sales {
		if businessID == "" || sale.BusinessID == businessID {
			out = append(out, sale)
		}
	}
	return out
}

func (s *Sales) SaleByID(id string) (*model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sale := s.findSale(id); sale != nil {
		return sale, nil
	}
	return nil, ErrNotFound
}

func (s *Sales) findSale(id string) *model.Sale {
	for _, sale := range s.sales {
		if sale.ID == id {
			return sale
		}
	}
	return nil
}

// CreateSale records a sale: prices the items, checks and decrements
// stock, applies the discount, and registers an optional initial payment.
func (s *Sales) CreateSale(in SaleInput) (*model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if in.Date.IsZero() {
		in.Date = now
	}

	// Validate the whole order before touching any stock.
	type pricedItem struct {
		product *model.Product
		item    model.SaleItem
	}
	var priced []pricedItem
	var subtotal int64
	for _, it := range in.Items {
		p := s.findProduct(it.ProductID)
		if p == nil {
			return nil, ErrNotFound
		}
		if it.Quantity <= 0 {
			return nil, ErrInvalidAmount
		}
		if p.Stock < it.Quantity {
			return nil, &InsufficientStockError{
				ProductName: p.Name,
				Requested:   it.Quantity,
				Available:   p.Stock,
			}
		}
		price := p.Price
		if it.Price > 0 {
			price = it.Price
		}
		line := model.SaleItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			CategoryID:  p.CategoryID,
			Quantity:    it.Quantity,
			Price:       price,
			Cost:        p.Cost,
			Total:       price * int64(it.Quantity),
		}
		subtotal += line.Total
		priced = append(priced, pricedItem{product: p, item: line})
	}

	total := subtotal - in.Discount
	if total < 0 {
		total = 0
	}

	sale := &model.Sale{
		ID:           model.NewID(),
		BusinessID:   in.BusinessID,
		CustomerID:   in.CustomerID,
		Subtotal:     subtotal,
		Discount:     in.Discount,
		TotalAmount:  total,
		PaymentType:  in.PaymentType,
		Installments: in.Installments,
		DueDate:      in.DueDate,
		AccountID:    in.AccountID,
		Notes:        in.Notes,
		Date:         in.Date,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, pi := range priced {
		sale.Items = append(sale.Items, pi.item)
		pi.product.Stock -= pi.item.Quantity
		pi.product.TotalSold += pi.item.Quantity
		pi.product.UpdatedAt = now
	}
	if in.Installments > 1 && total > 0 {
		sale.InstallmentValue = (total + int64(in.Installments) - 1) / int64(in.Installments)
	}
	if in.CustomerID != "" {
		for _, c := range s.customers {
			if c.ID == in.CustomerID {
				sale.CustomerName = c.Name
				break
			}
		}
	}

	if in.InitialPayment > 0 {
		applied := min(in.InitialPayment, total)
		sale.Payments = append(sale.Payments, model.Payment{
			ID:        model.NewID(),
			Amount:    applied,
			Date:      in.Date,
			AccountID: in.AccountID,
		})
		sale.PaidAmount = applied
	}
	sale.RemainingAmount = sale.TotalAmount - sale.PaidAmount
	sale.Status = model.DeriveSaleStatus(sale)

	s.sales = append(s.sales, sale)
	s.refreshCustomerStats(sale.CustomerID)

	if err := s.persist(store.KeySales, store.KeyProducts, store.KeyCustomers); err != nil {
		return nil, err
	}
	return sale, nil
}

// RegisterPayment records an amount received against a sale, clamped so
// the paid total never exceeds the sale total.
func (s *Sales) RegisterPayment(saleID string, amount int64, date time.Time, accountID, notes string) (*model.Sale, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sale := s.findSale(saleID)
	if sale == nil {
		return nil, ErrNotFound
	}
	if sale.Status == model.SaleCancelled {
		return nil, ErrSaleCancelled
	}
	if date.IsZero() {
		date = time.Now()
	}

	applied := min(amount, sale.RemainingAmount)
	if applied > 0 {
		sale.Payments = append(sale.Payments, model.Payment{
			ID:        model.NewID(),
			Amount:    applied,
			Date:      date,
			AccountID: accountID,
			Notes:     notes,
		})
		sale.PaidAmount += applied
		sale.RemainingAmount = sale.TotalAmount - sale.PaidAmount
	}
	sale.Status = model.DeriveSaleStatus(sale)
	sale.UpdatedAt = time.Now()

	s.refreshCustomerStats(sale.CustomerID)
	if err := s.persist(store.KeySales, store.KeyCustomers); err != nil {
		return nil, err
	}
	return sale, nil
}

// CancelSale marks a sale cancelled and restores the stock it consumed.
// Payments already recorded stay on the sale for the audit trail.
func (s *Sales) CancelSale(id string) (*model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale := s.findSale(id)
	if sale == nil {
		return nil, ErrNotFound
	}
	if sale.Status == model.SaleCancelled {
		return sale, nil
	}

	s.restoreStock(sale)
	sale.Status = model.SaleCancelled
	sale.UpdatedAt = time.Now()
	s.refreshCustomerStats(sale.CustomerID)

	if err := s.persist(store.KeySales, store.KeyProducts, store.KeyCustomers); err != nil {
		return nil, err
	}
	return sale, nil
}

// DeleteSale removes a sale, restoring stock unless the sale was already
// cancelled (cancellation restored it).
func (s *Sales) DeleteSale(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale := s.findSale(id)
	if sale == nil {
		return ErrNotFound
	}
	if sale.Status != model.SaleCancelled {
		s.restoreStock(sale)
	}
	customerID := sale.CustomerID
	s.sales = filterSlice(s.sales, func(x *model.Sale) bool { return x.ID != id })
	s.refreshCustomerStats(customerID)

	return s.persist(store.KeySales, store.KeyProducts, store.KeyCustomers)
}

func (s *Sales) restoreStock(sale *model.Sale) {
	now := time.Now()
	for _, item := range sale.Items {
		if p := s.findProduct(item.ProductID); p != nil {
			p.Stock += item.Quantity
			p.TotalSold -= item.Quantity
			p.UpdatedAt = now
		}
	}
}

// --- reporting ---

// SalesStats summarizes a business's sales.
type SalesStats struct {
	Count       int
	Revenue     int64
	Outstanding int64
}

func (s *Sales) Stats(businessID string) SalesStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats SalesStats
	for _, sale := range s.sales {
		if businessID != "" && sale.BusinessID != businessID {
			continue
		}
		if sale.Status == model.SaleCancelled {
			continue
		}
		stats.Count++
		stats.Revenue += sale.PaidAmount
		stats.Outstanding += sale.RemainingAmount
	}
	return stats
}

// Purge drops every record owned by a business. Used by the business
// delete cascade.
func (s *Sales) Purge(businessID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sales = filterSlice(s.sales, func(x *model.Sale) bool { return x.BusinessID != businessID })
	s.customers = filterSlice(s.customers, func(c *model.Customer) bool { return c.BusinessID != businessID })
	s.products = filterSlice(s.products, func(p *model.Product) bool { return p.BusinessID != businessID })

	return s.persist(store.KeySales, store.KeyCustomers, store.KeyProducts)
}

func (s *Sales) persist(keys ...string) error {
	for _, key := range keys {
		var v any
		switch key {
		case store.KeySales:
			v = s.sales
		case store.KeyCustomers:
			v = s.customers
		case store.KeyProducts:
			v = s.products
		case store.KeyProductCategories:
			v = s.productCategories
		}
		if err := s.store.Set(key, v); err != nil {
			return err
		}
	}
	return nil
}
