package service

import (
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/hvescovi/finsync/internal/model"
	"github.com/hvescovi/finsync/internal/store"
)

// Debtors manages installment-based receivables.
type Debtors struct {
	store  *store.Store
	logger *log.Logger

	mu      sync.Mutex
	debtors []*model.Debtor
}

// NewDebtors creates the debtors service and loads its collection.
func NewDebtors(st *store.Store, logger *log.Logger) (*Debtors, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "[debtors] ", log.LstdFlags)
	}
	d := &Debtors{store: st, logger: logger}
	if err := d.Reload(); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload replaces the in-memory collection with whatever the store holds.
func (d *Debtors) Reload() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.debtors = nil
	_, err := d.store.Load(store.KeyDebtors, &d.debtors)
	return err
}

// DebtorInput holds the fields accepted when registering a debtor.
type DebtorInput struct {
	BusinessID   string
	Name         string
	Email        string
	Phone        string
	Document     string
	Address      string
	TotalAmount  int64
	InterestRate float64
	DueDate      time.Time
	Installments int
	Description  string
	Notes        string
}

func (d *Debtors) Debtors(businessID string) []*model.Debtor {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*model.Debtor
	for _, deb := range d.debtors {
		if businessID == "" || deb.BusinessID == businessID {
			out = append(out, deb)
		}
	}
	return out
}

func (d *Debtors) ByID(id string) (*model.Debtor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if deb := d.find(id); deb != nil {
		return deb, nil
	}
	return nil, ErrNotFound
}

func (d *Debtors) find(id string) *model.Debtor {
	for _, deb := range d.debtors {
		if deb.ID == id {
			return deb
		}
	}
	return nil
}

// Create registers a debtor, building an installment schedule when a count
// is given.
func (d *Debtors) Create(in DebtorInput) (*model.Debtor, error) {
	if in.TotalAmount <= 0 {
		return nil, ErrInvalidAmount
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	if in.DueDate.IsZero() {
		in.DueDate = now.AddDate(0, 1, 0)
	}
	deb := &model.Debtor{
		ID:              model.NewID(),
		BusinessID:      in.BusinessID,
		Name:            in.Name,
		Email:           in.Email,
		Phone:           in.Phone,
		Document:        in.Document,
		Address:         in.Address,
		TotalAmount:     in.TotalAmount,
		RemainingAmount: in.TotalAmount,
		InterestRate:    in.InterestRate,
		DueDate:         in.DueDate,
		Description:     in.Description,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.Installments > 0 {
		deb.Installments = model.BuildInstallments(in.TotalAmount, in.Installments, in.DueDate)
	}
	deb.Status = model.DeriveDebtorStatus(deb, now)

	d.debtors = append(d.debtors, deb)
	if err := d.store.Set(store.KeyDebtors, d.debtors); err != nil {
		return nil, err
	}
	return deb, nil
}

// RegisterPayment applies an amount to a debtor, clamped so the paid total
// never exceeds the total owed. With an installment ID the amount targets
// that slice first; the rest cascades oldest-first.
func (d *Debtors) RegisterPayment(debtorID string, amount int64, date time.Time, installmentID, notes string) (*model.Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	deb := d.find(debtorID)
	if deb == nil {
		return nil, ErrNotFound
	}
	if date.IsZero() {
		date = time.Now()
	}

	applied := min(amount, deb.RemainingAmount)
	if applied <= 0 {
		return nil, ErrInvalidAmount
	}

	left := applied
	if installmentID != "" {
		for i := range deb.Installments {
			ins := &deb.Installments[i]
			if ins.ID != installmentID {
				continue
			}
			pay := min(ins.Amount-ins.PaidAmount, left)
			if pay > 0 {
				ins.PaidAmount += pay
				left -= pay
				if ins.PaidAmount >= ins.Amount {
					pd := date
					ins.PaidDate = &pd
				}
				ins.Status = model.DeriveInstallmentStatus(ins)
			}
			break
		}
	}
	model.ApplyToSchedule(deb.Installments, left, date)

	p := model.Payment{
		ID:            model.NewID(),
		Amount:        applied,
		Date:          date,
		InstallmentID: installmentID,
		Notes:         notes,
	}
	deb.Payments = append(deb.Payments, p)
	deb.PaidAmount += applied
	deb.RemainingAmount = deb.TotalAmount - deb.PaidAmount
	deb.Status = model.DeriveDebtorStatus(deb, time.Now())
	deb.UpdatedAt = time.Now()

	if err := d.store.Set(store.KeyDebtors, d.debtors); err != nil {
		return nil, err
	}
	return &p, nil
}

// RemovePayment deletes a recorded payment and rebuilds the schedule from
// the remaining payments so installment allocation stays consistent.
func (d *Debtors) RemovePayment(debtorID, paymentID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	deb := d.find(debtorID)
	if deb == nil {
		return ErrNotFound
	}

	before := len(deb.Payments)
	deb.Payments = filterSlice(deb.Payments, func(p model.Payment) bool { return p.ID != paymentID })
	if len(deb.Payments) == before {
		return ErrNotFound
	}

	// Reset and replay the remaining payments in date order.
	for i := range deb.Installments {
		deb.Installments[i].PaidAmount = 0
		deb.Installments[i].PaidDate = nil
		deb.Installments[i].Status = model.InstallmentPending
	}
	replay := append([]model.Payment(nil), deb.Payments...)
	sort.Slice(replay, func(i, j int) bool { return replay[i].Date.Before(replay[j].Date) })

	deb.PaidAmount = 0
	for _, p := range replay {
		model.ApplyToSchedule(deb.Installments, p.Amount, p.Date)
		deb.PaidAmount += p.Amount
	}
	deb.RemainingAmount = deb.TotalAmount - deb.PaidAmount
	if deb.RemainingAmount < 0 {
		deb.RemainingAmount = 0
	}
	deb.Status = model.DeriveDebtorStatus(deb, time.Now())
	deb.UpdatedAt = time.Now()

	return d.store.Set(store.KeyDebtors, d.debtors)
}

// Delete removes a debtor outright.
func (d *Debtors) Delete(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	before := len(d.debtors)
	d.debtors = filterSlice(d.debtors, func(x *model.Debtor) bool { return x.ID != id })
	if len(d.debtors) == before {
		return ErrNotFound
	}
	return d.store.Set(store.KeyDebtors, d.debtors)
}

// RefreshStatuses rederives every debtor's status against the current
// time. The daemon runs this so overdue and defaulted states appear
// without a mutation.
func (d *Debtors) RefreshStatuses(now time.Time) (changed int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, deb := range d.debtors {
		next := model.DeriveDebtorStatus(deb, now)
		if next != deb.Status {
			deb.Status = next
			deb.UpdatedAt = now
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, d.store.Set(store.KeyDebtors, d.debtors)
}

// Overdue lists debtors currently overdue or defaulted.
func (d *Debtors) Overdue(businessID string, now time.Time) []*model.Debtor {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []*model.Debtor
	for _, deb := range d.debtors {
		if businessID != "" && deb.BusinessID != businessID {
			continue
		}
		switch model.DeriveDebtorStatus(deb, now) {
		case model.DebtorOverdue, model.DebtorDefaulted:
			out = append(out, deb)
		}
	}
	return out
}

// ReceivablesStats summarizes a business's receivables.
type ReceivablesStats struct {
	Debtors     int
	Total       int64
	Received    int64
	Outstanding int64
}

func (d *Debtors) Stats(businessID string) ReceivablesStats {
	d.mu.Lock()
	defer d.mu.Unlock()

	var stats ReceivablesStats
	for _, deb := range d.debtors {
		if businessID != "" && deb.BusinessID != businessID {
			continue
		}
		stats.Debtors++
		stats.Total += deb.TotalAmount
		stats.Received += deb.PaidAmount
		stats.Outstanding += deb.RemainingAmount
	}
	return stats
}

// Purge drops every debtor owned by a business.
func (d *Debtors) Purge(businessID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.debtors = filterSlice(d.debtors, func(x *model.Debtor) bool { return x.BusinessID != businessID })
	return d.store.Set(store.KeyDebtors, d.debtors)
}
