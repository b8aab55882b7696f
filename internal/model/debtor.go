package model

import "time"

// Installment is one slice of a debtor's schedule. Due dates advance by
// calendar months from the first installment.
type Installment struct {
	ID         string     `json:"id"`
	Number     int        `json:"number"`
	Amount     int64      `json:"amount"`
	DueDate    time.Time  `json:"dueDate"`
	PaidAmount int64      `json:"paidAmount"`
	PaidDate   *time.Time `json:"paidDate,omitempty"`
	Status     string     `json:"status"`
}

// Debtor is money owed to the business, split into installments.
type Debtor struct {
	ID              string        `json:"id"`
	BusinessID      string        `json:"businessId"`
	Name            string        `json:"name"`
	Email           string        `json:"email,omitempty"`
	Phone           string        `json:"phone,omitempty"`
	Document        string        `json:"document,omitempty"`
	Address         string        `json:"address,omitempty"`
	TotalAmount     int64         `json:"totalAmount"`
	PaidAmount      int64         `json:"paidAmount"`
	RemainingAmount int64         `json:"remainingAmount"`
	InterestRate    float64       `json:"interestRate,omitempty"`
	DueDate         time.Time     `json:"dueDate"`
	Installments    []Installment `json:"installments,omitempty"`
	Description     string        `json:"description,omitempty"`
	Status          string        `json:"status"`
	Payments        []Payment     `json:"payments,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// BuildInstallments splits total evenly into count monthly installments
// starting at firstDue. Each installment gets the ceiling share and the
// last one absorbs the rounding difference, so the amounts always sum to
// total exactly.
func BuildInstallments(total int64, count int, firstDue time.Time) []Installment {
	if count <= 0 || total <= 0 {
		return nil
	}
	share := (total + int64(count) - 1) / int64(count)
	out := make([]Installment, count)
	var allocated int64
	for i := range out {
		amount := share
		if i == count-1 {
			amount = total - allocated
		}
		allocated += amount
		out[i] = Installment{
			ID:      NewID(),
			Number:  i + 1,
			Amount:  amount,
			DueDate: firstDue.AddDate(0, i, 0),
			Status:  InstallmentPending,
		}
	}
	return out
}

// ApplyToSchedule walks the schedule in order, paying down unpaid
// installments until amount is exhausted. It returns whatever could not be
// applied. Installment statuses and paid dates are updated in place.
func ApplyToSchedule(ins []Installment, amount int64, date time.Time) int64 {
	for i := range ins {
		if amount <= 0 {
			break
		}
		owed := ins[i].Amount - ins[i].PaidAmount
		if owed <= 0 {
			continue
		}
		pay := min(owed, amount)
		ins[i].PaidAmount += pay
		amount -= pay
		if ins[i].PaidAmount >= ins[i].Amount {
			d := date
			ins[i].PaidDate = &d
		}
		ins[i].Status = DeriveInstallmentStatus(&ins[i])
	}
	return amount
}

// DeriveInstallmentStatus maps an installment's paid amount to its status.
func DeriveInstallmentStatus(ins *Installment) string {
	switch {
	case ins.Amount > 0 && ins.PaidAmount >= ins.Amount:
		return InstallmentPaid
	case ins.PaidAmount > 0:
		return InstallmentPartial
	default:
		return InstallmentPending
	}
}

// DeriveDebtorStatus computes a debtor's status at the given instant:
// paid when nothing remains; defaulted when the oldest unpaid installment
// has been overdue longer than DefaultedAfter; overdue when any unpaid
// installment is past due; partial when something has been paid; otherwise
// active. Debtors without a schedule fall back to the headline due date.
func DeriveDebtorStatus(d *Debtor, now time.Time) string {
	if d.RemainingAmount <= 0 && d.TotalAmount > 0 {
		return DebtorPaid
	}
	due, overdue := oldestUnpaidDue(d)
	if overdue && now.After(due) {
		if now.Sub(due) > DefaultedAfter {
			return DebtorDefaulted
		}
		return DebtorOverdue
	}
	if d.PaidAmount > 0 {
		return DebtorPartial
	}
	return DebtorActive
}

// oldestUnpaidDue returns the earliest due date still carrying unpaid
// amount, falling back to the debtor's own due date when there is no
// installment schedule.
func oldestUnpaidDue(d *Debtor) (time.Time, bool) {
	if len(d.Installments) == 0 {
		if d.DueDate.IsZero() {
			return time.Time{}, false
		}
		return d.DueDate, true
	}
	for _, ins := range d.Installments {
		if ins.PaidAmount < ins.Amount {
			return ins.DueDate, true
		}
	}
	return time.Time{}, false
}
