package service

import (
	"testing"
	"time"

	"github.com/hvescovi/finsync/internal/model"
)

func testDebtors(t *testing.T) *Debtors {
	t.Helper()
	d, err := NewDebtors(testStore(t), testLogger())
	if err != nil {
		t.Fatalf("NewDebtors() error: %v", err)
	}
	return d
}

func TestCreateDebtorBuildsSchedule(t *testing.T) {
	d := testDebtors(t)
	due := time.Now().AddDate(0, 1, 0)

	deb, err := d.Create(DebtorInput{
		BusinessID: "biz-1", Name: "Alice",
		TotalAmount: 100000, Installments: 3, DueDate: due,
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if len(deb.Installments) != 3 {
		t.Fatalf("schedule has %d installments, want 3", len(deb.Installments))
	}
	var sum int64
	for _, ins := range deb.Installments {
		sum += ins.Amount
	}
	if sum != 100000 {
		t.Errorf("schedule sums to %d, want 100000", sum)
	}
	if deb.Status != model.DebtorActive {
		t.Errorf("status = %q, want active", deb.Status)
	}
}

func TestRegisterPaymentKeepsAmountInvariant(t *testing.T) {
	d := testDebtors(t)
	deb, _ := d.Create(DebtorInput{
		BusinessID: "biz-1", Name: "Alice",
		TotalAmount: 50000, Installments: 2,
		DueDate: time.Now().AddDate(0, 1, 0),
	})

	if _, err := d.RegisterPayment(deb.ID, 20000, time.Now(), "", ""); err != nil {
		t.Fatalf("RegisterPayment() error: %v", err)
	}
	if deb.TotalAmount-deb.PaidAmount != deb.RemainingAmount {
		t.Errorf("amount invariant broken: total=%d paid=%d remaining=%d",
			deb.TotalAmount, deb.PaidAmount, deb.RemainingAmount)
	}
	if deb.Status != model.DebtorPartial {
		t.Errorf("status = %q, want partial", deb.Status)
	}

	// First installment (25000) took 20000.
	if deb.Installments[0].PaidAmount != 20000 {
		t.Errorf("first installment paid = %d, want 20000", deb.Installments[0].PaidAmount)
	}
	if deb.Installments[0].Status != model.InstallmentPartial {
		t.Errorf("first installment status = %q", deb.Installments[0].Status)
	}
}

func TestOverpaymentClamps(t *testing.T) {
	d := testDebtors(t)
	deb, _ := d.Create(DebtorInput{
		BusinessID: "biz-1", Name: "Alice",
		TotalAmount: 30000, DueDate: time.Now().AddDate(0, 1, 0),
	})

	p, err := d.RegisterPayment(deb.ID, 99999, time.Now(), "", "")
	if err != nil {
		t.Fatalf("RegisterPayment() error: %v", err)
	}
	if p.Amount != 30000 {
		t.Errorf("recorded payment = %d, want clamped 30000", p.Amount)
	}
	if deb.PaidAmount != 30000 || deb.RemainingAmount != 0 {
		t.Errorf("paid=%d remaining=%d after overpayment", deb.PaidAmount, deb.RemainingAmount)
	}
	if deb.TotalAmount-deb.PaidAmount != deb.RemainingAmount {
		t.Error("amount invariant broken after clamp")
	}
	if deb.Status != model.DebtorPaid {
		t.Errorf("status = %q, want paid", deb.Status)
	}

	// Nothing left to pay.
	if _, err := d.RegisterPayment(deb.ID, 1, time.Now(), "", ""); err == nil {
		t.Error("payment against settled debtor succeeded")
	}
}

func TestTargetedInstallmentPayment(t *testing.T) {
	d := testDebtors(t)
	deb, _ := d.Create(DebtorInput{
		BusinessID: "biz-1", Name: "Alice",
		TotalAmount: 60000, Installments: 3,
		DueDate: time.Now().AddDate(0, 1, 0),
	})
	second := deb.Installments[1].ID

	if _, err := d.RegisterPayment(deb.ID, 20000, time.Now(), second, ""); err != nil {
		t.Fatalf("RegisterPayment() error: %v", err)
	}
	if deb.Installments[1].Status != model.InstallmentPaid {
		t.Errorf("targeted installment status = %q, want paid", deb.Installments[1].Status)
	}
	if deb.Installments[0].PaidAmount != 0 {
		t.Errorf("first installment was touched: paid=%d", deb.Installments[0].PaidAmount)
	}
}

func TestRemovePaymentReplaysSchedule(t *testing.T) {
	d := testDebtors(t)
	deb, _ := d.Create(DebtorInput{
		BusinessID: "biz-1", Name: "Alice",
		TotalAmount: 60000, Installments: 3,
		DueDate: time.Now().AddDate(0, 1, 0),
	})

	first, _ := d.RegisterPayment(deb.ID, 20000, time.Now(), "", "")
	if _, err := d.RegisterPayment(deb.ID, 10000, time.Now().Add(time.Hour), "", ""); err != nil {
		t.Fatalf("RegisterPayment() error: %v", err)
	}

	if err := d.RemovePayment(deb.ID, first.ID); err != nil {
		t.Fatalf("RemovePayment() error: %v", err)
	}
	if deb.PaidAmount != 10000 {
		t.Errorf("paid after removal = %d, want 10000", deb.PaidAmount)
	}
	if deb.RemainingAmount != 50000 {
		t.Errorf("remaining after removal = %d, want 50000", deb.RemainingAmount)
	}
	if deb.Installments[0].PaidAmount != 10000 {
		t.Errorf("replayed first installment paid = %d, want 10000", deb.Installments[0].PaidAmount)
	}
	if deb.Installments[1].PaidAmount != 0 {
		t.Errorf("second installment paid = %d, want 0", deb.Installments[1].PaidAmount)
	}
}

func TestRefreshStatusesFlagsOverdue(t *testing.T) {
	d := testDebtors(t)
	deb, _ := d.Create(DebtorInput{
		BusinessID: "biz-1", Name: "Alice",
		TotalAmount: 10000, DueDate: time.Now().AddDate(0, 1, 0),
	})
	if deb.Status != model.DebtorActive {
		t.Fatalf("status = %q, want active", deb.Status)
	}

	// A refresh run past the due date flips the status without any
	// payment activity.
	future := time.Now().AddDate(0, 3, 0)
	changed, err := d.RefreshStatuses(future)
	if err != nil {
		t.Fatalf("RefreshStatuses() error: %v", err)
	}
	if changed != 1 {
		t.Errorf("changed = %d, want 1", changed)
	}
	if deb.Status != model.DebtorDefaulted {
		t.Errorf("status = %q, want defaulted", deb.Status)
	}
}

func TestPurgeDropsOnlyOneBusiness(t *testing.T) {
	d := testDebtors(t)
	d.Create(DebtorInput{BusinessID: "biz-1", Name: "A", TotalAmount: 100})
	d.Create(DebtorInput{BusinessID: "biz-2", Name: "B", TotalAmount: 100})

	if err := d.Purge("biz-1"); err != nil {
		t.Fatalf("Purge() error: %v", err)
	}
	if got := d.Debtors(""); len(got) != 1 || got[0].BusinessID != "biz-2" {
		t.Errorf("debtors after purge = %+v", got)
	}
}
