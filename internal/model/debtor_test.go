package model

import (
	"testing"
	"time"
)

func TestBuildInstallmentsSumsExactly(t *testing.T) {
	firstDue := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		total int64
		count int
	}{
		{"even split", 100000, 4},
		{"remainder in last", 100000, 3},
		{"single installment", 5099, 1},
		{"tiny total", 10, 3},
		{"prime everything", 99991, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins := BuildInstallments(tt.total, tt.count, firstDue)
			if len(ins) != tt.count {
				t.Fatalf("got %d installments, want %d", len(ins), tt.count)
			}
			var sum int64
			for i, in := range ins {
				sum += in.Amount
				if in.Number != i+1 {
					t.Errorf("installment %d has number %d", i, in.Number)
				}
				wantDue := firstDue.AddDate(0, i, 0)
				if !in.DueDate.Equal(wantDue) {
					t.Errorf("installment %d due %v, want %v", i+1, in.DueDate, wantDue)
				}
				if in.Status != InstallmentPending {
					t.Errorf("installment %d status %q, want pending", i+1, in.Status)
				}
			}
			if sum != tt.total {
				t.Errorf("installments sum to %d, want %d", sum, tt.total)
			}
		})
	}
}

func TestBuildInstallmentsLastAbsorbsRemainder(t *testing.T) {
	ins := BuildInstallments(100000, 3, time.Now())
	if ins[0].Amount != 33334 || ins[1].Amount != 33334 {
		t.Errorf("leading installments = %d, %d; want 33334 each", ins[0].Amount, ins[1].Amount)
	}
	if ins[2].Amount != 33332 {
		t.Errorf("last installment = %d, want 33332", ins[2].Amount)
	}
}

func TestBuildInstallmentsDegenerate(t *testing.T) {
	if got := BuildInstallments(0, 3, time.Now()); got != nil {
		t.Errorf("zero total: got %v, want nil", got)
	}
	if got := BuildInstallments(1000, 0, time.Now()); got != nil {
		t.Errorf("zero count: got %v, want nil", got)
	}
}

func TestDeriveDebtorStatus(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	schedule := func(due time.Time, paid int64) []Installment {
		return []Installment{{Number: 1, Amount: 10000, DueDate: due, PaidAmount: paid}}
	}

	tests := []struct {
		name   string
		debtor Debtor
		want   string
	}{
		{
			name:   "fully paid",
			debtor: Debtor{TotalAmount: 10000, PaidAmount: 10000, RemainingAmount: 0},
			want:   DebtorPaid,
		},
		{
			name: "overpaid still paid",
			debtor: Debtor{TotalAmount: 10000, PaidAmount: 10000, RemainingAmount: 0,
				Installments: schedule(now.AddDate(0, -2, 0), 10000)},
			want: DebtorPaid,
		},
		{
			name: "defaulted past thirty days",
			debtor: Debtor{TotalAmount: 10000, RemainingAmount: 10000,
				Installments: schedule(now.AddDate(0, 0, -31), 0)},
			want: DebtorDefaulted,
		},
		{
			name: "overdue within thirty days",
			debtor: Debtor{TotalAmount: 10000, RemainingAmount: 10000,
				Installments: schedule(now.AddDate(0, 0, -5), 0)},
			want: DebtorOverdue,
		},
		{
			name: "partial and current",
			debtor: Debtor{TotalAmount: 10000, PaidAmount: 4000, RemainingAmount: 6000,
				Installments: schedule(now.AddDate(0, 1, 0), 4000)},
			want: DebtorPartial,
		},
		{
			name: "active with future schedule",
			debtor: Debtor{TotalAmount: 10000, RemainingAmount: 10000,
				Installments: schedule(now.AddDate(0, 1, 0), 0)},
			want: DebtorActive,
		},
		{
			name: "no schedule falls back to headline due date",
			debtor: Debtor{TotalAmount: 10000, RemainingAmount: 10000,
				DueDate: now.AddDate(0, 0, -3)},
			want: DebtorOverdue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveDebtorStatus(&tt.debtor, now); got != tt.want {
				t.Errorf("DeriveDebtorStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeriveSaleStatus(t *testing.T) {
	tests := []struct {
		name string
		sale Sale
		want string
	}{
		{"nothing paid", Sale{TotalAmount: 5000, RemainingAmount: 5000}, SalePending},
		{"partially paid", Sale{TotalAmount: 5000, PaidAmount: 2000, RemainingAmount: 3000}, SalePartial},
		{"fully paid", Sale{TotalAmount: 5000, PaidAmount: 5000, RemainingAmount: 0}, SalePaid},
		{"cancelled sticks", Sale{TotalAmount: 5000, PaidAmount: 5000, Status: SaleCancelled}, SaleCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveSaleStatus(&tt.sale); got != tt.want {
				t.Errorf("DeriveSaleStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeriveInstallmentStatus(t *testing.T) {
	tests := []struct {
		name string
		ins  Installment
		want string
	}{
		{"untouched", Installment{Amount: 1000}, InstallmentPending},
		{"partial", Installment{Amount: 1000, PaidAmount: 400}, InstallmentPartial},
		{"settled", Installment{Amount: 1000, PaidAmount: 1000}, InstallmentPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveInstallmentStatus(&tt.ins); got != tt.want {
				t.Errorf("DeriveInstallmentStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
