package codec

import (
	"testing"
	"time"

	"github.com/hvescovi/finsync/internal/model"
)

func TestToCents(t *testing.T) {
	tests := []struct {
		name string
		cell any
		want int64
	}{
		{"float", 10.1, 1010},
		{"float with drift", 0.29, 29},
		{"integer float", 1234.0, 123400},
		{"string", "99.99", 9999},
		{"comma decimal string", "1234,56", 123456},
		{"currency prefix", "R$ 15,50", 1550},
		{"negative", -3.33, -333},
		{"garbage", "n/a", 0},
		{"nil", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToCents(tt.cell); got != tt.want {
				t.Errorf("ToCents(%v) = %d, want %d", tt.cell, got, tt.want)
			}
		})
	}
}

func TestMoneyRoundTripExact(t *testing.T) {
	for _, cents := range []int64{0, 1, 29, 999, 1010, 123456789, -555} {
		if got := ToCents(ToMajor(cents)); got != cents {
			t.Errorf("round trip of %d cents came back as %d", cents, got)
		}
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	in := &model.Transaction{
		ID:          "tx-1",
		BusinessID:  "biz-1",
		Type:        model.TypeIncome,
		Amount:      1099,
		Description: "consulting",
		Date:        date,
		CategoryID:  "cat-1",
		AccountID:   "acc-1",
		Status:      model.TransactionPaid,
		Recurring:   true,
		Tags:        []string{"work", "urgent"},
		CreatedAt:   date,
		UpdatedAt:   date,
	}

	out, ok := DecodeTransaction(Headers(SheetTransactions), EncodeTransaction(in))
	if !ok {
		t.Fatal("decode dropped a valid row")
	}
	if out.ID != in.ID || out.BusinessID != in.BusinessID || out.Type != in.Type {
		t.Errorf("identity fields mismatch: %+v", out)
	}
	if out.Amount != in.Amount {
		t.Errorf("amount came back as %d cents, want %d", out.Amount, in.Amount)
	}
	if !out.Date.Equal(in.Date) {
		t.Errorf("date came back as %v, want %v", out.Date, in.Date)
	}
	if len(out.Tags) != 2 || out.Tags[0] != "work" {
		t.Errorf("tags came back as %v", out.Tags)
	}
	if !out.Recurring || out.Status != model.TransactionPaid {
		t.Errorf("flags mismatch: %+v", out)
	}
}

func TestDecodeToleratesLegacyHeaders(t *testing.T) {
	headers := []string{"id", "Valor", "Tipo", "Descrição", "Data", "Status"}
	cells := []any{"tx-2", "150,75", "receita", "venda avulsa", "2026-01-05", "pago"}

	tx, ok := DecodeTransaction(headers, cells)
	if !ok {
		t.Fatal("decode dropped a row with legacy headers")
	}
	if tx.Amount != 15075 {
		t.Errorf("amount = %d, want 15075", tx.Amount)
	}
	if tx.Type != model.TypeIncome {
		t.Errorf("type = %q, want income", tx.Type)
	}
	if tx.Description != "venda avulsa" {
		t.Errorf("description = %q", tx.Description)
	}
	if tx.Status != model.TransactionPaid {
		t.Errorf("status = %q, want paid", tx.Status)
	}
}

func TestDecodeDropsRowsWithoutID(t *testing.T) {
	headers := Headers(SheetTransactions)
	blank := make([]any, len(headers))
	if _, ok := DecodeTransaction(headers, blank); ok {
		t.Error("blank row was not dropped")
	}
	if _, ok := DecodeTransaction(headers, []any{"", "biz", "income", 10.0}); ok {
		t.Error("row with empty ID was not dropped")
	}
}

func TestDecodeMalformedDateFallsBack(t *testing.T) {
	headers := []string{"ID", "Amount", "Date"}
	before := time.Now()
	tx, ok := DecodeTransaction(headers, []any{"tx-3", 5.0, "not a date"})
	if !ok {
		t.Fatal("decode dropped the row")
	}
	if tx.Date.Before(before.Add(-time.Minute)) {
		t.Errorf("malformed date should fall back to now, got %v", tx.Date)
	}
}

func TestDecodeDebtorSynthesizesInstallments(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	headers := []string{"ID", "Name", "Total", "Paid", "DueDate", "Installments"}
	cells := []any{"deb-1", "Alice", 1000.0, 400.0, "2026-06-01", 3.0}

	d, ok := DecodeDebtor(headers, cells, now)
	if !ok {
		t.Fatal("decode dropped the row")
	}
	if len(d.Installments) != 3 {
		t.Fatalf("synthesized %d installments, want 3", len(d.Installments))
	}
	var sum int64
	for _, ins := range d.Installments {
		sum += ins.Amount
	}
	if sum != 100000 {
		t.Errorf("installments sum to %d cents, want 100000", sum)
	}
	if !d.Installments[0].DueDate.Equal(due) {
		t.Errorf("first due %v, want %v", d.Installments[0].DueDate, due)
	}
	// 400.00 of 333.34 + 333.34 + 333.32: first slice settles, second partial.
	if d.Installments[0].Status != model.InstallmentPaid {
		t.Errorf("first installment status %q, want paid", d.Installments[0].Status)
	}
	if d.Installments[1].Status != model.InstallmentPartial {
		t.Errorf("second installment status %q, want partial", d.Installments[1].Status)
	}
	if d.RemainingAmount != 60000 {
		t.Errorf("remaining = %d, want 60000", d.RemainingAmount)
	}
}

func TestDecodeDebtorKeepsNestedSchedule(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	headers := []string{"ID", "Name", "Total", "Paid", "Installments"}
	nested := `[{"id":"i1","number":1,"amount":50000,"dueDate":"2026-06-01T00:00:00Z","paidAmount":0,"status":"pending"}]`
	cells := []any{"deb-2", "Bob", 500.0, 0.0, nested}

	d, ok := DecodeDebtor(headers, cells, now)
	if !ok {
		t.Fatal("decode dropped the row")
	}
	if len(d.Installments) != 1 || d.Installments[0].ID != "i1" {
		t.Errorf("nested schedule not preserved: %+v", d.Installments)
	}
}

func TestEncodeHeadersAlign(t *testing.T) {
	sale := &model.Sale{ID: "s1", TotalAmount: 100, Date: time.Now()}
	if got, want := len(EncodeSale(sale)), len(Headers(SheetSales)); got != want {
		t.Errorf("sale row has %d cells for %d headers", got, want)
	}
	debtor := &model.Debtor{ID: "d1"}
	if got, want := len(EncodeDebtor(debtor)), len(Headers(SheetDebtors)); got != want {
		t.Errorf("debtor row has %d cells for %d headers", got, want)
	}
	biz := &model.Business{ID: "b1"}
	if got, want := len(EncodeBusiness(biz)), len(Headers(SheetBusinesses)); got != want {
		t.Errorf("business row has %d cells for %d headers", got, want)
	}
}
