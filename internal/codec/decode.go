package codec

import (
	"strings"
	"time"

	"github.com/hvescovi/finsync/internal/model"
)

// Decoders return (record, false) for rows with no ID; such rows are
// dropped silently. Every other defect degrades to a field-level fallback.

// normalizeType maps legacy transaction type labels onto the canonical
// pair.
func normalizeType(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "receita", "entrada":
		return model.TypeIncome
	default:
		return model.TypeExpense
	}
}

func normalizePaidStatus(s, def string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paid", "pago", "paga":
		return model.TransactionPaid
	case "pending", "pendente":
		return model.TransactionPending
	default:
		return def
	}
}

func DecodeTransaction(headers []string, cells []any) (*model.Transaction, bool) {
	r := newRow(headers, cells)
	id := r.str("", "ID")
	if id == "" {
		return nil, false
	}
	now := time.Now()
	t := &model.Transaction{
		ID:          id,
		BusinessID:  r.str("", "BusinessID", "Business"),
		Type:        normalizeType(r.str("", "Type", "Tipo")),
		Amount:      r.money("Amount", "Valor", "Value"),
		Description: r.str("", "Description", "Descricao", "Descrição"),
		Date:        r.date(now, "Date", "Data"),
		CategoryID:  r.str("", "CategoryID", "Category", "Categoria"),
		AccountID:   r.str("", "AccountID", "Account", "Conta"),
		Status:      normalizePaidStatus(r.str("", "Status"), model.TransactionPaid),
		Recurring:   r.boolean(false, "Recurring", "Recorrente"),
		Notes:       r.str("", "Notes", "Observacoes", "Observações"),
		CreatedAt:   r.date(now, "CreatedAt", "Criado"),
		UpdatedAt:   r.date(now, "UpdatedAt", "Atualizado"),
	}
	if !r.jsonCell(&t.Tags, "Tags") {
		if raw := r.str("", "Tags"); raw != "" {
			for _, tag := range strings.Split(raw, ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					t.Tags = append(t.Tags, tag)
				}
			}
		}
	}
	return t, true
}

func DecodeAccount(headers []string, cells []any) (*model.Account, bool) {
	r := newRow(headers, cells)
	id := r.str("", "ID")
	if id == "" {
		return nil, false
	}
	now := time.Now()
	return &model.Account{
		ID:             id,
		BusinessID:     r.str("", "BusinessID", "Business"),
		Name:           r.str("", "Name", "Nome"),
		Type:           r.str("", "Type", "Tipo"),
		Color:          r.str("", "Color", "Cor"),
		Icon:           r.str("", "Icon", "Icone"),
		Balance:        r.money("Balance", "Saldo"),
		InitialBalance: r.money("InitialBalance", "SaldoInicial"),
		Active:         r.boolean(true, "Active", "Ativo"),
		CreatedAt:      r.date(now, "CreatedAt", "Criado"),
		UpdatedAt:      r.date(now, "UpdatedAt", "Atualizado"),
	}, true
}

func DecodeCategory(headers []string, cells []any) (*model.Category, bool) {
	r := newRow(headers, cells)
	id := r.str("", "ID")
	if id == "" {
		return nil, false
	}
	now := time.Now()
	return &model.Category{
		ID:         id,
		BusinessID: r.str("", "BusinessID", "Business"),
		Name:       r.str("", "Name", "Nome"),
		Icon:       r.str("", "Icon", "Icone"),
		Color:      r.str("", "Color", "Cor"),
		Type:       normalizeType(r.str("", "Type", "Tipo")),
		CreatedAt:  r.date(now, "CreatedAt", "Criado"),
		UpdatedAt:  r.date(now, "UpdatedAt", "Atualizado"),
	}, true
}

func DecodeSale(headers []string, cells []any) (*model.Sale, bool) {
	r := newRow(headers, cells)
	id := r.str("", "ID")
	if id == "" {
		return nil, false
	}
	now := time.Now()
	s := &model.Sale{
		ID:               id,
		BusinessID:       r.str("", "BusinessID", "Business"),
		CustomerID:       r.str("", "CustomerID", "Cliente"),
		CustomerName:     r.str("", "CustomerName", "NomeCliente"),
		Subtotal:         r.money("Subtotal"),
		Discount:         r.money("Discount", "Desconto"),
		TotalAmount:      r.money("Total", "TotalAmount", "Valor"),
		PaidAmount:       r.money("Paid", "PaidAmount", "Pago"),
		PaymentType:      r.str("", "PaymentType", "FormaPagamento"),
		Installments:     r.integer(0, "Installments", "Parcelas"),
		InstallmentValue: r.money("InstallmentValue", "ValorParcela"),
		DueDate:          r.datePtr("DueDate", "Vencimento"),
		AccountID:        r.str("", "AccountID", "Conta"),
		Notes:            r.str("", "Notes", "Observacoes", "Observações"),
		Date:             r.date(now, "Date", "Data"),
		CreatedAt:        r.date(now, "CreatedAt", "Criado"),
		UpdatedAt:        r.date(now, "UpdatedAt", "Atualizado"),
	}
	r.jsonCell(&s.Items, "Items", "Itens")
	r.jsonCell(&s.Payments, "Payments", "Pagamentos")
	s.RemainingAmount = s.TotalAmount - s.PaidAmount
	if s.RemainingAmount < 0 {
		s.RemainingAmount = 0
	}
	if strings.EqualFold(r.str("", "Status"), model.SaleCancelled) ||
		strings.EqualFold(r.str("", "Status"), "cancelada") {
		s.Status = model.SaleCancelled
	}
	s.Status = model.DeriveSaleStatus(s)
	return s, true
}

func DecodeCustomer(headers []string, cells []any) (*model.Customer, bool) {
	r := newRow(headers, cells)
	id := r.str("", "ID")
	if id == "" {
		return nil, false
	}
	now := time.Now()
	return &model.Customer{
		ID:             id,
		BusinessID:     r.str("", "BusinessID", "Business"),
		Name:           r.str("", "Name", "Nome"),
		Email:          r.str("", "Email"),
		Phone:          r.str("", "Phone", "Telefone"),
		Document:       r.str("", "Document", "Documento"),
		Address:        r.str("", "Address", "Endereco", "Endereço"),
		Notes:          r.str("", "Notes", "Observacoes", "Observações"),
		TotalPurchases: r.integer(0, "TotalPurchases", "Compras"),
		TotalSpent:     r.money("TotalSpent", "TotalGasto"),
		LastPurchase:   r.datePtr("LastPurchase", "UltimaCompra"),
		CreatedAt:      r.date(now, "CreatedAt", "Criado"),
		UpdatedAt:      r.date(now, "UpdatedAt", "Atualizado"),
	}, true
}

func DecodeProduct(headers []string, cells []any) (*model.Product, bool) {
	r := newRow(headers, cells)
	id := r.str("", "ID")
	if id == "" {
		return nil, false
	}
	now := time.Now()
	return &model.Product{
		ID:          id,
		BusinessID:  r.str("", "BusinessID", "Business"),
		Name:        r.str("", "Name", "Nome"),
		Description: r.str("", "Description", "Descricao", "Descrição"),
		Price:       r.money("Price", "Preco", "Preço"),
		Cost:        r.money("Cost", "Custo"),
		Stock:       r.integer(0, "Stock", "Estoque"),
		Unit:        r.str("", "Unit", "Unidade"),
		CategoryID:  r.str("", "CategoryID", "Category", "Categoria"),
		Active:      r.boolean(true, "Active", "Ativo"),
		TotalSold:   r.integer(0, "TotalSold", "Vendidos"),
		CreatedAt:   r.date(now, "CreatedAt", "Criado"),
		UpdatedAt:   r.date(now, "UpdatedAt", "Atualizado"),
	}, true
}

// DecodeDebtor also synthesizes an installment schedule when the sheet
// carries a bare count instead of the nested JSON array, distributing any
// recorded payments across the synthesized slices oldest-first.
func DecodeDebtor(headers []string, cells []any, now time.Time) (*model.Debtor, bool) {
	r := newRow(headers, cells)
	id := r.str("", "ID")
	if id == "" {
		return nil, false
	}
	d := &model.Debtor{
		ID:           id,
		BusinessID:   r.str("", "BusinessID", "Business"),
		Name:         r.str("", "Name", "Nome"),
		Email:        r.str("", "Email"),
		Phone:        r.str("", "Phone", "Telefone"),
		Document:     r.str("", "Document", "Documento"),
		Address:      r.str("", "Address", "Endereco", "Endereço"),
		TotalAmount:  r.money("Total", "TotalAmount", "Valor"),
		PaidAmount:   r.money("Paid", "PaidAmount", "Pago"),
		InterestRate: r.float(0, "InterestRate", "Juros"),
		DueDate:      r.date(now, "DueDate", "Vencimento"),
		Description:  r.str("", "Description", "Descricao", "Descrição"),
		Notes:        r.str("", "Notes", "Observacoes", "Observações"),
		CreatedAt:    r.date(now, "CreatedAt", "Criado"),
		UpdatedAt:    r.date(now, "UpdatedAt", "Atualizado"),
	}
	r.jsonCell(&d.Payments, "Payments", "Pagamentos")

	if !r.jsonCell(&d.Installments, "Installments", "Parcelas") {
		if count := r.integer(0, "Installments", "Parcelas"); count > 0 {
			d.Installments = model.BuildInstallments(d.TotalAmount, count, d.DueDate)
			model.ApplyToSchedule(d.Installments, d.PaidAmount, d.UpdatedAt)
		}
	}

	d.RemainingAmount = d.TotalAmount - d.PaidAmount
	if d.RemainingAmount < 0 {
		d.RemainingAmount = 0
	}
	d.Status = model.DeriveDebtorStatus(d, now)
	return d, true
}

func DecodeDebt(headers []string, cells []any) (*model.Debt, bool) {
	r := newRow(headers, cells)
	id := r.str("", "ID")
	if id == "" {
		return nil, false
	}
	now := time.Now()
	d := &model.Debt{
		ID:               id,
		BusinessID:       r.str("", "BusinessID", "Business"),
		Name:             r.str("", "Name", "Nome"),
		Type:             r.str("", "Type", "Tipo"),
		TotalAmount:      r.money("Total", "TotalAmount", "Valor"),
		PaidAmount:       r.money("Paid", "PaidAmount", "Pago"),
		InterestRate:     r.float(0, "InterestRate", "Juros"),
		Installments:     r.integer(0, "Installments", "Parcelas"),
		PaidInstallments: r.integer(0, "PaidInstallments", "ParcelasPagas"),
		StartDate:        r.date(now, "StartDate", "Inicio", "Início"),
		Notes:            r.str("", "Notes", "Observacoes", "Observações"),
		CreatedAt:        r.date(now, "CreatedAt", "Criado"),
		UpdatedAt:        r.date(now, "UpdatedAt", "Atualizado"),
	}
	r.jsonCell(&d.Payments, "Payments", "Pagamentos")
	d.RemainingAmount = d.TotalAmount - d.PaidAmount
	if d.RemainingAmount < 0 {
		d.RemainingAmount = 0
	}
	d.Status = model.DeriveDebtStatus(d)
	return d, true
}

func DecodeBudget(headers []string, cells []any) (*model.Budget, bool) {
	r := newRow(headers, cells)
	id := r.str("", "ID")
	if id == "" {
		return nil, false
	}
	now := time.Now()
	return &model.Budget{
		ID:         id,
		BusinessID: r.str("", "BusinessID", "Business"),
		CategoryID: r.str("", "CategoryID", "Category", "Categoria"),
		Month:      r.str("", "Month", "Mes", "Mês"),
		Amount:     r.money("Amount", "Valor"),
		CreatedAt:  r.date(now, "CreatedAt", "Criado"),
		UpdatedAt:  r.date(now, "UpdatedAt", "Atualizado"),
	}, true
}

func DecodeGoal(headers []string, cells []any) (*model.Goal, bool) {
	r := newRow(headers, cells)
	id := r.str("", "ID")
	if id == "" {
		return nil, false
	}
	now := time.Now()
	g := &model.Goal{
		ID:            id,
		BusinessID:    r.str("", "BusinessID", "Business"),
		Name:          r.str("", "Name", "Nome"),
		TargetAmount:  r.money("Target", "TargetAmount", "Meta"),
		CurrentAmount: r.money("Current", "CurrentAmount", "Atual"),
		Deadline:      r.datePtr("Deadline", "Prazo"),
		Category:      r.str("", "Category", "Categoria"),
		Notes:         r.str("", "Notes", "Observacoes", "Observações"),
		CreatedAt:     r.date(now, "CreatedAt", "Criado"),
		UpdatedAt:     r.date(now, "UpdatedAt", "Atualizado"),
	}
	r.jsonCell(&g.Contributions, "Contributions", "Aportes")
	g.Status = model.DeriveGoalStatus(g)
	return g, true
}

func DecodeInvestment(headers []string, cells []any) (*model.Investment, bool) {
	r := newRow(headers, cells)
	id := r.str("", "ID")
	if id == "" {
		return nil, false
	}
	now := time.Now()
	inv := &model.Investment{
		ID:           id,
		BusinessID:   r.str("", "BusinessID", "Business"),
		Name:         r.str("", "Name", "Nome"),
		Type:         r.str("", "Type", "Tipo"),
		InitialValue: r.money("InitialValue", "ValorInicial"),
		CurrentValue: r.money("CurrentValue", "ValorAtual"),
		StartDate:    r.date(now, "StartDate", "Inicio", "Início"),
		AccountID:    r.str("", "AccountID", "Conta"),
		Notes:        r.str("", "Notes", "Observacoes", "Observações"),
		CreatedAt:    r.date(now, "CreatedAt", "Criado"),
		UpdatedAt:    r.date(now, "UpdatedAt", "Atualizado"),
	}
	r.jsonCell(&inv.History, "History", "Historico", "Histórico")
	return inv, true
}

func DecodeBusiness(headers []string, cells []any) (*model.Business, bool) {
	r := newRow(headers, cells)
	id := r.str("", "ID")
	if id == "" {
		return nil, false
	}
	now := time.Now()
	return &model.Business{
		ID:          id,
		Name:        r.str("", "Name", "Nome"),
		Description: r.str("", "Description", "Descricao", "Descrição"),
		Type:        r.str("", "Type", "Tipo"),
		Active:      r.boolean(true, "Active", "Ativo"),
		CreatedAt:   r.date(now, "CreatedAt", "Criado"),
		UpdatedAt:   r.date(now, "UpdatedAt", "Atualizado"),
	}, true
}
