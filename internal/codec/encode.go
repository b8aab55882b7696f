package codec

import "github.com/hvescovi/finsync/internal/model"

// Headers returns the canonical column set written for a sheet. Decoding
// tolerates other orders and legacy names; encoding always emits this
// layout.
func Headers(sheet string) []string {
	switch sheet {
	case SheetTransactions:
		return []string{"ID", "BusinessID", "Type", "Amount", "Description", "Date",
			"CategoryID", "AccountID", "Status", "Recurring", "Tags", "Notes",
			"CreatedAt", "UpdatedAt"}
	case SheetAccounts:
		return []string{"ID", "BusinessID", "Name", "Type", "Color", "Icon",
			"Balance", "InitialBalance", "Active", "CreatedAt", "UpdatedAt"}
	case SheetCategories:
		return []string{"ID", "BusinessID", "Name", "Icon", "Color", "Type",
			"CreatedAt", "UpdatedAt"}
	case SheetSales:
		return []string{"ID", "BusinessID", "CustomerID", "CustomerName", "Items",
			"Subtotal", "Discount", "Total", "Paid", "Remaining", "PaymentType",
			"Installments", "InstallmentValue", "DueDate", "AccountID", "Status",
			"Payments", "Notes", "Date", "CreatedAt", "UpdatedAt"}
	case SheetClients:
		return []string{"ID", "BusinessID", "Name", "Email", "Phone", "Document",
			"Address", "Notes", "TotalPurchases", "TotalSpent", "LastPurchase",
			"CreatedAt", "UpdatedAt"}
	case SheetProducts:
		return []string{"ID", "BusinessID", "Name", "Description", "Price", "Cost",
			"Stock", "Unit", "CategoryID", "Active", "TotalSold", "CreatedAt",
			"UpdatedAt"}
	case SheetDebtors:
		return []string{"ID", "BusinessID", "Name", "Email", "Phone", "Document",
			"Address", "Total", "Paid", "Remaining", "InterestRate", "DueDate",
			"Installments", "Description", "Status", "Payments", "Notes",
			"CreatedAt", "UpdatedAt"}
	case SheetDebts:
		return []string{"ID", "BusinessID", "Name", "Type", "Total", "Paid",
			"InterestRate", "Installments", "PaidInstallments", "StartDate",
			"Status", "Payments", "Notes", "CreatedAt", "UpdatedAt"}
	case SheetBudgets:
		return []string{"ID", "BusinessID", "CategoryID", "Month", "Amount",
			"CreatedAt", "UpdatedAt"}
	case SheetGoals:
		return []string{"ID", "BusinessID", "Name", "Target", "Current",
			"Deadline", "Category", "Status", "Contributions", "Notes",
			"CreatedAt", "UpdatedAt"}
	case SheetInvestments:
		return []string{"ID", "BusinessID", "Name", "Type", "InitialValue",
			"CurrentValue", "History", "StartDate", "AccountID", "Notes",
			"CreatedAt", "UpdatedAt"}
	case SheetBusinesses:
		return []string{"ID", "Name", "Description", "Type", "Active",
			"CreatedAt", "UpdatedAt"}
	default:
		return nil
	}
}

func EncodeTransaction(t *model.Transaction) []any {
	return []any{t.ID, t.BusinessID, t.Type, ToMajor(t.Amount), t.Description,
		encodeDate(t.Date), t.CategoryID, t.AccountID, t.Status, t.Recurring,
		encodeJSON(t.Tags), t.Notes, encodeDate(t.CreatedAt), encodeDate(t.UpdatedAt)}
}

func EncodeAccount(a *model.Account) []any {
	return []any{a.ID, a.BusinessID, a.Name, a.Type, a.Color, a.Icon,
		ToMajor(a.Balance), ToMajor(a.InitialBalance), a.Active,
		encodeDate(a.CreatedAt), encodeDate(a.UpdatedAt)}
}

func EncodeCategory(c *model.Category) []any {
	return []any{c.ID, c.BusinessID, c.Name, c.Icon, c.Color, c.Type,
		encodeDate(c.CreatedAt), encodeDate(c.UpdatedAt)}
}

func EncodeSale(s *model.Sale) []any {
	return []any{s.ID, s.BusinessID, s.CustomerID, s.CustomerName,
		encodeJSON(s.Items), ToMajor(s.Subtotal), ToMajor(s.Discount),
		ToMajor(s.TotalAmount), ToMajor(s.PaidAmount), ToMajor(s.RemainingAmount),
		s.PaymentType, s.Installments, ToMajor(s.InstallmentValue),
		encodeDatePtr(s.DueDate), s.AccountID, s.Status, encodeJSON(s.Payments),
		s.Notes, encodeDate(s.Date), encodeDate(s.CreatedAt), encodeDate(s.UpdatedAt)}
}

func EncodeCustomer(c *model.Customer) []any {
	return []any{c.ID, c.BusinessID, c.Name, c.Email, c.Phone, c.Document,
		c.Address, c.Notes, c.TotalPurchases, ToMajor(c.TotalSpent),
		encodeDatePtr(c.LastPurchase), encodeDate(c.CreatedAt), encodeDate(c.UpdatedAt)}
}

func EncodeProduct(p *model.Product) []any {
	return []any{p.ID, p.BusinessID, p.Name, p.Description, ToMajor(p.Price),
		ToMajor(p.Cost), p.Stock, p.Unit, p.CategoryID, p.Active, p.TotalSold,
		encodeDate(p.CreatedAt), encodeDate(p.UpdatedAt)}
}

func EncodeDebtor(d *model.Debtor) []any {
	return []any{d.ID, d.BusinessID, d.Name, d.Email, d.Phone, d.Document,
		d.Address, ToMajor(d.TotalAmount), ToMajor(d.PaidAmount),
		ToMajor(d.RemainingAmount), d.InterestRate, encodeDate(d.DueDate),
		encodeJSON(d.Installments), d.Description, d.Status,
		encodeJSON(d.Payments), d.Notes, encodeDate(d.CreatedAt), encodeDate(d.UpdatedAt)}
}

func EncodeDebt(d *model.Debt) []any {
	return []any{d.ID, d.BusinessID, d.Name, d.Type, ToMajor(d.TotalAmount),
		ToMajor(d.PaidAmount), d.InterestRate, d.Installments, d.PaidInstallments,
		encodeDate(d.StartDate), d.Status, encodeJSON(d.Payments), d.Notes,
		encodeDate(d.CreatedAt), encodeDate(d.UpdatedAt)}
}

func EncodeBudget(b *model.Budget) []any {
	return []any{b.ID, b.BusinessID, b.CategoryID, b.Month, ToMajor(b.Amount),
		encodeDate(b.CreatedAt), encodeDate(b.UpdatedAt)}
}

func EncodeGoal(g *model.Goal) []any {
	return []any{g.ID, g.BusinessID, g.Name, ToMajor(g.TargetAmount),
		ToMajor(g.CurrentAmount), encodeDatePtr(g.Deadline), g.Category,
		g.Status, encodeJSON(g.Contributions), g.Notes,
		encodeDate(g.CreatedAt), encodeDate(g.UpdatedAt)}
}

func EncodeInvestment(i *model.Investment) []any {
	return []any{i.ID, i.BusinessID, i.Name, i.Type, ToMajor(i.InitialValue),
		ToMajor(i.CurrentValue), encodeJSON(i.History), encodeDate(i.StartDate),
		i.AccountID, i.Notes, encodeDate(i.CreatedAt), encodeDate(i.UpdatedAt)}
}

func EncodeBusiness(b *model.Business) []any {
	return []any{b.ID, b.Name, b.Description, b.Type, b.Active,
		encodeDate(b.CreatedAt), encodeDate(b.UpdatedAt)}
}
