package store

// Collection keys. Each key holds one JSON array of records, mirroring the
// sheet it round-trips with. Metadata keys hold scalars.
const (
	KeyBusinesses        = "businesses"
	KeyTransactions      = "transactions"
	KeyAccounts          = "accounts"
	KeyCategories        = "categories"
	KeyBudgets           = "budgets"
	KeyInvestments       = "investments"
	KeyDebts             = "debts"
	KeyGoals             = "goals"
	KeySales             = "sales"
	KeyCustomers         = "customers"
	KeyProducts          = "products"
	KeyProductCategories = "productCategories"
	KeyDebtors           = "debtors"

	KeyCurrentBusiness = "currentBusinessId"
	KeyLastSync        = "lastSyncTimestamp"
	KeySettings        = "settings"
)

// CollectionKeys lists every synced collection in the order imports process
// them. Businesses come first so the rest can resolve their owner.
var CollectionKeys = []string{
	KeyBusinesses,
	KeyTransactions,
	KeyAccounts,
	KeyCategories,
	KeyBudgets,
	KeyInvestments,
	KeyDebts,
	KeyGoals,
	KeySales,
	KeyCustomers,
	KeyProducts,
	KeyProductCategories,
	KeyDebtors,
}
