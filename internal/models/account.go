package models

import (
	"github.com/shopspring/decimal"
)

// AccountClassification defines the fundamental accounting type of an account.
type AccountClassification string

const (
	Asset     AccountClassification = "ASSET"
	Liability AccountClassification = "LIABILITY"
	Equity    AccountClassification = "EQUITY"
	Revenue   AccountClassification = "REVENUE"
	Expense   AccountClassification = "EXPENSE"
)

// Account represents a row of the accounts table.
// Note: ParentAccountID uses string for nullable foreign key; DB handling may vary.
type Account struct {
	AccountID       string                `db:"account_id"`
	CompanyID       string                `db:"company_id"`
	Code            string                `db:"code"` // User-facing code, unique per company
	Name            string                `db:"name"`
	Classification  AccountClassification `db:"classification"`
	Nature          string                `db:"nature"`
	CurrencyPolicy  string                `db:"currency_policy"`
	CurrencyCode    string                `db:"currency_code"` // Only meaningful when currency_policy = FIXED
	ParentAccountID string                `db:"parent_account_id"` // Nullable
	Description     string                `db:"description"`
	IsSystem        bool                  `db:"is_system"`
	IsActive        bool                  `db:"is_active"`
	AuditFields
	Balance decimal.Decimal `db:"balance"` // Persisted running balance in base currency
}
