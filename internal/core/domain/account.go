package domain

import (
	"fmt"

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

// BalanceNature declares which side an account normally carries.
type BalanceNature string

const (
	NatureDebit  BalanceNature = "DEBIT"
	NatureCredit BalanceNature = "CREDIT"
	NatureBoth   BalanceNature = "BOTH"
)

// CurrencyPolicy declares how an account resolves its currency.
type CurrencyPolicy string

const (
	// CurrencyInherit means the account uses the company base currency.
	CurrencyInherit CurrencyPolicy = "INHERIT"
	// CurrencyFixed pins the account to its own CurrencyCode.
	CurrencyFixed CurrencyPolicy = "FIXED"
)

// Account represents a ledger account within a company's chart of accounts.
// Vouchers reference accounts by ID only; they never own them.
type Account struct {
	AccountID       string                `json:"accountID"`   // Primary Key (e.g., UUID)
	CompanyID       string                `json:"companyID"`   // FK -> companies.company_id (NON-NULL)
	Code            string                `json:"code"`        // User-facing account code, unique per company
	Name            string                `json:"name"`        // User-defined name
	Classification  AccountClassification `json:"classification"`
	Nature          BalanceNature         `json:"nature"`
	CurrencyPolicy  CurrencyPolicy        `json:"currencyPolicy"`
	CurrencyCode    string                `json:"currencyCode"` // Meaningful only when CurrencyPolicy is FIXED
	ParentAccountID string                `json:"parentAccountID"`
	Description     string                `json:"description"`
	IsSystem        bool                  `json:"isSystem"` // System accounts cannot be restructured
	IsActive        bool                  `json:"isActive"`
	AuditFields
	Balance decimal.Decimal `json:"balance"` // Persisted running balance in base currency
}

// Validate checks structural rules for an account definition.
func (a Account) Validate() error {
	switch a.Classification {
	case Asset, Liability, Equity, Revenue, Expense:
	default:
		return fmt.Errorf("unknown account classification %q", a.Classification)
	}
	switch a.Nature {
	case NatureDebit, NatureCredit:
	case NatureBoth:
		if a.Classification == Revenue {
			return fmt.Errorf("balance nature BOTH is not allowed for revenue accounts")
		}
	default:
		return fmt.Errorf("unknown balance nature %q", a.Nature)
	}
	if a.CurrencyPolicy == CurrencyFixed && a.CurrencyCode == "" {
		return fmt.Errorf("fixed currency policy requires a currency code")
	}
	return nil
}

// EffectiveCurrency resolves the account currency against the company base currency.
func (a Account) EffectiveCurrency(baseCurrencyCode string) string {
	if a.CurrencyPolicy == CurrencyFixed && a.CurrencyCode != "" {
		return a.CurrencyCode
	}
	return baseCurrencyCode
}
