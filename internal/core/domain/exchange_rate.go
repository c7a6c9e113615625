package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a company-scoped conversion rate between two currencies,
// used to default a voucher's exchange rate when the caller omits one.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"` // Primary Key (e.g., UUID)
	CompanyID        string          `json:"companyID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"` // FK -> Currency.currencyCode
	ToCurrencyCode   string          `json:"toCurrencyCode"`   // FK -> Currency.currencyCode
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	AuditFields
}
