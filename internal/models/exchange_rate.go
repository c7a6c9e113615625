package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate represents a row of the exchange_rates table. Rates are scoped
// to a company; lookups pick the latest rate effective on or before a date.
type ExchangeRate struct {
	ExchangeRateID   string          `db:"exchange_rate_id"`
	CompanyID        string          `db:"company_id"`
	FromCurrencyCode string          `db:"from_currency_code"`
	ToCurrencyCode   string          `db:"to_currency_code"`
	Rate             decimal.Decimal `db:"rate"`
	DateEffective    time.Time       `db:"date_effective"`
	AuditFields
}
