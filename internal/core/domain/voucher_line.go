package domain

import "github.com/shopspring/decimal"

// Side indicates whether a voucher line is a Debit or a Credit.
type Side string

const (
	Debit  Side = "DEBIT"
	Credit Side = "CREDIT"
)

// VoucherLine is one debit or credit entry within a voucher, tied to one account.
// Lines are owned by their voucher and embedded in it; LineID is sequential
// (1..n) in input order and order-significant.
type VoucherLine struct {
	LineID           int             `json:"lineID"`
	AccountID        string          `json:"accountID"` // Weak reference: lookup only
	Side             Side            `json:"side"`
	Amount           decimal.Decimal `json:"amount"`     // Transaction-currency amount, positive
	BaseAmount       decimal.Decimal `json:"baseAmount"` // Converted to voucher base currency
	CurrencyCode     string          `json:"currencyCode"`
	BaseCurrencyCode string          `json:"baseCurrencyCode"`
	ExchangeRate     decimal.Decimal `json:"exchangeRate"`
	Notes            string          `json:"notes,omitempty"`
	CostCenterID     string          `json:"costCenterID,omitempty"`
}

// IsDebit reports whether the line sits on the debit side.
func (l VoucherLine) IsDebit() bool {
	return l.Side == Debit
}
