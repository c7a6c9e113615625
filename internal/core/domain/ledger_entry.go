package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one posted, immutable ledger record derived from a voucher
// line. Entries are created only by the posting engine and never updated or
// deleted; a correction is a new voucher produced by the reversal engine.
type LedgerEntry struct {
	EntryID      string          `json:"entryID"`
	CompanyID    string          `json:"companyID"`
	VoucherID    string          `json:"voucherID"`
	LineID       int             `json:"lineID"` // Voucher line this entry was derived from
	AccountID    string          `json:"accountID"`
	DebitBase    decimal.Decimal `json:"debitBase"`  // Base currency; zero when credit side
	CreditBase   decimal.Decimal `json:"creditBase"` // Base currency; zero when debit side
	Amount       decimal.Decimal `json:"amount"`     // Transaction currency amount
	LineCurrency string          `json:"lineCurrency"`
	BaseCurrency string          `json:"baseCurrency"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	CostCenterID string          `json:"costCenterID,omitempty"`
	Date         time.Time       `json:"date"` // Voucher date, denormalized for reporting consumers
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}

// Side derives the entry side from its base amounts.
func (e LedgerEntry) Side() Side {
	if e.DebitBase.IsPositive() {
		return Debit
	}
	return Credit
}

// BaseAmount returns whichever of the base amounts is set.
func (e LedgerEntry) BaseAmount() decimal.Decimal {
	if e.DebitBase.IsPositive() {
		return e.DebitBase
	}
	return e.CreditBase
}
