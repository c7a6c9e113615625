package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry represents a row of the ledger_entries table. Rows are
// insert-only; there are no update or delete paths.
type LedgerEntry struct {
	EntryID      string          `db:"entry_id"`
	CompanyID    string          `db:"company_id"`
	VoucherID    string          `db:"voucher_id"`
	LineNo       int             `db:"line_no"`
	AccountID    string          `db:"account_id"`
	DebitBase    decimal.Decimal `db:"debit_base"`
	CreditBase   decimal.Decimal `db:"credit_base"`
	Amount       decimal.Decimal `db:"amount"`
	LineCurrency string          `db:"line_currency"`
	BaseCurrency string          `db:"base_currency"`
	ExchangeRate decimal.Decimal `db:"exchange_rate"`
	CostCenterID string          `db:"cost_center_id"` // Nullable
	EntryDate    time.Time       `db:"entry_date"`     // Voucher date, denormalized
	CreatedAt    time.Time       `db:"created_at"`
	CreatedBy    string          `db:"created_by"`
}
