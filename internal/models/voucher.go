package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherStatus indicates the lifecycle state of a voucher row.
type VoucherStatus string

const (
	Draft    VoucherStatus = "DRAFT"
	Approved VoucherStatus = "APPROVED"
	Locked   VoucherStatus = "LOCKED"
	Rejected VoucherStatus = "REJECTED"
)

// Voucher represents a row of the vouchers table. Lines live in the
// voucher_lines table and are loaded separately.
type Voucher struct {
	VoucherID        string          `db:"voucher_id"`
	CompanyID        string          `db:"company_id"`
	VoucherNo        string          `db:"voucher_no"`
	Type             string          `db:"voucher_type"`
	VoucherDate      time.Time       `db:"voucher_date"`
	Description      string          `db:"description"`
	CurrencyCode     string          `db:"currency_code"`
	BaseCurrencyCode string          `db:"base_currency_code"`
	ExchangeRate     decimal.Decimal `db:"exchange_rate"`
	TotalDebit       decimal.Decimal `db:"total_debit"`
	TotalCredit      decimal.Decimal `db:"total_credit"`
	Status           VoucherStatus   `db:"status"`

	OriginalVoucherID  *string `db:"original_voucher_id"`  // Nullable
	ReversingVoucherID *string `db:"reversing_voucher_id"` // Nullable

	ApprovedBy      *string    `db:"approved_by"`
	ApprovedAt      *time.Time `db:"approved_at"`
	RejectedBy      *string    `db:"rejected_by"`
	RejectionReason *string    `db:"rejection_reason"`
	LockedBy        *string    `db:"locked_by"`
	LockedAt        *time.Time `db:"locked_at"`
	AuditFields
}

// VoucherLine represents a row of the voucher_lines table. Line numbers are
// sequential per voucher and order-significant.
type VoucherLine struct {
	VoucherID        string          `db:"voucher_id"`
	LineNo           int             `db:"line_no"`
	AccountID        string          `db:"account_id"`
	Side             string          `db:"side"` // DEBIT or CREDIT
	Amount           decimal.Decimal `db:"amount"`
	BaseAmount       decimal.Decimal `db:"base_amount"`
	CurrencyCode     string          `db:"currency_code"`
	BaseCurrencyCode string          `db:"base_currency_code"`
	ExchangeRate     decimal.Decimal `db:"exchange_rate"`
	Notes            string          `db:"notes"`
	CostCenterID     string          `db:"cost_center_id"` // Nullable
}
