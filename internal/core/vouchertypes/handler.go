// Package vouchertypes contains one handler per accounting document type.
// Handlers validate raw user input and produce balanced voucher line sets;
// they never touch persistence.
package vouchertypes

import (
	"github.com/shopspring/decimal"

	"github.com/openbooks/openbooks-backend/internal/core/domain"
)

// LineInput is one raw debit/credit row as submitted by the caller.
type LineInput struct {
	AccountID    string          `json:"accountId"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Notes        string          `json:"notes,omitempty"`
	CostCenterID string          `json:"costCenterId,omitempty"`
}

// Input is the raw voucher submission a handler validates and converts.
type Input struct {
	Date         string      `json:"date"` // ISO-8601 date string
	Description  string      `json:"description"`
	CurrencyCode string      `json:"currency,omitempty"` // Defaults to the company base currency
	Lines        []LineInput `json:"lines"`
}

// Handler is the per-document-type capability: it validates raw input and
// produces the voucher line set, plus a static description for audit/help
// surfaces. Implementations are pure and stateless.
type Handler interface {
	// Type identifies the voucher type this handler serves.
	Type() domain.VoucherType

	// Validate checks the raw input and fails with a line-indexed (1-based)
	// validation error on the first violation. It runs before any aggregate
	// is built, so a failure aborts before any I/O.
	Validate(in Input) error

	// CreateLines converts validated input into voucher lines. Side comes from
	// the nonzero debit/credit, base amounts are currency-aware rounded and
	// line IDs are assigned sequentially from 1 in input order.
	CreateLines(in Input, baseCurrencyCode string, exchangeRate decimal.Decimal) ([]domain.VoucherLine, error)

	// PostingDescription documents what posting this voucher type does.
	PostingDescription() string
}
