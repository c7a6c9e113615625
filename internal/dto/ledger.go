package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/openbooks-backend/internal/core/domain"
)

// LedgerEntryResponse defines the data returned for a posted ledger entry.
type LedgerEntryResponse struct {
	EntryID      string          `json:"entryID"`
	VoucherID    string          `json:"voucherID"`
	LineID       int             `json:"lineID"`
	AccountID    string          `json:"accountID"`
	DebitBase    decimal.Decimal `json:"debitBase"`
	CreditBase   decimal.Decimal `json:"creditBase"`
	Amount       decimal.Decimal `json:"amount"`
	LineCurrency string          `json:"lineCurrency"`
	BaseCurrency string          `json:"baseCurrency"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	CostCenterID string          `json:"costCenterID,omitempty"`
	Date         time.Time       `json:"date"`
}

// ListLedgerEntriesParams holds query parameters for listing ledger entries.
type ListLedgerEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListLedgerEntriesResponse is a page of ledger entries with a continuation token.
type ListLedgerEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its response DTO.
func ToLedgerEntryResponse(e domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:      e.EntryID,
		VoucherID:    e.VoucherID,
		LineID:       e.LineID,
		AccountID:    e.AccountID,
		DebitBase:    e.DebitBase,
		CreditBase:   e.CreditBase,
		Amount:       e.Amount,
		LineCurrency: e.LineCurrency,
		BaseCurrency: e.BaseCurrency,
		ExchangeRate: e.ExchangeRate,
		CostCenterID: e.CostCenterID,
		Date:         e.Date,
	}
}

// ToLedgerEntryResponses converts a slice of domain.LedgerEntry to response DTOs.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToLedgerEntryResponse(e)
	}
	return responses
}
