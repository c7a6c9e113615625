package vouchertypes

import (
	"github.com/shopspring/decimal"

	"github.com/openbooks/openbooks-backend/internal/core/domain"
	"github.com/openbooks/openbooks-backend/internal/utils/money"
)

// JournalEntryHandler handles free-form journal entries: any mix of debit and
// credit lines as long as they balance.
type JournalEntryHandler struct {
	base
}

// NewJournalEntryHandler creates the handler for general journal entries.
func NewJournalEntryHandler(precision *money.Service) *JournalEntryHandler {
	return &JournalEntryHandler{base{precision: precision, balanceError: defaultBalanceError}}
}

var _ Handler = (*JournalEntryHandler)(nil)

func (h *JournalEntryHandler) Type() domain.VoucherType {
	return domain.TypeJournalEntry
}

func (h *JournalEntryHandler) Validate(in Input) error {
	return h.validate(in)
}

func (h *JournalEntryHandler) CreateLines(in Input, baseCurrencyCode string, exchangeRate decimal.Decimal) ([]domain.VoucherLine, error) {
	return h.createLines(in, baseCurrencyCode, exchangeRate)
}

func (h *JournalEntryHandler) PostingDescription() string {
	return "General journal entry: posts each line to its account as entered, debits and credits balancing in the base currency."
}
