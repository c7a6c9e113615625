package vouchertypes

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/openbooks/openbooks-backend/internal/apperrors"
	"github.com/openbooks/openbooks-backend/internal/core/domain"
	"github.com/openbooks/openbooks-backend/internal/utils/money"
)

// OpeningBalanceHandler seeds account balances at the start of a fiscal
// period. The arithmetic is the standard debit/credit balance check, but a
// failure is reported in terms of the accounting equation because that is how
// the user thinks about an opening balance sheet.
type OpeningBalanceHandler struct {
	base
}

// NewOpeningBalanceHandler creates the handler for opening balance vouchers.
func NewOpeningBalanceHandler(precision *money.Service) *OpeningBalanceHandler {
	h := &OpeningBalanceHandler{}
	h.base = base{precision: precision, balanceError: openingBalanceError}
	return h
}

var _ Handler = (*OpeningBalanceHandler)(nil)

func openingBalanceError(debitSum, creditSum decimal.Decimal) error {
	return fmt.Errorf("%w: Opening balances not balanced: Assets = Liabilities + Equity must hold (debits %s, credits %s)",
		apperrors.ErrValidation, debitSum.String(), creditSum.String())
}

func (h *OpeningBalanceHandler) Type() domain.VoucherType {
	return domain.TypeOpeningBalance
}

func (h *OpeningBalanceHandler) Validate(in Input) error {
	return h.validate(in)
}

func (h *OpeningBalanceHandler) CreateLines(in Input, baseCurrencyCode string, exchangeRate decimal.Decimal) ([]domain.VoucherLine, error) {
	return h.createLines(in, baseCurrencyCode, exchangeRate)
}

func (h *OpeningBalanceHandler) PostingDescription() string {
	return "Opening balance: debits asset balances and credits liabilities and equity so that Assets = Liabilities + Equity."
}
