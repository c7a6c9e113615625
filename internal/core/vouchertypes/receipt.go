package vouchertypes

import (
	"github.com/shopspring/decimal"

	"github.com/openbooks/openbooks-backend/internal/core/domain"
	"github.com/openbooks/openbooks-backend/internal/utils/money"
)

// ReceiptHandler handles incoming receipts: money arrives in a cash or bank
// account (debit) against revenue or receivable accounts (credit).
type ReceiptHandler struct {
	base
}

// NewReceiptHandler creates the handler for receipt vouchers.
func NewReceiptHandler(precision *money.Service) *ReceiptHandler {
	return &ReceiptHandler{base{precision: precision, balanceError: defaultBalanceError}}
}

var _ Handler = (*ReceiptHandler)(nil)

func (h *ReceiptHandler) Type() domain.VoucherType {
	return domain.TypeReceipt
}

func (h *ReceiptHandler) Validate(in Input) error {
	return h.validate(in)
}

func (h *ReceiptHandler) CreateLines(in Input, baseCurrencyCode string, exchangeRate decimal.Decimal) ([]domain.VoucherLine, error) {
	return h.createLines(in, baseCurrencyCode, exchangeRate)
}

func (h *ReceiptHandler) PostingDescription() string {
	return "Receipt: debits the receiving cash/bank account and credits the revenue or receivable accounts."
}
