package vouchertypes

import (
	"github.com/shopspring/decimal"

	"github.com/openbooks/openbooks-backend/internal/core/domain"
	"github.com/openbooks/openbooks-backend/internal/utils/money"
)

// PaymentHandler handles outgoing payments: money leaves a cash or bank
// account (credit) against payee or expense accounts (debit).
type PaymentHandler struct {
	base
}

// NewPaymentHandler creates the handler for payment vouchers.
func NewPaymentHandler(precision *money.Service) *PaymentHandler {
	return &PaymentHandler{base{precision: precision, balanceError: defaultBalanceError}}
}

var _ Handler = (*PaymentHandler)(nil)

func (h *PaymentHandler) Type() domain.VoucherType {
	return domain.TypePayment
}

func (h *PaymentHandler) Validate(in Input) error {
	return h.validate(in)
}

func (h *PaymentHandler) CreateLines(in Input, baseCurrencyCode string, exchangeRate decimal.Decimal) ([]domain.VoucherLine, error) {
	return h.createLines(in, baseCurrencyCode, exchangeRate)
}

func (h *PaymentHandler) PostingDescription() string {
	return "Payment: credits the paying cash/bank account and debits the payee, expense or liability accounts."
}
