package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrTooFewLines is returned by NewVoucher when fewer than two lines are supplied.
var ErrTooFewLines = errors.New("voucher must have at least 2 lines")

// ImbalanceError reports that debit and credit totals differ beyond the base
// currency's rounding epsilon. If handler validation already ran, this indicates
// a caller bug rather than bad end-user input.
type ImbalanceError struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("voucher is not balanced: total debit %s, total credit %s",
		e.TotalDebit.String(), e.TotalCredit.String())
}

// TotalMismatchError reports that supplied totals do not equal the computed sums.
type TotalMismatchError struct {
	Field    string // "totalDebit" or "totalCredit"
	Supplied decimal.Decimal
	Computed decimal.Decimal
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("supplied %s %s does not match computed sum %s",
		e.Field, e.Supplied.String(), e.Computed.String())
}

// CurrencyMismatchError reports a line whose currency pair differs from the voucher's.
type CurrencyMismatchError struct {
	LineID           int
	LineCurrency     string
	LineBaseCurrency string
	VoucherCurrency  string
	BaseCurrency     string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("line %d currency %s/%s does not match voucher currency %s/%s",
		e.LineID, e.LineCurrency, e.LineBaseCurrency, e.VoucherCurrency, e.BaseCurrency)
}

// InvalidTransitionError reports a state machine violation; it names the voucher's
// actual current status so callers can surface it directly.
type InvalidTransitionError struct {
	Action string
	From   VoucherStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s voucher in status %s", e.Action, e.From)
}
