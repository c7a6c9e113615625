package vouchertypes

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/openbooks-backend/internal/apperrors"
	"github.com/openbooks/openbooks-backend/internal/core/domain"
	"github.com/openbooks/openbooks-backend/internal/utils/money"
)

// dateLayout is the accepted voucher date format.
const dateLayout = "2006-01-02"

// balanceErrorFunc lets a handler reframe the shared imbalance check in its
// own vocabulary (the opening balance handler reports the accounting equation
// instead of raw debit/credit sums).
type balanceErrorFunc func(debitSum, creditSum decimal.Decimal) error

// base carries the validation and line construction shared by every handler.
type base struct {
	precision    *money.Service
	balanceError balanceErrorFunc
}

func defaultBalanceError(debitSum, creditSum decimal.Decimal) error {
	return fmt.Errorf("%w: debits (%s) and credits (%s) do not balance",
		apperrors.ErrValidation, debitSum.String(), creditSum.String())
}

// validate applies the input contract: date and description present, at least
// two lines, every line referencing an account with exactly one positive side,
// and debit/credit sums equal. Line references in messages are 1-based so the
// caller can map them straight onto its rows.
func (b base) validate(in Input) error {
	if in.Date == "" {
		return fmt.Errorf("%w: date is required", apperrors.ErrValidation)
	}
	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return fmt.Errorf("%w: date %q is not a valid ISO-8601 date", apperrors.ErrValidation, in.Date)
	}
	if in.Description == "" {
		return fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if len(in.Lines) < 2 {
		return fmt.Errorf("%w: voucher requires at least 2 lines", apperrors.ErrValidation)
	}

	debitSum := decimal.Zero
	creditSum := decimal.Zero
	for i, line := range in.Lines {
		lineNo := i + 1
		if line.AccountID == "" {
			return fmt.Errorf("%w: line %d: account is required", apperrors.ErrValidation, lineNo)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d: amounts cannot be negative", apperrors.ErrValidation, lineNo)
		}
		hasDebit := line.Debit.IsPositive()
		hasCredit := line.Credit.IsPositive()
		if hasDebit && hasCredit {
			return fmt.Errorf("%w: line %d: cannot have both debit and credit", apperrors.ErrValidation, lineNo)
		}
		if !hasDebit && !hasCredit {
			return fmt.Errorf("%w: line %d: either debit or credit is required", apperrors.ErrValidation, lineNo)
		}
		debitSum = debitSum.Add(line.Debit)
		creditSum = creditSum.Add(line.Credit)
	}

	if !debitSum.Equal(creditSum) {
		return b.balanceError(debitSum, creditSum)
	}
	return nil
}

// createLines converts input rows into voucher lines. Pure: no lookups, no
// clock, no randomness. Base amounts are rounded to the base currency's
// decimal places here rather than at call sites.
func (b base) createLines(in Input, baseCurrencyCode string, exchangeRate decimal.Decimal) ([]domain.VoucherLine, error) {
	currency := in.CurrencyCode
	if currency == "" {
		currency = baseCurrencyCode
	}

	lines := make([]domain.VoucherLine, len(in.Lines))
	for i, row := range in.Lines {
		side := domain.Credit
		amount := row.Credit
		if row.Debit.IsPositive() {
			side = domain.Debit
			amount = row.Debit
		}
		lines[i] = domain.VoucherLine{
			LineID:           i + 1,
			AccountID:        row.AccountID,
			Side:             side,
			Amount:           amount,
			BaseAmount:       b.precision.BaseAmount(amount, exchangeRate, baseCurrencyCode),
			CurrencyCode:     currency,
			BaseCurrencyCode: baseCurrencyCode,
			ExchangeRate:     exchangeRate,
			Notes:            row.Notes,
			CostCenterID:     row.CostCenterID,
		}
	}
	return lines, nil
}
