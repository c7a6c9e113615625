package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/openbooks/openbooks-backend/internal/core/domain"
)

// CalculateSignedAmount applies the correct sign to a base currency amount
// based on account classification and entry side. Services and repositories
// both use this so running balance math stays consistent.
func CalculateSignedAmount(side domain.Side, classification domain.AccountClassification, baseAmount decimal.Decimal) (decimal.Decimal, error) {
	signedAmount := baseAmount
	isDebit := side == domain.Debit

	// Accounting sign convention:
	// DEBIT to ASSET/EXPENSE -> Positive (+)
	// CREDIT to ASSET/EXPENSE -> Negative (-)
	// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
	// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
	switch classification {
	case domain.Asset, domain.Expense:
		if !isDebit {
			signedAmount = signedAmount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			signedAmount = signedAmount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account classification %q", classification)
	}
	return signedAmount, nil
}

// BalanceChanges aggregates the signed deltas per account for a set of ledger
// entries. The classification map must cover every referenced account.
func BalanceChanges(entries []domain.LedgerEntry, classifications map[string]domain.AccountClassification) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(classifications))
	for _, entry := range entries {
		classification, ok := classifications[entry.AccountID]
		if !ok {
			return nil, fmt.Errorf("account classification not found for account ID %s", entry.AccountID)
		}
		signed, err := CalculateSignedAmount(entry.Side(), classification, entry.BaseAmount())
		if err != nil {
			return nil, err
		}
		changes[entry.AccountID] = changes[entry.AccountID].Add(signed)
	}
	return changes, nil
}
