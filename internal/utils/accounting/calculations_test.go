package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/openbooks-backend/internal/core/domain"
	"github.com/openbooks/openbooks-backend/internal/utils/accounting"
)

func TestCalculateSignedAmount(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	tests := []struct {
		name           string
		side           domain.Side
		classification domain.AccountClassification
		want           string
	}{
		{"debit to asset increases", domain.Debit, domain.Asset, "100"},
		{"credit to asset decreases", domain.Credit, domain.Asset, "-100"},
		{"debit to expense increases", domain.Debit, domain.Expense, "100"},
		{"credit to expense decreases", domain.Credit, domain.Expense, "-100"},
		{"debit to liability decreases", domain.Debit, domain.Liability, "-100"},
		{"credit to liability increases", domain.Credit, domain.Liability, "100"},
		{"debit to equity decreases", domain.Debit, domain.Equity, "-100"},
		{"credit to equity increases", domain.Credit, domain.Equity, "100"},
		{"debit to revenue decreases", domain.Debit, domain.Revenue, "-100"},
		{"credit to revenue increases", domain.Credit, domain.Revenue, "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.CalculateSignedAmount(tt.side, tt.classification, hundred)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestCalculateSignedAmount_UnknownClassification(t *testing.T) {
	_, err := accounting.CalculateSignedAmount(domain.Debit, domain.AccountClassification("CONTRA"), decimal.NewFromInt(1))
	assert.Error(t, err)
}

func TestBalanceChanges(t *testing.T) {
	hundred := decimal.NewFromInt(100)
	forty := decimal.NewFromInt(40)

	entries := []domain.LedgerEntry{
		{AccountID: "cash", DebitBase: hundred},
		{AccountID: "revenue", CreditBase: hundred},
		{AccountID: "cash", CreditBase: forty},
	}
	classifications := map[string]domain.AccountClassification{
		"cash":    domain.Asset,
		"revenue": domain.Revenue,
	}

	changes, err := accounting.BalanceChanges(entries, classifications)
	require.NoError(t, err)

	// Entries against the same account aggregate into one signed delta.
	assert.Len(t, changes, 2)
	assert.True(t, changes["cash"].Equal(decimal.NewFromInt(60)), "got %s", changes["cash"])
	assert.True(t, changes["revenue"].Equal(hundred), "got %s", changes["revenue"])
}

func TestBalanceChanges_MissingClassification(t *testing.T) {
	entries := []domain.LedgerEntry{
		{AccountID: "unknown", DebitBase: decimal.NewFromInt(1)},
	}

	_, err := accounting.BalanceChanges(entries, map[string]domain.AccountClassification{})
	assert.Error(t, err)
}
