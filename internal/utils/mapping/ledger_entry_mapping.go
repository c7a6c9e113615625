package mapping

import (
	"github.com/openbooks/openbooks-backend/internal/core/domain"
	"github.com/openbooks/openbooks-backend/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:      d.EntryID,
		CompanyID:    d.CompanyID,
		VoucherID:    d.VoucherID,
		LineNo:       d.LineID,
		AccountID:    d.AccountID,
		DebitBase:    d.DebitBase,
		CreditBase:   d.CreditBase,
		Amount:       d.Amount,
		LineCurrency: d.LineCurrency,
		BaseCurrency: d.BaseCurrency,
		ExchangeRate: d.ExchangeRate,
		CostCenterID: d.CostCenterID,
		EntryDate:    d.Date,
		CreatedAt:    d.CreatedAt,
		CreatedBy:    d.CreatedBy,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:      m.EntryID,
		CompanyID:    m.CompanyID,
		VoucherID:    m.VoucherID,
		LineID:       m.LineNo,
		AccountID:    m.AccountID,
		DebitBase:    m.DebitBase,
		CreditBase:   m.CreditBase,
		Amount:       m.Amount,
		LineCurrency: m.LineCurrency,
		BaseCurrency: m.BaseCurrency,
		ExchangeRate: m.ExchangeRate,
		CostCenterID: m.CostCenterID,
		Date:         m.EntryDate,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries to domain LedgerEntries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
