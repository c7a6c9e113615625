package mapping

import (
	"github.com/openbooks/openbooks-backend/internal/core/domain"
	"github.com/openbooks/openbooks-backend/internal/models"
)

// ToModelVoucher converts a domain Voucher to a model Voucher. Lines are
// mapped separately via ToModelVoucherLine.
func ToModelVoucher(d domain.Voucher) models.Voucher {
	return models.Voucher{
		VoucherID:          d.VoucherID,
		CompanyID:          d.CompanyID,
		VoucherNo:          d.VoucherNo,
		Type:               string(d.Type),
		VoucherDate:        d.Date,
		Description:        d.Description,
		CurrencyCode:       d.CurrencyCode,
		BaseCurrencyCode:   d.BaseCurrencyCode,
		ExchangeRate:       d.ExchangeRate,
		TotalDebit:         d.TotalDebit,
		TotalCredit:        d.TotalCredit,
		Status:             models.VoucherStatus(d.Status),
		OriginalVoucherID:  d.OriginalVoucherID,
		ReversingVoucherID: d.ReversingVoucherID,
		ApprovedBy:         d.ApprovedBy,
		ApprovedAt:         d.ApprovedAt,
		RejectedBy:         d.RejectedBy,
		RejectionReason:    d.RejectionReason,
		LockedBy:           d.LockedBy,
		LockedAt:           d.LockedAt,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVoucher converts a model Voucher to a domain Voucher. The Lines
// slice is left empty for the caller to populate.
func ToDomainVoucher(m models.Voucher) domain.Voucher {
	return domain.Voucher{
		VoucherID:          m.VoucherID,
		CompanyID:          m.CompanyID,
		VoucherNo:          m.VoucherNo,
		Type:               domain.VoucherType(m.Type),
		Date:               m.VoucherDate,
		Description:        m.Description,
		CurrencyCode:       m.CurrencyCode,
		BaseCurrencyCode:   m.BaseCurrencyCode,
		ExchangeRate:       m.ExchangeRate,
		TotalDebit:         m.TotalDebit,
		TotalCredit:        m.TotalCredit,
		Status:             domain.VoucherStatus(m.Status),
		OriginalVoucherID:  m.OriginalVoucherID,
		ReversingVoucherID: m.ReversingVoucherID,
		ApprovedBy:         m.ApprovedBy,
		ApprovedAt:         m.ApprovedAt,
		RejectedBy:         m.RejectedBy,
		RejectionReason:    m.RejectionReason,
		LockedBy:           m.LockedBy,
		LockedAt:           m.LockedAt,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelVoucherLine converts a domain VoucherLine to a model VoucherLine.
func ToModelVoucherLine(voucherID string, d domain.VoucherLine) models.VoucherLine {
	return models.VoucherLine{
		VoucherID:        voucherID,
		LineNo:           d.LineID,
		AccountID:        d.AccountID,
		Side:             string(d.Side),
		Amount:           d.Amount,
		BaseAmount:       d.BaseAmount,
		CurrencyCode:     d.CurrencyCode,
		BaseCurrencyCode: d.BaseCurrencyCode,
		ExchangeRate:     d.ExchangeRate,
		Notes:            d.Notes,
		CostCenterID:     d.CostCenterID,
	}
}

// ToDomainVoucherLine converts a model VoucherLine to a domain VoucherLine.
func ToDomainVoucherLine(m models.VoucherLine) domain.VoucherLine {
	return domain.VoucherLine{
		LineID:           m.LineNo,
		AccountID:        m.AccountID,
		Side:             domain.Side(m.Side),
		Amount:           m.Amount,
		BaseAmount:       m.BaseAmount,
		CurrencyCode:     m.CurrencyCode,
		BaseCurrencyCode: m.BaseCurrencyCode,
		ExchangeRate:     m.ExchangeRate,
		Notes:            m.Notes,
		CostCenterID:     m.CostCenterID,
	}
}

// ToDomainVoucherLineSlice converts a slice of model VoucherLines to domain VoucherLines.
func ToDomainVoucherLineSlice(ms []models.VoucherLine) []domain.VoucherLine {
	ds := make([]domain.VoucherLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainVoucherLine(m)
	}
	return ds
}
