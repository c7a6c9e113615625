package mapping

import (
	"github.com/openbooks/openbooks-backend/internal/core/domain"
	"github.com/openbooks/openbooks-backend/internal/models"
)

// ToModelCompany converts a domain Company to a model Company, flattening the
// settings into columns.
func ToModelCompany(d domain.Company) models.Company {
	return models.Company{
		CompanyID:        d.CompanyID,
		Name:             d.Name,
		Description:      d.Description,
		BaseCurrencyCode: d.Settings.BaseCurrencyCode,
		ApprovalMode:     string(d.Settings.ApprovalMode),
		AllowLockedEdit:  d.Settings.AllowLockedEdit,
		PeriodLockDate:   d.Settings.PeriodLockDate,
		IsActive:         d.IsActive,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCompany converts a model Company to a domain Company.
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		Description: m.Description,
		Settings: domain.CompanySettings{
			BaseCurrencyCode: m.BaseCurrencyCode,
			ApprovalMode:     domain.ApprovalMode(m.ApprovalMode),
			AllowLockedEdit:  m.AllowLockedEdit,
			PeriodLockDate:   m.PeriodLockDate,
		},
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
