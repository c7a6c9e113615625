package dto

import (
	"time"

	"github.com/openbooks/openbooks-backend/internal/core/domain"
)

// CreateCompanyRequest creates a new tenant company.
type CreateCompanyRequest struct {
	Name             string              `json:"name" binding:"required"`
	Description      string              `json:"description,omitempty"`
	BaseCurrencyCode string              `json:"baseCurrencyCode" binding:"required,len=3"`
	ApprovalMode     domain.ApprovalMode `json:"approvalMode,omitempty"` // Defaults to STRICT
}

// UpdateCompanySettingsRequest updates the accounting policy of a company.
type UpdateCompanySettingsRequest struct {
	ApprovalMode    *domain.ApprovalMode `json:"approvalMode,omitempty"`
	AllowLockedEdit *bool                `json:"allowLockedEdit,omitempty"`
	PeriodLockDate  *time.Time           `json:"periodLockDate,omitempty"`
}

// AddUserToCompanyRequest adds a member to a company.
type AddUserToCompanyRequest struct {
	UserID string                 `json:"userID" binding:"required"`
	Role   domain.UserCompanyRole `json:"role" binding:"required"`
}

// CompanyResponse defines the data returned for a company.
type CompanyResponse struct {
	CompanyID   string                 `json:"companyID"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Settings    domain.CompanySettings `json:"settings"`
	IsActive    bool                   `json:"isActive"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// ToCompanyResponse converts a domain.Company to its response DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:   c.CompanyID,
		Name:        c.Name,
		Description: c.Description,
		Settings:    c.Settings,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}
