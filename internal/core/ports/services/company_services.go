package services

import (
	"context"

	"github.com/openbooks/openbooks-backend/internal/core/domain"
	"github.com/openbooks/openbooks-backend/internal/dto"
)

// CompanyReaderSvc defines read operations for company data.
type CompanyReaderSvc interface {
	// GetCompanyByID retrieves a company the user is a member of.
	GetCompanyByID(ctx context.Context, companyID string, userID string) (*domain.Company, error)

	// ListCompanies retrieves all companies the user belongs to.
	ListCompanies(ctx context.Context, userID string) ([]domain.Company, error)

	// GetSettings retrieves the accounting policy settings of a company.
	GetSettings(ctx context.Context, companyID string) (*domain.CompanySettings, error)
}

// CompanyWriterSvc defines write operations for company data.
type CompanyWriterSvc interface {
	// CreateCompany persists a new company with the creator as admin.
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error)

	// UpdateSettings updates the accounting policy (admin only).
	UpdateSettings(ctx context.Context, companyID string, req dto.UpdateCompanySettingsRequest, userID string) (*domain.Company, error)

	// AddUserToCompany adds a member with a role (admin only).
	AddUserToCompany(ctx context.Context, companyID string, req dto.AddUserToCompanyRequest, addingUserID string) error
}

// CompanyAuthorizer is the permission checker collaborator: services gate
// approve, lock, posting and reversal operations through it.
type CompanyAuthorizer interface {
	// AuthorizeUserAction fails with apperrors.ErrForbidden unless the user
	// holds at least the required role in the company.
	AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.UserCompanyRole) error
}

// CompanySvcFacade combines all company-related service interfaces.
type CompanySvcFacade interface {
	CompanyReaderSvc
	CompanyWriterSvc
	CompanyAuthorizer
}
