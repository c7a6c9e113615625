package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/openbooks-backend/internal/apperrors"
	"github.com/openbooks/openbooks-backend/internal/core/domain"
	portsrepo "github.com/openbooks/openbooks-backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks/openbooks-backend/internal/core/ports/services"
	"github.com/openbooks/openbooks-backend/internal/dto"
	"github.com/openbooks/openbooks-backend/internal/middleware"
)

// roleRank orders roles for hierarchy checks. A user satisfies a required role
// when their rank is at least the required rank. REMOVED never satisfies
// anything.
var roleRank = map[domain.UserCompanyRole]int{
	domain.RoleReadOnly: 1,
	domain.RoleMember:   2,
	domain.RoleAdmin:    3,
}

// companyService handles business logic related to companies and memberships.
type companyService struct {
	companyRepo  portsrepo.CompanyRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
}

// NewCompanyService creates a new CompanySvcFacade implementation.
func NewCompanyService(cr portsrepo.CompanyRepositoryFacade, curr portsrepo.CurrencyReader) portssvc.CompanySvcFacade {
	return &companyService{
		companyRepo:  cr,
		currencyRepo: curr,
	}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

// CreateCompany creates a new company and makes the creator the initial admin.
func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// The base currency must be a known currency; every balance and ledger
	// entry in the company will be denominated in it.
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.BaseCurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Invalid base currency code provided", slog.String("currency_code", req.BaseCurrencyCode))
			return nil, fmt.Errorf("%w: currency code %s not found", apperrors.ErrValidation, req.BaseCurrencyCode)
		}
		logger.Error("Failed to check currency code existence", slog.String("error", err.Error()), slog.String("currency_code", req.BaseCurrencyCode))
		return nil, fmt.Errorf("failed to validate currency code: %w", err)
	}

	approvalMode := req.ApprovalMode
	switch approvalMode {
	case "":
		approvalMode = domain.ApprovalStrict
	case domain.ApprovalStrict, domain.ApprovalFlexible:
	default:
		return nil, fmt.Errorf("%w: unknown approval mode %q", apperrors.ErrValidation, approvalMode)
	}

	now := time.Now()
	newCompanyID := uuid.NewString()

	company := domain.Company{
		CompanyID:   newCompanyID,
		Name:        req.Name,
		Description: req.Description,
		Settings: domain.CompanySettings{
			BaseCurrencyCode: req.BaseCurrencyCode,
			ApprovalMode:     approvalMode,
		},
		IsActive: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		logger.Error("Failed to save company in repository", slog.String("error", err.Error()), slog.String("company_name", req.Name))
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	membership := domain.UserCompany{
		UserID:    creatorUserID,
		CompanyID: newCompanyID,
		Role:      domain.RoleAdmin, // Creator is Admin
		JoinedAt:  now,
	}
	if err := s.companyRepo.AddUserToCompany(ctx, membership); err != nil {
		logger.Error("Failed to add creator as admin to new company", slog.String("error", err.Error()), slog.String("company_id", newCompanyID), slog.String("user_id", creatorUserID))
		return nil, fmt.Errorf("failed to add creator membership: %w", err)
	}

	logger.Info("Company created successfully", slog.String("company_id", newCompanyID), slog.String("creator_user_id", creatorUserID))
	return &company, nil
}

// GetCompanyByID retrieves a company the user is a member of.
func (s *companyService) GetCompanyByID(ctx context.Context, companyID string, userID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find company by ID in repository", slog.String("error", err.Error()), slog.String("company_id", companyID))
		}
		return nil, err
	}
	return company, nil
}

// ListCompanies retrieves the list of companies a given user belongs to.
func (s *companyService) ListCompanies(ctx context.Context, userID string) ([]domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	companies, err := s.companyRepo.ListCompaniesByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to list companies for user from repository", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list companies for user %s: %w", userID, err)
	}

	if companies == nil {
		return []domain.Company{}, nil // Return empty slice, not nil
	}

	logger.Debug("Companies listed successfully for user", slog.String("user_id", userID), slog.Int("count", len(companies)))
	return companies, nil
}

// GetSettings retrieves the accounting policy settings of a company. This is
// an internal collaborator call; membership checks happen at the operation
// that needed the settings.
func (s *companyService) GetSettings(ctx context.Context, companyID string) (*domain.CompanySettings, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	settings := company.Settings
	return &settings, nil
}

// UpdateSettings updates the accounting policy of a company. Admin only.
func (s *companyService) UpdateSettings(ctx context.Context, companyID string, req dto.UpdateCompanySettingsRequest, userID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, userID, companyID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	settings := company.Settings
	updated := false
	if req.ApprovalMode != nil {
		switch *req.ApprovalMode {
		case domain.ApprovalStrict, domain.ApprovalFlexible:
		default:
			return nil, fmt.Errorf("%w: unknown approval mode %q", apperrors.ErrValidation, *req.ApprovalMode)
		}
		settings.ApprovalMode = *req.ApprovalMode
		updated = true
	}
	if req.AllowLockedEdit != nil {
		settings.AllowLockedEdit = *req.AllowLockedEdit
		updated = true
	}
	if req.PeriodLockDate != nil {
		settings.PeriodLockDate = req.PeriodLockDate
		updated = true
	}

	if !updated {
		logger.Debug("No fields provided for settings update", slog.String("company_id", companyID))
		return company, nil
	}

	if err := s.companyRepo.UpdateCompanySettings(ctx, companyID, settings, userID); err != nil {
		logger.Error("Failed to update company settings", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to update company settings: %w", err)
	}

	company.Settings = settings
	logger.Info("Company settings updated successfully", slog.String("company_id", companyID))
	return company, nil
}

// AddUserToCompany adds a user to a company with a specific role.
func (s *companyService) AddUserToCompany(ctx context.Context, companyID string, req dto.AddUserToCompanyRequest, addingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, addingUserID, companyID, domain.RoleAdmin); err != nil {
		return err // Return auth error (NotFound or Forbidden)
	}

	switch req.Role {
	case domain.RoleAdmin, domain.RoleMember, domain.RoleReadOnly:
	default:
		return fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, req.Role)
	}

	now := time.Now()
	membership := domain.UserCompany{
		UserID:    req.UserID,
		CompanyID: companyID,
		Role:      req.Role,
		JoinedAt:  now,
	}

	if err := s.companyRepo.AddUserToCompany(ctx, membership); err != nil {
		logger.Error("Failed to add user to company in repository", slog.String("error", err.Error()), slog.String("target_user_id", req.UserID), slog.String("company_id", companyID))
		return fmt.Errorf("failed to add user %s to company %s: %w", req.UserID, companyID, err)
	}

	logger.Info("User added to company successfully", slog.String("target_user_id", req.UserID), slog.String("company_id", companyID), slog.String("role", string(req.Role)), slog.String("added_by_user_id", addingUserID))
	return nil
}

// AuthorizeUserAction checks if a user has the required role (or higher) within a specific company.
// Returns apperrors.ErrNotFound if user/company doesn't exist or user not member.
// Returns apperrors.ErrForbidden if user is member but lacks the required role.
// Returns nil if authorized.
func (s *companyService) AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.UserCompanyRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	membership, err := s.companyRepo.FindUserCompanyRole(ctx, userID, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Authorization failed: user or company not found, or user not a member", slog.String("user_id", userID), slog.String("company_id", companyID))
			// Return NotFound to avoid revealing company existence
			return apperrors.ErrNotFound
		}
		logger.Error("Failed to check user company role in repository", slog.String("error", err.Error()), slog.String("user_id", userID), slog.String("company_id", companyID))
		return fmt.Errorf("failed to check authorization: %w", err)
	}

	if membership.Role == domain.RoleRemoved {
		logger.Warn("Authorization failed: user was removed from company", slog.String("user_id", userID), slog.String("company_id", companyID))
		return apperrors.ErrForbidden
	}

	if roleRank[membership.Role] >= roleRank[requiredRole] {
		return nil
	}

	logger.Warn("Authorization failed: user lacks required role", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("user_role", string(membership.Role)), slog.String("required_role", string(requiredRole)))
	return apperrors.ErrForbidden
}
