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
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
	companySvc   portssvc.CompanyReaderSvc
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithCompanyService adds company service dependency
func WithCompanyService(svc portssvc.CompanyReaderSvc) AccountServiceOption {
	return func(s *accountService) {
		s.companySvc = svc
	}
}

// WithCompanyAuthorizer adds company authorizer dependency
func WithCompanyAuthorizer(authorizer portssvc.CompanyAuthorizer) AccountServiceOption {
	return func(s *accountService) {
		s.CompanyAuthorizer = authorizer
	}
}

// WithCurrencyRepository adds currency repository dependency
func WithCurrencyRepository(repo portsrepo.CurrencyReader) AccountServiceOption {
	return func(s *accountService) {
		s.currencyRepo = repo
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		s.LogError(ctx, err, "User not authorized to create account",
			slog.String("user_id", userID),
			slog.String("company_id", companyID))
		return nil, err
	}

	currencyPolicy := req.CurrencyPolicy
	if currencyPolicy == "" {
		currencyPolicy = domain.CurrencyInherit
	}

	// A fixed-currency account must pin a known currency
	if currencyPolicy == domain.CurrencyFixed && s.currencyRepo != nil {
		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
			s.LogError(ctx, err, "Invalid currency code",
				slog.String("currency_code", req.CurrencyCode))
			return nil, fmt.Errorf("%w: invalid currency code %s", apperrors.ErrValidation, req.CurrencyCode)
		}
	}

	if req.ParentAccountID != "" {
		parentAccount, err := s.accountRepo.FindAccountByID(ctx, req.ParentAccountID)
		if err != nil {
			s.LogError(ctx, err, "Failed to find parent account",
				slog.String("parent_id", req.ParentAccountID))
			return nil, fmt.Errorf("%w: invalid parent account %s", apperrors.ErrValidation, req.ParentAccountID)
		}
		if parentAccount.CompanyID != companyID {
			err := apperrors.ErrValidation
			s.LogError(ctx, err, "Parent account belongs to different company",
				slog.String("parent_company", parentAccount.CompanyID),
				slog.String("requested_company", companyID))
			return nil, fmt.Errorf("%w: parent account belongs to different company", err)
		}
	}

	now := time.Now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		CompanyID:       companyID,
		Code:            req.Code,
		Name:            req.Name,
		Classification:  req.Classification,
		Nature:          req.Nature,
		CurrencyPolicy:  currencyPolicy,
		CurrencyCode:    req.CurrencyCode,
		ParentAccountID: req.ParentAccountID,
		Description:     req.Description,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := account.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("company_id", companyID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, companyID string, accountID string, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err
	}

	if account.CompanyID != companyID {
		s.LogDebug(ctx, "Account found but belongs to different company",
			slog.String("account_id", accountID),
			slog.String("account_company", account.CompanyID),
			slog.String("requested_company", companyID))
		// Return NotFound to obscure existence from other companies
		return nil, apperrors.ErrNotFound
	}

	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, companyID string, code string, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByCode(ctx, companyID, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code",
				slog.String("code", code),
				slog.String("company_id", companyID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string, userID string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by IDs",
			slog.String("account_ids", fmt.Sprintf("%v", accountIDs)))
		return nil, err
	}

	for _, account := range accounts {
		if account.CompanyID != companyID {
			s.LogDebug(ctx, "Account found but belongs to different company",
				slog.String("account_id", account.AccountID),
				slog.String("account_company", account.CompanyID),
				slog.String("requested_company", companyID))
			return nil, apperrors.ErrNotFound
		}
	}

	return accounts, nil
}

func (s *accountService) ListAccounts(ctx context.Context, companyID string, userID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts",
			slog.String("company_id", companyID),
			slog.Int("limit", limit),
			slog.Int("offset", params.Offset))
		return nil, fmt.Errorf("failed to list accounts for company %s: %w", companyID, err)
	}

	if accounts == nil {
		return []domain.Account{}, nil
	}

	s.LogDebug(ctx, "Accounts listed successfully",
		slog.Int("count", len(accounts)),
		slog.String("company_id", companyID))
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	account, err := s.GetAccountByID(ctx, companyID, accountID, userID)
	if err != nil {
		return nil, err
	}

	if account.IsSystem {
		return nil, fmt.Errorf("%w: system accounts cannot be modified", apperrors.ErrForbidden)
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for account update",
			slog.String("account_id", accountID))
		return account, nil
	}

	now := time.Now()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account",
			slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully",
		slog.String("account_id", account.AccountID),
		slog.String("company_id", account.CompanyID))
	return account, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, companyID string, accountID string, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleMember); err != nil {
		return err
	}

	account, err := s.GetAccountByID(ctx, companyID, accountID, userID)
	if err != nil {
		return err
	}

	if account.IsSystem {
		return fmt.Errorf("%w: system accounts cannot be deactivated", apperrors.ErrForbidden)
	}

	hasChildren, err := s.accountRepo.HasChildren(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to check account children",
			slog.String("account_id", accountID))
		return fmt.Errorf("failed to check account children: %w", err)
	}
	if hasChildren {
		return fmt.Errorf("%w: account %s has child accounts", apperrors.ErrConflict, accountID)
	}

	used, err := s.accountRepo.IsAccountUsed(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to check account usage",
			slog.String("account_id", accountID))
		return fmt.Errorf("failed to check account usage: %w", err)
	}
	if used {
		return fmt.Errorf("%w: account %s is referenced by vouchers", apperrors.ErrConflict, accountID)
	}

	now := time.Now()
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account",
			slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deactivated successfully",
		slog.String("account_id", accountID),
		slog.String("company_id", companyID))
	return nil
}
