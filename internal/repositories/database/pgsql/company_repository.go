package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbooks/openbooks-backend/internal/apperrors"
	"github.com/openbooks/openbooks-backend/internal/core/domain"
	portsrepo "github.com/openbooks/openbooks-backend/internal/core/ports/repositories"
	"github.com/openbooks/openbooks-backend/internal/models"
	"github.com/openbooks/openbooks-backend/internal/utils/mapping"
)

type PgxCompanyRepository struct {
	BaseRepository
}

// newPgxCompanyRepository creates a new repository for company data.
func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepositoryFacade {
	return &PgxCompanyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCompanyRepository implements portsrepo.CompanyRepositoryFacade
var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

const companyColumns = `c.company_id, c.name, c.description, c.base_currency_code, c.approval_mode, c.allow_locked_edit, c.period_lock_date, c.is_active, c.created_at, c.created_by, c.last_updated_at, c.last_updated_by`

// scanCompanyRow scans one companyColumns row into a models.Company.
func scanCompanyRow(row pgx.Row) (models.Company, error) {
	var m models.Company
	err := row.Scan(
		&m.CompanyID,
		&m.Name,
		&m.Description,
		&m.BaseCurrencyCode,
		&m.ApprovalMode,
		&m.AllowLockedEdit,
		&m.PeriodLockDate,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveCompany persists a new company with its flattened settings columns.
func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	modelCompany := mapping.ToModelCompany(company)

	query := `
		INSERT INTO companies (
			company_id, name, description, base_currency_code, approval_mode,
			allow_locked_edit, period_lock_date, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelCompany.CompanyID,
		modelCompany.Name,
		modelCompany.Description,
		modelCompany.BaseCurrencyCode,
		modelCompany.ApprovalMode,
		modelCompany.AllowLockedEdit,
		modelCompany.PeriodLockDate,
		modelCompany.IsActive,
		modelCompany.CreatedAt,
		modelCompany.CreatedBy,
		modelCompany.LastUpdatedAt,
		modelCompany.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.NewAppError(409, "company ID "+modelCompany.CompanyID+" already exists", apperrors.ErrDuplicate)
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewAppError(400, "base currency code does not exist", apperrors.ErrValidation)
			}
		}
		return apperrors.NewAppError(500, "failed to save company "+modelCompany.CompanyID, err)
	}
	return nil
}

// FindCompanyByID retrieves a specific company by its ID.
func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies c WHERE c.company_id = $1;`

	modelCompany, err := scanCompanyRow(r.Pool.QueryRow(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find company by ID "+companyID, err)
	}

	domainCompany := mapping.ToDomainCompany(modelCompany)
	return &domainCompany, nil
}

// ListCompaniesByUserID retrieves all active companies a user belongs to,
// excluding memberships with the REMOVED role.
func (r *PgxCompanyRepository) ListCompaniesByUserID(ctx context.Context, userID string) ([]domain.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies c
		JOIN user_companies uc ON c.company_id = uc.company_id
		WHERE uc.user_id = $1 AND uc.role != $2 AND c.is_active = TRUE
		ORDER BY c.name;
	`
	rows, err := r.Pool.Query(ctx, query, userID, domain.RoleRemoved)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query companies for user "+userID, err)
	}
	defer rows.Close()

	companies := []domain.Company{}
	for rows.Next() {
		m, scanErr := scanCompanyRow(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan company row for user "+userID, scanErr)
		}
		companies = append(companies, mapping.ToDomainCompany(m))
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating company rows for user "+userID, err)
	}

	return companies, nil
}

// UpdateCompanySettings replaces the accounting policy settings of a company.
func (r *PgxCompanyRepository) UpdateCompanySettings(ctx context.Context, companyID string, settings domain.CompanySettings, userID string) error {
	query := `
		UPDATE companies
		SET approval_mode = $2,
		    allow_locked_edit = $3,
		    period_lock_date = $4,
		    last_updated_at = NOW(),
		    last_updated_by = $5
		WHERE company_id = $1;
	`
	// Base currency is fixed at creation and deliberately not updatable.

	cmdTag, err := r.Pool.Exec(ctx, query,
		companyID,
		string(settings.ApprovalMode),
		settings.AllowLockedEdit,
		settings.PeriodLockDate,
		userID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update settings for company "+companyID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// AddUserToCompany adds a user to a company with a specific role.
// Upsert: add user or update their role if they already exist.
func (r *PgxCompanyRepository) AddUserToCompany(ctx context.Context, membership domain.UserCompany) error {
	query := `
		INSERT INTO user_companies (user_id, company_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, company_id) DO UPDATE SET role = EXCLUDED.role;
	`
	_, err := r.Pool.Exec(ctx, query,
		membership.UserID,
		membership.CompanyID,
		membership.Role,
		membership.JoinedAt,
	)

	if err != nil {
		return apperrors.NewAppError(500, "failed to add/update user "+membership.UserID+" in company "+membership.CompanyID, err)
	}
	return nil
}

// FindUserCompanyRole retrieves the role of a user in a company.
func (r *PgxCompanyRepository) FindUserCompanyRole(ctx context.Context, userID, companyID string) (*domain.UserCompany, error) {
	query := `
		SELECT user_id, company_id, role, joined_at
		FROM user_companies
		WHERE user_id = $1 AND company_id = $2;
	`
	var uc domain.UserCompany
	err := r.Pool.QueryRow(ctx, query, userID, companyID).Scan(
		&uc.UserID,
		&uc.CompanyID,
		&uc.Role,
		&uc.JoinedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Absence of a membership row means no access; the service maps
			// this to not-found so non-members cannot probe for companies.
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find user "+userID+" company role in "+companyID, err)
	}
	return &uc, nil
}
