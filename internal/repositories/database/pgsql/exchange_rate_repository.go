package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbooks/openbooks-backend/internal/apperrors"
	"github.com/openbooks/openbooks-backend/internal/core/domain"
	portsrepo "github.com/openbooks/openbooks-backend/internal/core/ports/repositories"
	"github.com/openbooks/openbooks-backend/internal/models"
	"github.com/openbooks/openbooks-backend/internal/utils/mapping"
)

type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new repository for exchange rate data.
func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

const exchangeRateColumns = `exchange_rate_id, company_id, from_currency_code, to_currency_code, rate, date_effective, created_at, created_by, last_updated_at, last_updated_by`

// scanExchangeRateRow scans one exchangeRateColumns row into a models.ExchangeRate.
func scanExchangeRateRow(row pgx.Row) (models.ExchangeRate, error) {
	var m models.ExchangeRate
	err := row.Scan(
		&m.ExchangeRateID,
		&m.CompanyID,
		&m.FromCurrencyCode,
		&m.ToCurrencyCode,
		&m.Rate,
		&m.DateEffective,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveRate persists a new exchange rate.
func (r *PgxExchangeRateRepository) SaveRate(ctx context.Context, rate domain.ExchangeRate) error {
	modelRate := mapping.ToModelExchangeRate(rate)

	query := `
		INSERT INTO exchange_rates (` + exchangeRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelRate.ExchangeRateID,
		modelRate.CompanyID,
		modelRate.FromCurrencyCode,
		modelRate.ToCurrencyCode,
		modelRate.Rate,
		modelRate.DateEffective,
		modelRate.CreatedAt,
		modelRate.CreatedBy,
		modelRate.LastUpdatedAt,
		modelRate.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // One rate per pair per effective date
				return fmt.Errorf("%w: rate for %s/%s effective %s already exists", apperrors.ErrDuplicate,
					modelRate.FromCurrencyCode, modelRate.ToCurrencyCode, modelRate.DateEffective.Format("2006-01-02"))
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return fmt.Errorf("%w: unknown currency in pair %s/%s", apperrors.ErrValidation,
					modelRate.FromCurrencyCode, modelRate.ToCurrencyCode)
			}
		}
		return fmt.Errorf("failed to save exchange rate %s: %w", modelRate.ExchangeRateID, err)
	}
	return nil
}

// FindLatestRate retrieves the most recent rate for a currency pair effective
// on or before the given date.
func (r *PgxExchangeRateRepository) FindLatestRate(ctx context.Context, companyID, fromCode, toCode string, onOrBefore time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE company_id = $1 AND from_currency_code = $2 AND to_currency_code = $3 AND date_effective <= $4
		ORDER BY date_effective DESC
		LIMIT 1;
	`
	modelRate, err := scanExchangeRateRow(r.Pool.QueryRow(ctx, query, companyID, fromCode, toCode, onOrBefore))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rate %s/%s for company %s: %w", fromCode, toCode, companyID, err)
	}

	domainRate := mapping.ToDomainExchangeRate(modelRate)
	return &domainRate, nil
}

// ListRates retrieves all rates for a company.
func (r *PgxExchangeRateRepository) ListRates(ctx context.Context, companyID string) ([]domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE company_id = $1
		ORDER BY from_currency_code, to_currency_code, date_effective DESC;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rates for company %s: %w", companyID, err)
	}
	defer rows.Close()

	rates := []domain.ExchangeRate{}
	for rows.Next() {
		m, scanErr := scanExchangeRateRow(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan exchange rate row for company %s: %w", companyID, scanErr)
		}
		rates = append(rates, mapping.ToDomainExchangeRate(m))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchange rate rows for company %s: %w", companyID, err)
	}

	return rates, nil
}
