package repositories

import (
	"context"
	"time"

	"github.com/openbooks/openbooks-backend/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data.
type ExchangeRateReader interface {
	// FindLatestRate retrieves the most recent rate for a currency pair
	// effective on or before the given date.
	FindLatestRate(ctx context.Context, companyID, fromCode, toCode string, onOrBefore time.Time) (*domain.ExchangeRate, error)

	// ListRates retrieves all rates for a company.
	ListRates(ctx context.Context, companyID string) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data.
type ExchangeRateWriter interface {
	// SaveRate persists a new exchange rate.
	SaveRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines exchange rate repository interfaces.
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
