package services

import (
	"context"
	"time"

	"github.com/openbooks/openbooks-backend/internal/core/domain"
	"github.com/openbooks/openbooks-backend/internal/dto"
)

// ExchangeRateReaderSvc defines read operations for exchange rate data.
type ExchangeRateReaderSvc interface {
	// GetExchangeRate retrieves the latest exchange rate between two currencies.
	GetExchangeRate(ctx context.Context, companyID string, fromCode, toCode string) (*domain.ExchangeRate, error)

	// GetRateForDate retrieves the rate effective on or before the given date.
	// Used to default a voucher line's rate when none is supplied.
	GetRateForDate(ctx context.Context, companyID string, fromCode, toCode string, date time.Time) (*domain.ExchangeRate, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data.
type ExchangeRateWriterSvc interface {
	// CreateExchangeRate persists a new exchange rate.
	CreateExchangeRate(ctx context.Context, companyID string, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces.
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}
