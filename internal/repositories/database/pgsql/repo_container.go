package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/openbooks/openbooks-backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	companyRepo := newPgxCompanyRepository(dbPool)
	currencyRepo := newPgxCurrencyRepository(dbPool)
	exchangeRateRepo := newPgxExchangeRateRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	voucherRepo := newPgxVoucherRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool, accountRepo)

	return portsrepo.RepositoryProvider{
		AccountRepo:      accountRepo,
		CompanyRepo:      companyRepo,
		CurrencyRepo:     currencyRepo,
		ExchangeRateRepo: exchangeRateRepo,
		UserRepo:         userRepo,
		VoucherRepo:      voucherRepo,
		LedgerRepo:       ledgerRepo,
	}
}
