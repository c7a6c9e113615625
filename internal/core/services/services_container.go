package services

import (
	portsrepo "github.com/openbooks/openbooks-backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks/openbooks-backend/internal/core/ports/services"
	"github.com/openbooks/openbooks-backend/internal/core/vouchertypes"
	"github.com/openbooks/openbooks-backend/internal/utils/money"
	"github.com/openbooks/openbooks-backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized
// dependencies. This is the composition root for the application core.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	precision := money.Default()
	registry := vouchertypes.NewRegistry(precision)

	// Company service first since most services authorize through it
	container.Company = NewCompanyService(repos.CompanyRepo, repos.CurrencyRepo)

	container.Account = NewAccountService(
		repos.AccountRepo,
		WithCompanyService(container.Company),
		WithCompanyAuthorizer(container.Company),
		WithCurrencyRepository(repos.CurrencyRepo),
	)

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.User = NewUserService(repos.UserRepo)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, container.Currency)

	container.Voucher = NewVoucherService(
		repos.VoucherRepo,
		repos.LedgerRepo,
		container.Account,
		container.Company,
		container.ExchangeRate,
		registry,
		precision,
	)

	container.Ledger = NewLedgerService(
		repos.LedgerRepo,
		repos.VoucherRepo,
		container.Account,
		container.Company,
	)

	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthHandlerService(cfg)

	return container
}

// Compile-time interface checks
var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.CompanySvcFacade = (*companyService)(nil)
	_ portssvc.VoucherSvcFacade = (*voucherService)(nil)
	_ portssvc.LedgerSvcFacade  = (*ledgerService)(nil)
)
