package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/openbooks-backend/internal/core/domain"
)

// CreateAccountRequest creates a new account in a company's chart of accounts.
type CreateAccountRequest struct {
	Code            string                       `json:"code" binding:"required"`
	Name            string                       `json:"name" binding:"required"`
	Classification  domain.AccountClassification `json:"classification" binding:"required"`
	Nature          domain.BalanceNature         `json:"nature" binding:"required"`
	CurrencyPolicy  domain.CurrencyPolicy        `json:"currencyPolicy,omitempty"`
	CurrencyCode    string                       `json:"currencyCode,omitempty"`
	ParentAccountID string                       `json:"parentAccountID,omitempty"`
	Description     string                       `json:"description,omitempty"`
}

// UpdateAccountRequest updates mutable account details.
type UpdateAccountRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string                       `json:"accountID"`
	CompanyID       string                       `json:"companyID"`
	Code            string                       `json:"code"`
	Name            string                       `json:"name"`
	Classification  domain.AccountClassification `json:"classification"`
	Nature          domain.BalanceNature         `json:"nature"`
	CurrencyPolicy  domain.CurrencyPolicy        `json:"currencyPolicy"`
	CurrencyCode    string                       `json:"currencyCode,omitempty"`
	ParentAccountID string                       `json:"parentAccountID,omitempty"`
	Description     string                       `json:"description,omitempty"`
	IsSystem        bool                         `json:"isSystem"`
	IsActive        bool                         `json:"isActive"`
	Balance         decimal.Decimal              `json:"balance"`
	CreatedAt       time.Time                    `json:"createdAt"`
}

// ListAccountsParams holds query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		CompanyID:       a.CompanyID,
		Code:            a.Code,
		Name:            a.Name,
		Classification:  a.Classification,
		Nature:          a.Nature,
		CurrencyPolicy:  a.CurrencyPolicy,
		CurrencyCode:    a.CurrencyCode,
		ParentAccountID: a.ParentAccountID,
		Description:     a.Description,
		IsSystem:        a.IsSystem,
		IsActive:        a.IsActive,
		Balance:         a.Balance,
		CreatedAt:       a.CreatedAt,
	}
}
