package domain

import "time"

// ApprovalMode selects the company-level voucher approval policy.
type ApprovalMode string

const (
	// ApprovalStrict makes approval mandatory and Locked vouchers permanently
	// immutable; the only correction path is a reversal.
	ApprovalStrict ApprovalMode = "STRICT"
	// ApprovalFlexible auto-approves on submission and, combined with
	// AllowLockedEdit, permits direct edit/delete of locked vouchers.
	ApprovalFlexible ApprovalMode = "FLEXIBLE"
)

// CompanySettings holds the accounting policy the voucher core branches on.
type CompanySettings struct {
	BaseCurrencyCode string       `json:"baseCurrencyCode"`
	ApprovalMode     ApprovalMode `json:"approvalMode"`
	AllowLockedEdit  bool         `json:"allowLockedEdit"` // Only honored under FLEXIBLE
	PeriodLockDate   *time.Time   `json:"periodLockDate,omitempty"`
}

// Company represents an isolated tenant containing accounts, vouchers and
// ledger entries.
type Company struct {
	CompanyID   string          `json:"companyID"` // Primary Key (e.g., UUID)
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Settings    CompanySettings `json:"settings"`
	IsActive    bool            `json:"isActive"`
	AuditFields
}

// UserCompanyRole defines the possible roles a user can have within a company.
type UserCompanyRole string

const (
	RoleAdmin    UserCompanyRole = "ADMIN"
	RoleMember   UserCompanyRole = "MEMBER"
	RoleReadOnly UserCompanyRole = "READONLY"
	RoleRemoved  UserCompanyRole = "REMOVED"
)

// UserCompany represents the membership of a User in a Company.
type UserCompany struct {
	UserID    string          `json:"userID"`
	UserName  string          `json:"userName"`
	CompanyID string          `json:"companyID"`
	Role      UserCompanyRole `json:"role"`
	JoinedAt  time.Time       `json:"joinedAt"`
}
