package models

import "time"

// Company represents a row of the companies table. The accounting policy
// settings are flattened into columns.
type Company struct {
	CompanyID        string     `db:"company_id"`
	Name             string     `db:"name"`
	Description      string     `db:"description"`
	BaseCurrencyCode string     `db:"base_currency_code"`
	ApprovalMode     string     `db:"approval_mode"`
	AllowLockedEdit  bool       `db:"allow_locked_edit"`
	PeriodLockDate   *time.Time `db:"period_lock_date"` // Nullable
	IsActive         bool       `db:"is_active"`
	AuditFields
}

// UserCompany represents a row of the user_companies membership table.
type UserCompany struct {
	UserID    string    `db:"user_id"`
	UserName  string    `db:"user_name"` // Joined from users, not a column
	CompanyID string    `db:"company_id"`
	Role      string    `db:"role"`
	JoinedAt  time.Time `db:"joined_at"`
}
