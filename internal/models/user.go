package models

import (
	"database/sql"
	"time"
)

// User represents a row of the users table.
type User struct {
	UserID       string         `db:"user_id"`
	Name         string         `db:"name"`
	Email        sql.NullString `db:"email"`
	PasswordHash string         `db:"password_hash"`
	AuthProvider sql.NullString `db:"auth_provider"` // e.g. "google"; NULL for password users
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`

	// Refresh token columns; only the hash is stored.
	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`
}
