package domain

import "time"

// User represents a user of the application in the domain.
type User struct {
	UserID       string  `json:"userID"` // Primary Key (e.g., UUID)
	Name         string  `json:"name"`
	Email        *string `json:"email,omitempty"`
	AuthProvider *string `json:"authProvider,omitempty"` // e.g. "google"; nil for password users
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete

	// Refresh token state, never serialized. Only the SHA256 hash is stored.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}
