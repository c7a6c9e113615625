package dto

// LoginResponse carries the access token issued after authentication. The
// refresh token travels separately as an http-only cookie.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"` // Seconds until the access token expires
	User      UserResponse `json:"user"`
}

// RefreshResponse carries a freshly rotated access token.
type RefreshResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}
