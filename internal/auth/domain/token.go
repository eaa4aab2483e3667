package domain

import "time"

// TokenPair is what login, register, and refresh hand back: the short-lived
// access token and the long-lived refresh token, both signed JWTs.
type TokenPair struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	ExpiresIn    time.Duration `json:"expiresIn"` // seconds until access expiry
}

// RefreshToken models the stored refresh token record. Only the jti is
// persisted; the token itself is self-describing. A row exists per issued
// refresh token and is revoked when that token is rotated, which is what
// makes rotation single-use.
type RefreshToken struct {
	JTI       string
	UserID    string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
