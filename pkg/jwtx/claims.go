package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants for the access/refresh pair.
// These provide sensible security defaults but can be overridden per-service.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	// Short-lived for security - typical range is 15m to 1h.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	// Longer-lived for user convenience - typical range is 7d to 30d.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims are the identity claims embedded in our signed tokens. Access tokens
// carry the full set; refresh tokens carry only the subject (and jti), which
// keeps them small and avoids baking soon-stale role/email data into a
// week-long credential.
type Claims struct {
	jwt.RegisteredClaims

	// Email is a display/lookup aid, never used for authorization.
	Email string `json:"email,omitempty"`

	// Name is the display name for the user.
	Name string `json:"name,omitempty"`

	// Role is the user's role at issue time ("user", "admin").
	Role string `json:"role,omitempty"`
}

// NewAccessClaims builds the full claim set for a short-lived access token.
func NewAccessClaims(
	subject, email, name, role string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Email: email,
		Name:  name,
		Role:  role,
	}
}

// NewRefreshClaims builds the minimal claim set for a long-lived refresh
// token: subject and jti only.
func NewRefreshClaims(subject string, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateStructure checks the invariants every usable claim set must hold:
// the subject must be present and exp must postdate iat. A failure here is a
// payload problem, distinct from a signature or expiry failure; the verifier
// already enforces exp/nbf during parsing.
func (c *Claims) ValidateStructure() error {
	if c.Subject == "" {
		return ErrInvalidClaim
	}

	if c.IssuedAt != nil && c.ExpiresAt != nil && !c.ExpiresAt.After(c.IssuedAt.Time) {
		return ErrInvalidClaim
	}

	return nil
}
