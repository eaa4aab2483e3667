package service

import (
	"time"

	"github.com/harshalself/authgate/internal/auth/domain"
	"github.com/harshalself/authgate/pkg/jwtx"
)

// TokenService issues and verifies the access/refresh token pair. The signer
// holds the server secret for the process lifetime; issuance is pure CPU
// work, no I/O.
type TokenService struct {
	Signer     jwtx.Signer
	Verifier   jwtx.Verifier
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssueAccessToken signs a short-lived token carrying the full identity
// claim set for the given principal.
func (s *TokenService) IssueAccessToken(u domain.User) (string, error) {
	claims := jwtx.NewAccessClaims(
		u.ID,
		u.Email,
		u.Name,
		u.Role.String(),
		s.AccessTTL,
		s.Issuer,
		time.Now().UTC(),
	)
	return s.Signer.Sign(claims)
}

// IssueRefreshToken signs a long-lived token carrying only the subject. The
// jti and expiry are returned so the caller can persist the rotation record.
func (s *TokenService) IssueRefreshToken(subjectID string) (token, jti string, expiresAt time.Time, err error) {
	claims := jwtx.NewRefreshClaims(subjectID, s.RefreshTTL, s.Issuer, time.Now().UTC())

	token, err = s.Signer.Sign(claims)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return token, claims.ID, claims.ExpiresAt.Time, nil
}

// Verify decodes and validates a token. Failures are the jwtx sentinels
// (expired, malformed, signature, missing secret) so callers can map each to
// a distinct response.
func (s *TokenService) Verify(token string) (jwtx.Claims, error) {
	return s.Verifier.Verify(token)
}
