package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the minimum HMAC secret length we accept. Anything shorter
// than 32 bytes makes brute-forcing the shared secret feasible.
const MinSecretLen = 32

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")

	ErrInvalidClaim  = errors.New("jwtx: invalid claims")
	ErrMissingSecret = errors.New("jwtx: signing secret missing or too short")
)

// Signer is our interface for anything that can sign a claim set.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// Verifier validates a compact token and gives you back the claims if it's
// legit. Failures are one of the sentinel errors above so callers can branch
// with errors.Is.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256Signer signs tokens with a single server-held HMAC-SHA256 secret.
// The secret is loaded once at startup; a missing or short secret is a
// construction-time failure, never a silent default.
type HS256Signer struct {
	secret []byte
}

// NewSignerHS256 builds a signer from the shared secret.
func NewSignerHS256(secret []byte) (*HS256Signer, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrMissingSecret
	}
	return &HS256Signer{secret: secret}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign takes your claims and turns them into a signed compact JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	if len(s.secret) < MinSecretLen {
		return "", ErrMissingSecret
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// HS256Verifier verifies tokens signed by HS256Signer. The algorithm is
// pinned so a token re-signed under a different method never validates.
type HS256Verifier struct {
	secret []byte
	issuer string
	leeway time.Duration
}

// NewVerifierHS256 builds a verifier sharing the signer's secret. Issuer is
// enforced when non-empty.
func NewVerifierHS256(secret []byte, issuer string) (*HS256Verifier, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrMissingSecret
	}
	return &HS256Verifier{
		secret: secret,
		issuer: issuer,
		leeway: 5 * time.Second,
	}, nil
}

// Verify decodes and validates signature plus time-based claims. The error
// kinds (expired, malformed, signature, missing secret) stay distinguishable
// because the HTTP layer maps each to a different response.
func (v *HS256Verifier) Verify(token string) (Claims, error) {
	if len(v.secret) < MinSecretLen {
		return Claims{}, ErrMissingSecret
	}

	var claims Claims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	return claims, nil
}

// mapParseError flattens golang-jwt's joined errors into our sentinels.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return ErrInvalidClaim
	default:
		return ErrMalformed
	}
}
