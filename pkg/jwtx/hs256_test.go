package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/harshalself/authgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "https://auth.example.com"

var exampleSecret = []byte("0123456789abcdef0123456789abcdef")

func TestHS256SignAndVerify(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewSignerHS256(exampleSecret)
	require.NoError(t, err)
	require.Equal(t, "HS256", signer.Alg())

	now := time.Now().UTC()
	claims := jwtx.NewAccessClaims(
		"user-123",
		"user@example.com",
		"Example User",
		"user",
		5*time.Minute,
		exampleIssuer,
		now,
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	verifier, err := jwtx.NewVerifierHS256(exampleSecret, exampleIssuer)
	require.NoError(t, err)

	parsed, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, claims.Subject, parsed.Subject)
	require.Equal(t, claims.Email, parsed.Email)
	require.Equal(t, claims.Name, parsed.Name)
	require.Equal(t, claims.Role, parsed.Role)
	require.Equal(t, exampleIssuer, parsed.Issuer)
	require.NotEmpty(t, parsed.ID) // JTI should be set
}

func TestHS256RejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := jwtx.NewSignerHS256([]byte("too-short"))
	require.ErrorIs(t, err, jwtx.ErrMissingSecret)

	_, err = jwtx.NewVerifierHS256([]byte("too-short"), exampleIssuer)
	require.ErrorIs(t, err, jwtx.ErrMissingSecret)
}

func TestHS256VerifyFailsForWrongSecret(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewSignerHS256(exampleSecret)
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims(
		"user-123", "user@example.com", "Example User", "user",
		5*time.Minute, exampleIssuer, time.Now().UTC(),
	)
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	other := []byte("ffffffffffffffffffffffffffffffff")
	verifier, err := jwtx.NewVerifierHS256(other, exampleIssuer)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestHS256VerifyFailsForExpiredToken(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewSignerHS256(exampleSecret)
	require.NoError(t, err)

	// Issued well in the past so the verifier's leeway cannot save it.
	issued := time.Now().UTC().Add(-time.Hour)
	claims := jwtx.NewAccessClaims(
		"user-123", "user@example.com", "Example User", "user",
		time.Minute, exampleIssuer, issued,
	)
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	verifier, err := jwtx.NewVerifierHS256(exampleSecret, exampleIssuer)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestHS256VerifyFailsForWrongIssuer(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewSignerHS256(exampleSecret)
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims(
		"user-123", "user@example.com", "Example User", "user",
		5*time.Minute, "https://rogue.example.com", time.Now().UTC(),
	)
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	verifier, err := jwtx.NewVerifierHS256(exampleSecret, exampleIssuer)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
}

func TestHS256VerifyFailsForMalformedToken(t *testing.T) {
	t.Parallel()

	verifier, err := jwtx.NewVerifierHS256(exampleSecret, exampleIssuer)
	require.NoError(t, err)

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrMalformed, "token %q", tok)
	}
}

func TestHS256VerifyFailsForTamperedToken(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewSignerHS256(exampleSecret)
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims(
		"user-123", "user@example.com", "Example User", "user",
		5*time.Minute, exampleIssuer, time.Now().UTC(),
	)
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	// Flip the signature segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	parts[2] = strings.Repeat("A", len(parts[2]))
	tampered := strings.Join(parts, ".")

	verifier, err := jwtx.NewVerifierHS256(exampleSecret, exampleIssuer)
	require.NoError(t, err)

	_, err = verifier.Verify(tampered)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}
