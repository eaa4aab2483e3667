package jwtx_test

import (
	"testing"
	"time"

	"github.com/harshalself/authgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestNewAccessClaimsPopulatesIdentity(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	claims := jwtx.NewAccessClaims(
		"user-1", "a@example.com", "A", "admin",
		15*time.Minute, exampleIssuer, now,
	)

	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "a@example.com", claims.Email)
	require.Equal(t, "A", claims.Name)
	require.Equal(t, "admin", claims.Role)
	require.Equal(t, exampleIssuer, claims.Issuer)
	require.NotEmpty(t, claims.ID)
	require.Equal(t, now.Add(15*time.Minute).Unix(), claims.ExpiresAt.Unix())
}

func TestNewRefreshClaimsIsMinimal(t *testing.T) {
	t.Parallel()

	claims := jwtx.NewRefreshClaims("user-1", 7*24*time.Hour, exampleIssuer, time.Now().UTC())

	require.Equal(t, "user-1", claims.Subject)
	require.NotEmpty(t, claims.ID)
	require.Empty(t, claims.Email)
	require.Empty(t, claims.Name)
	require.Empty(t, claims.Role)
}

func TestNewJTIIsUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for range 100 {
		jti := jwtx.NewJTI()
		require.NotEmpty(t, jti)
		_, dup := seen[jti]
		require.False(t, dup)
		seen[jti] = struct{}{}
	}
}

func TestValidateStructure(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	valid := jwtx.NewAccessClaims("u", "", "", "user", time.Hour, exampleIssuer, now)
	require.NoError(t, valid.ValidateStructure())

	missingSubject := jwtx.NewAccessClaims("", "", "", "user", time.Hour, exampleIssuer, now)
	require.ErrorIs(t, missingSubject.ValidateStructure(), jwtx.ErrInvalidClaim)

	inverted := jwtx.NewAccessClaims("u", "", "", "user", -time.Hour, exampleIssuer, now)
	require.ErrorIs(t, inverted.ValidateStructure(), jwtx.ErrInvalidClaim)
}
