package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/harshalself/authgate/internal/auth/domain"
	"github.com/harshalself/authgate/pkg/httpx"
	"github.com/harshalself/authgate/pkg/jwtx"
	"github.com/harshalself/authgate/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "authgate-test"

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testCodec(t *testing.T) (jwtx.Signer, jwtx.Verifier) {
	t.Helper()
	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(testSecret, testIssuer)
	require.NoError(t, err)
	return signer, verifier
}

func mintToken(t *testing.T, signer jwtx.Signer, role string, ttl time.Duration, issuedAt time.Time) string {
	t.Helper()
	claims := jwtx.NewAccessClaims(
		"user-1", "user@example.com", "Test User", role,
		ttl, testIssuer, issuedAt,
	)
	token, err := signer.Sign(claims)
	require.NoError(t, err)
	return token
}

// identitySpy records the identity (if any) the middleware attached before
// invoking the inner handler.
type identitySpy struct {
	called bool
	id     Identity
	ok     bool
}

func (s *identitySpy) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.called = true
		s.id, s.ok = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpx.ErrorEnvelope {
	t.Helper()
	var envelope httpx.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.False(t, envelope.Success)
	return envelope
}

func serveAuthn(t *testing.T, v jwtx.Verifier, path, authz string) (*httptest.ResponseRecorder, *identitySpy) {
	t.Helper()
	spy := &identitySpy{}
	h := AuthnMiddleware(v)(spy.handler())

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "203.0.113.7:1234"
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, spy
}

func TestAuthnExemptRoutesBypassVerification(t *testing.T) {
	t.Parallel()

	_, verifier := testCodec(t)

	for _, path := range []string{
		"/v1/users/register",
		"/v1/users/login",
		"/v1/auth/refresh",
		"/healthz",
		"/api-docs",
		"/api-docs/anything",
	} {
		rec, spy := serveAuthn(t, verifier, path, "")
		require.Equal(t, http.StatusOK, rec.Code, "path %s", path)
		require.True(t, spy.called, "path %s", path)
		require.False(t, spy.ok, "exempt routes carry no identity")
	}
}

func TestAuthnMissingToken(t *testing.T) {
	t.Parallel()

	_, verifier := testCodec(t)

	cases := map[string]string{
		"no header":      "",
		"empty bearer":   "Bearer",
		"wrong scheme":   "Basic dXNlcjpwYXNz",
		"literal null":   "Bearer null",
		"lowercase word": "bearer sometoken",
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec, spy := serveAuthn(t, verifier, "/v1/users/me", header)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.False(t, spy.called)
			require.Equal(t, CodeMissingToken, decodeError(t, rec).Error.Code)
		})
	}
}

func TestAuthnValidTokenAttachesIdentity(t *testing.T) {
	t.Parallel()

	signer, verifier := testCodec(t)
	token := mintToken(t, signer, "admin", 5*time.Minute, time.Now().UTC())

	rec, spy := serveAuthn(t, verifier, "/v1/users/me", "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, spy.called)
	require.True(t, spy.ok)
	require.Equal(t, "user-1", spy.id.SubjectID)
	require.Equal(t, domain.RoleAdmin, spy.id.Role)
	require.Equal(t, "public", spy.id.Tenant)
	require.Equal(t, "203.0.113.7", spy.id.ClientIP)
}

func TestAuthnTenantSegment(t *testing.T) {
	t.Parallel()

	signer, verifier := testCodec(t)
	token := mintToken(t, signer, "user", 5*time.Minute, time.Now().UTC())

	t.Run("known tenant is honoured", func(t *testing.T) {
		_, spy := serveAuthn(t, verifier, "/v1/users/me", "Bearer "+token+" tenant1")
		require.True(t, spy.ok)
		require.Equal(t, "tenant1", spy.id.Tenant)
	})

	t.Run("unknown tenant falls back to public", func(t *testing.T) {
		_, spy := serveAuthn(t, verifier, "/v1/users/me", "Bearer "+token+" drop-table")
		require.True(t, spy.ok)
		require.Equal(t, "public", spy.id.Tenant)
	})
}

func TestAuthnExpiredToken(t *testing.T) {
	t.Parallel()

	signer, verifier := testCodec(t)
	token := mintToken(t, signer, "user", time.Minute, time.Now().UTC().Add(-time.Hour))

	rec, spy := serveAuthn(t, verifier, "/v1/users/me", "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, spy.called)
	require.Equal(t, CodeTokenExpired, decodeError(t, rec).Error.Code)
}

func TestAuthnForeignSignature(t *testing.T) {
	t.Parallel()

	foreignSigner, err := jwtx.NewSignerHS256([]byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)
	_, verifier := testCodec(t)

	token := mintToken(t, foreignSigner, "user", 5*time.Minute, time.Now().UTC())

	rec, _ := serveAuthn(t, verifier, "/v1/users/me", "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, CodeTokenSignatureInvalid, decodeError(t, rec).Error.Code)
}

func TestAuthnGarbageToken(t *testing.T) {
	t.Parallel()

	_, verifier := testCodec(t)

	rec, _ := serveAuthn(t, verifier, "/v1/users/me", "Bearer not.a.jwt")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, CodeInvalidTokenFormat, decodeError(t, rec).Error.Code)
}

func TestAuthnAuditLogsCarryMethodAndPath(t *testing.T) {
	t.Parallel()

	signer, verifier := testCodec(t)

	serve := func(t *testing.T, authz string) string {
		t.Helper()
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		spy := &identitySpy{}
		h := AuthnMiddleware(verifier)(spy.handler())

		req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		req = req.WithContext(slogx.WithContext(req.Context(), logger))
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		h.ServeHTTP(httptest.NewRecorder(), req)
		return buf.String()
	}

	t.Run("rejection", func(t *testing.T) {
		out := serve(t, "Bearer null")
		require.Contains(t, out, "outcome="+CodeMissingToken)
		require.Contains(t, out, "method=GET")
		require.Contains(t, out, "path=/v1/users/me")
	})

	t.Run("success", func(t *testing.T) {
		token := mintToken(t, signer, "user", 5*time.Minute, time.Now().UTC())
		out := serve(t, "Bearer "+token)
		require.Contains(t, out, "outcome=success")
		require.Contains(t, out, "method=GET")
		require.Contains(t, out, "path=/v1/users/me")
	})
}

func TestAuthnUnknownRoleIsInvalidPayload(t *testing.T) {
	t.Parallel()

	signer, verifier := testCodec(t)
	token := mintToken(t, signer, "superuser", 5*time.Minute, time.Now().UTC())

	rec, spy := serveAuthn(t, verifier, "/v1/users/me", "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, spy.called)
	require.Equal(t, CodeInvalidPayload, decodeError(t, rec).Error.Code)
}
