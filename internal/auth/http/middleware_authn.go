package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/harshalself/authgate/internal/auth/domain"
	"github.com/harshalself/authgate/pkg/httpx"
	"github.com/harshalself/authgate/pkg/jwtx"
	"github.com/harshalself/authgate/pkg/slogx"
)

// Routes that bypass authentication entirely. Matching is exact except for
// the documentation prefix. Checked before any token parsing so public
// endpoints stay reachable and we do no crypto work for them.
var exemptRoutes = map[string]struct{}{
	"/v1/users/register": {},
	"/v1/users/login":    {},
	"/v1/auth/refresh":   {},
	"/healthz":           {},
}

const docsPrefix = "/api-docs"

func isExemptRoute(path string) bool {
	if _, ok := exemptRoutes[path]; ok {
		return true
	}
	return strings.HasPrefix(path, docsPrefix)
}

// Tenant schemas a request may select via the third Authorization segment.
// Anything else falls back to the public schema, which keeps arbitrary
// strings out of downstream schema selection.
var allowedTenants = map[string]struct{}{
	"public":  {},
	"tenant1": {},
	"tenant2": {},
	"admin":   {},
}

const defaultTenant = "public"

// AuthnMiddleware extracts the bearer token, verifies it, and attaches the
// resolved Identity to the request context. Every outcome is audit-logged
// with route, method and result, never the token itself.
func AuthnMiddleware(v jwtx.Verifier) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			if isExemptRoute(r.URL.Path) {
				log.Debug("authn", "outcome", "exempt")
				next.ServeHTTP(w, r)
				return
			}

			authz := r.Header.Get("Authorization")
			if authz == "" {
				failAuthn(w, r, http.StatusUnauthorized, CodeMissingToken,
					"Authentication token missing")
				return
			}

			// "Bearer <token> [tenant]" - clients may append a tenant
			// schema as a third segment.
			segments := strings.Fields(authz)
			if len(segments) < 2 || segments[0] != "Bearer" {
				failAuthn(w, r, http.StatusUnauthorized, CodeMissingToken,
					"Authentication token missing")
				return
			}

			raw := segments[1]
			// Browsers serialise an absent token as the literal "null";
			// treat it as missing, never as a candidate token.
			if raw == "" || raw == "null" {
				failAuthn(w, r, http.StatusUnauthorized, CodeMissingToken,
					"Authentication token missing")
				return
			}

			tenant := defaultTenant
			if len(segments) >= 3 {
				if _, ok := allowedTenants[segments[2]]; ok {
					tenant = segments[2]
				}
			}

			claims, err := v.Verify(raw)
			if err != nil {
				status, code, msg := mapVerifyError(err)
				failAuthn(w, r, status, code, msg)
				return
			}

			// Signature and expiry are fine; now the payload itself must
			// hold structurally and carry a known role to be usable.
			role, roleOK := domain.ParseRole(claims.Role)
			if claims.ValidateStructure() != nil || !roleOK {
				failAuthn(w, r, http.StatusUnauthorized, CodeInvalidPayload,
					"Authentication token payload is invalid")
				return
			}

			id := Identity{
				SubjectID: claims.Subject,
				Role:      role,
				Tenant:    tenant,
				ClientIP:  httpx.ClientIP(r),
				UserAgent: r.UserAgent(),
			}

			log.Info("authn",
				"outcome", "success",
				"method", r.Method,
				"path", r.URL.Path,
				"sub", id.SubjectID,
				"role", id.Role.String(),
				"tenant", id.Tenant,
			)

			next.ServeHTTP(w, r.WithContext(contextWithIdentity(ctx, id)))
		})
	}
}

// mapVerifyError translates the codec's sentinel errors into the response
// taxonomy. The kinds stay separate on purpose: "your session expired" and
// "request tampered with" are different conversations with the user.
func mapVerifyError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, jwtx.ErrExpired):
		return http.StatusUnauthorized, CodeTokenExpired, "Authentication token expired"
	case errors.Is(err, jwtx.ErrInvalidSig):
		return http.StatusUnauthorized, CodeTokenSignatureInvalid, "Authentication token signature is invalid"
	case errors.Is(err, jwtx.ErrMissingSecret):
		return http.StatusInternalServerError, CodeSigningBroken, "Token verification unavailable"
	default:
		return http.StatusUnauthorized, CodeInvalidTokenFormat, "Invalid authentication token"
	}
}

func failAuthn(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	slogx.FromContext(r.Context()).Warn("authn",
		"outcome", code,
		"method", r.Method,
		"path", r.URL.Path,
		"ip", httpx.ClientIP(r),
	)
	httpx.WriteError(w, r, status, code, msg)
}
