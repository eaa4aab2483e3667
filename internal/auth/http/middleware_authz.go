package http

import (
	"net/http"
	"strings"

	"github.com/harshalself/authgate/internal/auth/domain"
	"github.com/harshalself/authgate/pkg/httpx"
	"github.com/harshalself/authgate/pkg/slogx"
)

// RequireRole gates a route on the caller's role being a member of the
// allowed set. It is a pure function of the identity context and the
// statically supplied roles: no I/O happens here.
func RequireRole(allowed ...domain.Role) httpx.Middleware {
	want := make(map[domain.Role]struct{}, len(allowed))
	names := make([]string, 0, len(allowed))
	for _, role := range allowed {
		want[role] = struct{}{}
		names = append(names, role.String())
	}
	required := strings.Join(names, " or ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				// Defensive: this means the pipeline was misordered and
				// authentication never ran.
				httpx.WriteError(w, r, http.StatusUnauthorized,
					CodeAuthenticationRequired, "Authentication required")
				return
			}

			if id.Role == "" {
				// A token issued before roles existed, or a degraded claim
				// set that slipped through.
				httpx.WriteError(w, r, http.StatusForbidden,
					CodeRoleNotFound, "User role not found")
				return
			}

			if _, ok := want[id.Role]; !ok {
				slogx.FromContext(r.Context()).Warn("authz denied",
					"sub", id.SubjectID,
					"role", id.Role.String(),
					"required", required,
				)
				// Naming the required roles is safe; they are not secret.
				httpx.WriteError(w, r, http.StatusForbidden,
					CodeAccessDenied, "Access denied. Required role: "+required)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
