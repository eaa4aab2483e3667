package http

import (
	"context"

	"github.com/harshalself/authgate/internal/auth/domain"
)

// Identity is the request-scoped result of authentication. It lives only for
// the request, is attached once by the authn middleware, and is read-only
// for everything downstream.
type Identity struct {
	SubjectID string
	Role      domain.Role
	Tenant    string
	ClientIP  string
	UserAgent string
}

type identityKey struct{}

func contextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
