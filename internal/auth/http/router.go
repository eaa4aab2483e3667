package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/harshalself/authgate/internal/auth/domain"
	"github.com/harshalself/authgate/internal/auth/service"
	"github.com/harshalself/authgate/internal/auth/store"
	"github.com/harshalself/authgate/pkg/httpx"
	"github.com/harshalself/authgate/pkg/jwtx"
	"github.com/harshalself/authgate/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	limiter      *httpx.RateLimiter
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	AuthService    *service.AuthService
	RefreshService *service.RefreshService
	UserService    *service.UserService
}

func NewRouter(
	verifier jwtx.Verifier,
	limiter *httpx.RateLimiter,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		limiter:      limiter,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	authn := AuthnMiddleware(r.verifier)

	// Credential endpoints share the strict auth-class window. They are
	// exempt from token verification but the middleware still runs so route
	// exemptions live in exactly one place.
	r.Mux.Handle("POST /v1/users/register",
		httpx.Chain(&RegisterHandler{AuthService: r.AuthService},
			r.limiter.Limit("auth", httpx.AuthLimit),
			authn,
		),
	)

	r.Mux.Handle("POST /v1/users/login",
		httpx.Chain(&LoginHandler{AuthService: r.AuthService},
			r.limiter.Limit("auth", httpx.AuthLimit),
			authn,
		),
	)

	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(&RefreshHandler{RefreshService: r.RefreshService},
			r.limiter.Limit("auth", httpx.AuthLimit),
			authn,
		),
	)
}

func (r *Router) registerUsers() {
	authn := AuthnMiddleware(r.verifier)
	apiLimit := r.limiter.Limit("api", httpx.APILimit)

	r.Mux.Handle("GET /v1/users/me",
		httpx.Chain(&MeHandler{UserService: r.UserService},
			apiLimit,
			authn,
			RequireRole(domain.RoleUser, domain.RoleAdmin),
		),
	)

	r.Mux.Handle("GET /v1/users",
		httpx.Chain(&ListUsersHandler{UserService: r.UserService},
			apiLimit,
			authn,
			RequireRole(domain.RoleAdmin),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /healthz",
		HealthzHandler(r.startTime, r.buildVersion, r.store),
	)
}

// UploadGuard wraps a handler with the upload-class rate limit. No upload
// routes ship here yet; services mounting file endpoints onto the router use
// this to stay on the shared counters.
func (r *Router) UploadGuard(h http.Handler) http.Handler {
	return httpx.Chain(h,
		r.limiter.Limit("upload", httpx.UploadLimit),
		AuthnMiddleware(r.verifier),
	)
}
