package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/harshalself/authgate/internal/auth/domain"
	"github.com/harshalself/authgate/internal/auth/service"
	"github.com/harshalself/authgate/internal/auth/store"
	"github.com/harshalself/authgate/pkg/httpx"
	"github.com/harshalself/authgate/pkg/slogx"
)

// userView is the sanitised user shape sent over the wire. The password hash
// never leaves the service boundary.
type userView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newUserView(u domain.User) userView {
	return userView{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// authResponse is the payload for register, login and refresh.
type authResponse struct {
	User         userView `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	ExpiresIn    int      `json:"expiresIn"`
}

// MeHandler returns the authenticated caller's own record, resolved fresh
// from the store rather than echoed back from claims.
type MeHandler struct {
	UserService *service.UserService
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, r, http.StatusUnauthorized,
			CodeAuthenticationRequired, "Authentication required")
		return
	}

	u, err := h.UserService.GetUserByID(ctx, id.SubjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, r, http.StatusNotFound,
				CodePrincipalNotFound, "User no longer exists")
			return
		}
		slogx.FromContext(ctx).Error("me lookup failed", "err", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, CodeInternal,
			"Failed to load user")
		return
	}

	httpx.WriteSuccess(w, r, http.StatusOK, newUserView(u), "")
}

// ListUsersHandler lists every account. The router gates it behind the admin
// role.
type ListUsersHandler struct {
	UserService *service.UserService
}

func (h *ListUsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.UserService.ListUsers(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("list users failed", "err", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, CodeInternal,
			"Failed to list users")
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, newUserView(u))
	}

	httpx.WriteSuccess(w, r, http.StatusOK, views, "")
}
