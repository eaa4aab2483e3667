package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/harshalself/authgate/internal/auth/service"
	"github.com/harshalself/authgate/pkg/httpx"
	"github.com/harshalself/authgate/pkg/slogx"
)

type RegisterHandler struct {
	AuthService *service.AuthService
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, CodeValidation, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, CodeValidation,
			"Email and password are required")
		return
	}

	user, pair, err := h.AuthService.Register(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			httpx.WriteError(w, r, http.StatusConflict, CodeEmailTaken,
				"Email already registered")
			return
		}
		log.Error("registration failed", "err", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, CodeInternal,
			"Registration failed")
		return
	}

	httpx.WriteSuccess(w, r, http.StatusCreated, authResponse{
		User:         newUserView(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	}, "User registered successfully")
}
