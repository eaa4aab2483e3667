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

type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
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

	user, pair, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownEmail):
			httpx.WriteError(w, r, http.StatusNotFound, CodeUnknownEmail,
				"Email not registered")
		case errors.Is(err, service.ErrWrongPassword):
			httpx.WriteError(w, r, http.StatusUnauthorized, CodeWrongPassword,
				"Incorrect password")
		default:
			log.Error("login failed", "err", err)
			httpx.WriteError(w, r, http.StatusInternalServerError, CodeInternal,
				"Login failed")
		}
		return
	}

	httpx.WriteSuccess(w, r, http.StatusOK, authResponse{
		User:         newUserView(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	}, "Login successful")
}
