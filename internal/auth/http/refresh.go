package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harshalself/authgate/internal/auth/service"
	"github.com/harshalself/authgate/pkg/httpx"
	"github.com/harshalself/authgate/pkg/jwtx"
	"github.com/harshalself/authgate/pkg/slogx"
)

type RefreshHandler struct {
	RefreshService *service.RefreshService
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, CodeValidation,
			"refreshToken is required")
		return
	}

	user, pair, err := h.RefreshService.Rotate(ctx, req.RefreshToken)
	if err != nil {
		status, code, msg := mapRotateError(err)
		if status >= http.StatusInternalServerError {
			log.Error("refresh rotation failed", "err", err)
		} else {
			log.Warn("refresh rejected", "code", code)
		}
		httpx.WriteError(w, r, status, code, msg)
		return
	}

	httpx.WriteSuccess(w, r, http.StatusOK, authResponse{
		User:         newUserView(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	}, "Token refreshed")
}

// mapRotateError keeps the refresh endpoint's taxonomy aligned with the
// authentication middleware: token-level failures reuse the same codes, and
// only genuinely unexpected errors collapse into REFRESH_FAILED.
func mapRotateError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, jwtx.ErrExpired):
		return http.StatusUnauthorized, CodeTokenExpired, "Refresh token expired"
	case errors.Is(err, jwtx.ErrInvalidSig):
		return http.StatusUnauthorized, CodeTokenSignatureInvalid, "Refresh token signature is invalid"
	case errors.Is(err, jwtx.ErrMalformed), errors.Is(err, jwtx.ErrInvalidClaim):
		return http.StatusUnauthorized, CodeInvalidRefreshFormat, "Invalid refresh token"
	case errors.Is(err, service.ErrInvalidRefreshFormat):
		return http.StatusUnauthorized, CodeInvalidRefreshFormat, "Invalid refresh token"
	case errors.Is(err, service.ErrRefreshReused):
		return http.StatusUnauthorized, CodeRefreshReused, "Refresh token already used"
	case errors.Is(err, service.ErrPrincipalNotFound):
		return http.StatusNotFound, CodePrincipalNotFound, "User no longer exists"
	case errors.Is(err, jwtx.ErrMissingSecret):
		return http.StatusInternalServerError, CodeSigningBroken, "Token signing unavailable"
	default:
		return http.StatusInternalServerError, CodeRefreshFailed, "Token refresh failed"
	}
}
