package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harshalself/authgate/internal/auth/domain"
	"github.com/harshalself/authgate/internal/auth/store"
	"github.com/harshalself/authgate/pkg/jwtx"
	"github.com/harshalself/authgate/pkg/slogx"
)

var (
	// ErrInvalidRefreshFormat marks a token that verified but does not look
	// like one of our refresh tokens (missing subject or jti).
	ErrInvalidRefreshFormat = errors.New("invalid_refresh_token_format")

	// ErrRefreshReused marks a refresh token that was already rotated or
	// revoked. Rotation is single-use; replaying an old token fails.
	ErrRefreshReused = errors.New("refresh_token_reused")

	// ErrPrincipalNotFound means the account behind the token no longer
	// exists.
	ErrPrincipalNotFound = errors.New("principal_not_found")

	// ErrRefreshFailed wraps any unexpected failure during rotation.
	ErrRefreshFailed = errors.New("refresh_failed")
)

// RefreshService rotates refresh tokens: redeeming a valid one revokes it
// and mints a fresh access/refresh pair from the current state of the
// principal, so role or email changes are picked up immediately.
type RefreshService struct {
	Store  store.Store
	Tokens *TokenService
}

// Rotate validates the inbound refresh token and exchanges it for a new
// pair. Token-verification failures propagate as jwtx sentinels; everything
// unexpected is wrapped in ErrRefreshFailed so the handler can keep typed
// failures and a generic 500 apart.
func (s *RefreshService) Rotate(
	ctx context.Context,
	refreshToken string,
) (domain.User, domain.TokenPair, error) {
	claims, err := s.Tokens.Verify(refreshToken)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	// A token signed for a different claim shape may verify fine but is not
	// redeemable here.
	if claims.Subject == "" || claims.ID == "" {
		return domain.User{}, domain.TokenPair{}, ErrInvalidRefreshFormat
	}

	var (
		user domain.User
		pair domain.TokenPair
	)

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		record, err := tx.RefreshTokens().GetRefreshToken(ctx, claims.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefreshFormat
			}
			return err
		}
		if record.Revoked || time.Now().UTC().After(record.ExpiresAt) {
			return ErrRefreshReused
		}
		if record.UserID != claims.Subject {
			return ErrInvalidRefreshFormat
		}

		// Re-resolve the principal; the account may have been deleted (or
		// changed) since the refresh token was issued.
		user, err = tx.Users().GetUserByID(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrPrincipalNotFound
			}
			return err
		}

		access, err := s.Tokens.IssueAccessToken(user)
		if err != nil {
			return err
		}

		refresh, jti, expiresAt, err := s.Tokens.IssueRefreshToken(user.ID)
		if err != nil {
			return err
		}

		// Atomically retire the redeemed token and record its successor. A
		// concurrent rotation can revoke the row between our read and this
		// update; the zero-row result then means the token was already spent.
		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, claims.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrRefreshReused
			}
			return err
		}
		if err := tx.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			JTI:       jti,
			UserID:    user.ID,
			ExpiresAt: expiresAt,
		}); err != nil {
			return err
		}

		pair = domain.TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    s.Tokens.AccessTTL,
		}
		return nil
	})
	if err != nil {
		if isTypedRotationError(err) {
			return domain.User{}, domain.TokenPair{}, err
		}
		slogx.FromContext(ctx).Error("refresh rotation failed", "err", err)
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	return user, pair, nil
}

// isTypedRotationError reports whether err is one of the recognised failure
// kinds that must reach the client unmodified.
func isTypedRotationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRefreshFormat),
		errors.Is(err, ErrRefreshReused),
		errors.Is(err, ErrPrincipalNotFound),
		errors.Is(err, jwtx.ErrExpired),
		errors.Is(err, jwtx.ErrMalformed),
		errors.Is(err, jwtx.ErrInvalidSig),
		errors.Is(err, jwtx.ErrMissingSecret):
		return true
	default:
		return false
	}
}
