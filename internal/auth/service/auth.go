package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/harshalself/authgate/internal/auth/domain"
	"github.com/harshalself/authgate/internal/auth/store"
	"github.com/harshalself/authgate/pkg/cryptox"
	"github.com/harshalself/authgate/pkg/idx"
	"github.com/harshalself/authgate/pkg/slogx"
)

var (
	ErrEmailTaken    = errors.New("email_already_registered")
	ErrUnknownEmail  = errors.New("email_not_registered")
	ErrWrongPassword = errors.New("incorrect_password")
)

// AuthService owns registration and login: credential verification plus
// minting of the initial token pair.
type AuthService struct {
	Store  store.Store
	Tokens *TokenService
}

// Register creates a new user with the default role and issues their first
// token pair.
func (s *AuthService) Register(
	ctx context.Context,
	email, name, password string,
) (domain.User, domain.TokenPair, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, domain.TokenPair{}, ErrEmailTaken
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", u.ID)
	return u, pair, nil
}

// Login verifies the credentials and issues a fresh token pair. Unknown
// email and wrong password stay distinguishable because the API reports them
// with different statuses.
func (s *AuthService) Login(
	ctx context.Context,
	email, password string,
) (domain.User, domain.TokenPair, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrUnknownEmail
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		slogx.FromContext(ctx).Info("login password verification failed", "user_id", u.ID)
		return domain.User{}, domain.TokenPair{}, ErrWrongPassword
	}

	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	return u, pair, nil
}

// issuePair mints an access/refresh pair and records the refresh jti so the
// token can later be rotated exactly once.
func (s *AuthService) issuePair(ctx context.Context, u domain.User) (domain.TokenPair, error) {
	access, err := s.Tokens.IssueAccessToken(u)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refresh, jti, expiresAt, err := s.Tokens.IssueRefreshToken(u.ID)
	if err != nil {
		return domain.TokenPair{}, err
	}

	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		JTI:       jti,
		UserID:    u.ID,
		ExpiresAt: expiresAt,
	}); err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.Tokens.AccessTTL,
	}, nil
}
