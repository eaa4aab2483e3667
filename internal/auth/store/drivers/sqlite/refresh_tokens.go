package sqlite

import (
	"context"
	"time"

	"github.com/harshalself/authgate/internal/auth/domain"
)

type refreshTokensRepo struct {
	db dbtx
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (jti, user_id, expires_at, revoked, created_at, updated_at)
		 VALUES (?, ?, ?, 0, ?, ?)`,
		t.JTI, t.UserID, t.ExpiresAt.UTC(), now, now)
	return mapConstraint(err)
}

func (r *refreshTokensRepo) GetRefreshToken(ctx context.Context, jti string) (domain.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT jti, user_id, expires_at, revoked, created_at, updated_at
		 FROM refresh_tokens WHERE jti = ?`, jti)

	var t domain.RefreshToken
	err := row.Scan(&t.JTI, &t.UserID, &t.ExpiresAt, &t.Revoked, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, jti string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = 1, updated_at = ? WHERE jti = ? AND revoked = 0`,
		time.Now().UTC(), jti)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < ?`, time.Now().UTC())
	return err
}
