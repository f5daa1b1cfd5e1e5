package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/klinikvoice/admin-api/internal/repository"
)

type tokenRepository struct {
	BaseRepository
}

func NewTokenRepository(base BaseRepository) repository.TokenRepository {
	return &tokenRepository{base}
}

func (r *tokenRepository) StoreResetToken(ctx context.Context, loginID uuid.UUID, token string, expiry time.Time) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO login_tokens (login_id, token, type, expires_at, created_at)
			VALUES ($1, $2, 'reset', $3, NOW())
			ON CONFLICT (login_id, type) DO UPDATE
			SET token = $2, expires_at = $3, used_at = NULL
		`
		_, err := tx.ExecContext(ctx, query, loginID, token, expiry)
		return err
	})
}

func (r *tokenRepository) ValidateResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	query := `
		SELECT login_id
		FROM login_tokens
		WHERE token = $1
		AND type = 'reset'
		AND expires_at > NOW()
		AND used_at IS NULL
	`
	var loginID uuid.UUID
	if err := r.db.GetContext(ctx, &loginID, query, token); err != nil {
		return uuid.Nil, fmt.Errorf("invalid or expired token")
	}
	return loginID, nil
}

func (r *tokenRepository) InvalidateResetToken(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE login_tokens SET used_at = NOW() WHERE token = $1 AND type = 'reset'`, token); err != nil {
		return fmt.Errorf("failed to invalidate token: %w", err)
	}
	return nil
}
