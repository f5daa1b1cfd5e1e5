package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
)

type sessionRepository struct {
	BaseRepository
}

func NewSessionRepository(base BaseRepository) repository.SessionRepository {
	return &sessionRepository{base}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	query := `
		INSERT INTO sessions (id, identity_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query,
		session.ID, session.IdentityID, session.CreatedAt, session.ExpiresAt); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Get treats an expired row the same as a missing one; the sweeper removes
// it eventually either way.
func (r *sessionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	query := `
		SELECT id, identity_id, created_at, expires_at
		FROM sessions
		WHERE id = $1 AND expires_at > NOW()
	`
	var session model.Session
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, notFoundOr(err, "session")
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errNotFound("session")
	}
	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) ([]*model.Session, error) {
	query := `
		DELETE FROM sessions
		WHERE expires_at <= $1
		RETURNING id, identity_id, created_at, expires_at
	`
	var expired []*model.Session
	if err := r.db.SelectContext(ctx, &expired, query, now); err != nil {
		return nil, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return expired, nil
}
