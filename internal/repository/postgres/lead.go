package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
)

type leadRepository struct {
	BaseRepository
}

func NewLeadRepository(base BaseRepository) repository.LeadRepository {
	return &leadRepository{base}
}

func (r *leadRepository) Create(ctx context.Context, lead *model.Lead) error {
	query := `
		INSERT INTO form (id, isim, soyisim, eposta, telefon, mesaj, arama_tetiklendi, olusturulma_tarihi)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7)
	`
	lead.ID = uuid.New()
	lead.CreatedAt = time.Now()

	if _, err := r.db.ExecContext(ctx, query,
		lead.ID, lead.FirstName, lead.LastName, lead.Email,
		lead.Phone, lead.Message, lead.CreatedAt); err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

func (r *leadRepository) Get(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	query := `
		SELECT id, isim, soyisim, eposta, telefon, mesaj, arama_tetiklendi, olusturulma_tarihi
		FROM form
		WHERE id = $1
	`
	var lead model.Lead
	if err := r.db.GetContext(ctx, &lead, query, id); err != nil {
		return nil, notFoundOr(err, "lead")
	}
	return &lead, nil
}

func (r *leadRepository) List(ctx context.Context) ([]*model.Lead, error) {
	query := `
		SELECT id, isim, soyisim, eposta, telefon, mesaj, arama_tetiklendi, olusturulma_tarihi
		FROM form
		ORDER BY olusturulma_tarihi DESC
	`
	var leads []*model.Lead
	if err := r.db.SelectContext(ctx, &leads, query); err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

func (r *leadRepository) SetCallTriggered(ctx context.Context, id uuid.UUID, triggered bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE form SET arama_tetiklendi = $1 WHERE id = $2`, triggered, id)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errNotFound("lead")
	}
	return nil
}

func (r *leadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM form WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errNotFound("lead")
	}
	return nil
}
