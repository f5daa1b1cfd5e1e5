package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
)

type catalogRepository struct {
	BaseRepository
}

func NewCatalogRepository(base BaseRepository) repository.CatalogRepository {
	return &catalogRepository{base}
}

func (r *catalogRepository) ListServices(ctx context.Context, onlyActive bool) ([]*model.ClinicService, error) {
	query := `
		SELECT id, fiyat, sure_dakika, aciklama, aktif, uzmanlik_id
		FROM hizmet
	`
	if onlyActive {
		query += " WHERE aktif = true"
	}
	query += " ORDER BY aciklama ASC"

	var services []*model.ClinicService
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (r *catalogRepository) CreateService(ctx context.Context, svc *model.ClinicService) error {
	query := `
		INSERT INTO hizmet (id, fiyat, sure_dakika, aciklama, aktif, uzmanlik_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if svc.ID == uuid.Nil {
		svc.ID = uuid.New()
	}
	if _, err := r.db.ExecContext(ctx, query,
		svc.ID, svc.Price, svc.DurationMinutes, svc.Description, svc.Active, svc.SpecialtyID); err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *catalogRepository) UpdateService(ctx context.Context, svc *model.ClinicService) error {
	query := `
		UPDATE hizmet
		SET fiyat = $1, sure_dakika = $2, aciklama = $3, aktif = $4, uzmanlik_id = $5
		WHERE id = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		svc.Price, svc.DurationMinutes, svc.Description, svc.Active, svc.SpecialtyID, svc.ID)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errNotFound("service")
	}
	return nil
}

func (r *catalogRepository) DeleteService(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM hizmet WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errNotFound("service")
	}
	return nil
}

func (r *catalogRepository) ListSpecialties(ctx context.Context) ([]*model.Specialty, error) {
	var specialties []*model.Specialty
	if err := r.db.SelectContext(ctx, &specialties,
		`SELECT id, ad FROM uzmanlik ORDER BY ad ASC`); err != nil {
		return nil, fmt.Errorf("failed to list specialties: %w", err)
	}
	return specialties, nil
}

func (r *catalogRepository) CreateSpecialty(ctx context.Context, specialty *model.Specialty) error {
	if err := r.db.GetContext(ctx, &specialty.ID,
		`INSERT INTO uzmanlik (ad) VALUES ($1) RETURNING id`, specialty.Name); err != nil {
		return fmt.Errorf("failed to create specialty: %w", err)
	}
	return nil
}

func (r *catalogRepository) DeleteSpecialty(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM uzmanlik WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete specialty: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errNotFound("specialty")
	}
	return nil
}
