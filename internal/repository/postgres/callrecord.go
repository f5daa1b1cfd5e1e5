package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
)

type callRecordRepository struct {
	BaseRepository
}

func NewCallRecordRepository(base BaseRepository) repository.CallRecordRepository {
	return &callRecordRepository{base}
}

const callRecordColumns = `
	id, arama_tipi, numara, cagri_tarihi, cagri_suresi, ozet, durum,
	not_oncelik, kayit_url, transkript, randevu_id, kayit_tarihi
`

// CountSince backs the notification badges: records of a category recorded
// strictly after the cursor.
func (r *callRecordRepository) CountSince(ctx context.Context, category model.CallCategory, since time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM arama_kayit
		WHERE arama_tipi = $1 AND kayit_tarihi > $2
	`
	var count int64
	if err := r.db.GetContext(ctx, &count, query, category, since); err != nil {
		return 0, fmt.Errorf("failed to count call records: %w", err)
	}
	return count, nil
}

func (r *callRecordRepository) List(ctx context.Context, category model.CallCategory, limit int) ([]*model.CallRecord, error) {
	query := `SELECT ` + callRecordColumns + `
		FROM arama_kayit
		WHERE arama_tipi = $1
		ORDER BY kayit_tarihi DESC
		LIMIT $2
	`
	var records []*model.CallRecord
	if err := r.db.SelectContext(ctx, &records, query, category, limit); err != nil {
		return nil, fmt.Errorf("failed to list call records: %w", err)
	}
	return records, nil
}

func (r *callRecordRepository) Get(ctx context.Context, id uuid.UUID) (*model.CallRecord, error) {
	query := `SELECT ` + callRecordColumns + ` FROM arama_kayit WHERE id = $1`
	var record model.CallRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, notFoundOr(err, "call record")
	}
	return &record, nil
}

func (r *callRecordRepository) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM arama_kayit) AS total_calls,
			(SELECT COUNT(*) FROM randevu WHERE durum = 'tamamlandi') AS completed_appointments,
			(SELECT COUNT(*) FROM form WHERE arama_tetiklendi = false) AS pending_forms,
			(SELECT COUNT(*) FROM doktor WHERE aktif = true) AS active_doctors
	`
	var stats model.DashboardStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}
	return &stats, nil
}
