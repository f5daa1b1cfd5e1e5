package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
)

type doctorRepository struct {
	BaseRepository
}

func NewDoctorRepository(base BaseRepository) repository.DoctorRepository {
	return &doctorRepository{base}
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT id, ad, soyad, unvan, uzmanlik_id, telefon, email, aktif, klinik_lokasyon
		FROM doktor
		WHERE id = $1
	`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		return nil, notFoundOr(err, "doctor")
	}
	return &doctor, nil
}

func (r *doctorRepository) GetProfile(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	query := `
		SELECT ad, soyad, COALESCE(email, '') AS email
		FROM doktor
		WHERE id = $1
	`
	var profile model.DoctorProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, notFoundOr(err, "doctor profile")
	}
	return &profile, nil
}

func (r *doctorRepository) List(ctx context.Context, onlyActive bool) ([]*model.Doctor, error) {
	query := `
		SELECT id, ad, soyad, unvan, uzmanlik_id, telefon, email, aktif, klinik_lokasyon
		FROM doktor
	`
	if onlyActive {
		query += " WHERE aktif = true"
	}
	query += " ORDER BY ad ASC, soyad ASC"

	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doktor (id, ad, soyad, unvan, uzmanlik_id, telefon, email, aktif, klinik_lokasyon)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.FirstName,
		doctor.LastName,
		doctor.Title,
		doctor.SpecialtyID,
		doctor.Phone,
		doctor.Email,
		doctor.Active,
		doctor.ClinicLocation,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doktor
		SET ad = $1, soyad = $2, unvan = $3, uzmanlik_id = $4,
		    telefon = $5, email = $6, aktif = $7, klinik_lokasyon = $8
		WHERE id = $9
	`
	result, err := r.db.ExecContext(ctx, query,
		doctor.FirstName,
		doctor.LastName,
		doctor.Title,
		doctor.SpecialtyID,
		doctor.Phone,
		doctor.Email,
		doctor.Active,
		doctor.ClinicLocation,
		doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errNotFound("doctor")
	}
	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM doktor WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errNotFound("doctor")
	}
	return nil
}

func (r *doctorRepository) ListCalendar(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*model.CalendarSlot, error) {
	query := `
		SELECT id, doktor_id, tarih, baslangic_saat, bitis_saat, musait, not_bilgi
		FROM doktor_takvim
		WHERE doktor_id = $1 AND tarih >= $2 AND tarih <= $3
		ORDER BY tarih ASC, baslangic_saat ASC
	`
	var slots []*model.CalendarSlot
	if err := r.db.SelectContext(ctx, &slots, query, doctorID, from, to); err != nil {
		return nil, fmt.Errorf("failed to list calendar slots: %w", err)
	}
	return slots, nil
}

func (r *doctorRepository) CreateSlot(ctx context.Context, slot *model.CalendarSlot) error {
	query := `
		INSERT INTO doktor_takvim (id, doktor_id, tarih, baslangic_saat, bitis_saat, musait, not_bilgi)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, query,
		slot.ID, slot.DoctorID, slot.Date, slot.StartTime, slot.EndTime, slot.Available, slot.Note)
	if err != nil {
		return fmt.Errorf("failed to create calendar slot: %w", err)
	}
	return nil
}

func (r *doctorRepository) UpdateSlot(ctx context.Context, slot *model.CalendarSlot) error {
	query := `
		UPDATE doktor_takvim
		SET tarih = $1, baslangic_saat = $2, bitis_saat = $3, musait = $4, not_bilgi = $5
		WHERE id = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		slot.Date, slot.StartTime, slot.EndTime, slot.Available, slot.Note, slot.ID)
	if err != nil {
		return fmt.Errorf("failed to update calendar slot: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errNotFound("calendar slot")
	}
	return nil
}

func (r *doctorRepository) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM doktor_takvim WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete calendar slot: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errNotFound("calendar slot")
	}
	return nil
}
