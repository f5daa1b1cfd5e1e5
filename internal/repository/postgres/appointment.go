package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
)

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

const appointmentColumns = `
	id, randevu_kisi_id, doktor_id, hizmet_id, randevu_tarihi,
	randevu_tipi, online_link, randevu_notu, durum, red_nedeni, sms,
	olusturulma_tarihi, guncellenme_tarihi
`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO randevu (
			id, randevu_kisi_id, doktor_id, hizmet_id, randevu_tarihi,
			randevu_tipi, online_link, randevu_notu, durum,
			olusturulma_tarihi, guncellenme_tarihi
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()
	if appointment.Status == "" {
		appointment.Status = model.AppointmentPending
	}

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PersonID,
		appointment.DoctorID,
		appointment.ServiceID,
		appointment.Date,
		appointment.Type,
		appointment.OnlineLink,
		appointment.Note,
		appointment.Status,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM randevu WHERE id = $1`
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, notFoundOr(err, "appointment")
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE randevu
		SET randevu_tarihi = $1, randevu_tipi = $2, online_link = $3,
		    randevu_notu = $4, guncellenme_tarihi = $5
		WHERE id = $6
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.Date,
		appointment.Type,
		appointment.OnlineLink,
		appointment.Note,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errNotFound("appointment")
	}
	return nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, rejectReason *string) error {
	query := `
		UPDATE randevu
		SET durum = $1, red_nedeni = $2, guncellenme_tarihi = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, status, rejectReason, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errNotFound("appointment")
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM randevu WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errNotFound("appointment")
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters map[string]interface{}) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM randevu WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if v, ok := filters["doktor_id"]; ok {
		query += fmt.Sprintf(" AND doktor_id = $%d", argCount)
		args = append(args, v)
		argCount++
	}

	if v, ok := filters["durum"]; ok {
		query += fmt.Sprintf(" AND durum = $%d", argCount)
		args = append(args, v)
		argCount++
	}

	if v, ok := filters["start_date"]; ok {
		query += fmt.Sprintf(" AND randevu_tarihi >= $%d", argCount)
		args = append(args, v)
		argCount++
	}

	if v, ok := filters["end_date"]; ok {
		query += fmt.Sprintf(" AND randevu_tarihi <= $%d", argCount)
		args = append(args, v)
		argCount++
	}

	query += " ORDER BY randevu_tarihi ASC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) GetPerson(ctx context.Context, id uuid.UUID) (*model.AppointmentPerson, error) {
	query := `SELECT id, isim, soyisim, telefon FROM randevu_kisi WHERE id = $1`
	var person model.AppointmentPerson
	if err := r.db.GetContext(ctx, &person, query, id); err != nil {
		return nil, notFoundOr(err, "appointment person")
	}
	return &person, nil
}
