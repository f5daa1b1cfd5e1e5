package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
)

type adminRepository struct {
	BaseRepository
}

func NewAdminRepository(base BaseRepository) repository.AdminRepository {
	return &adminRepository{base}
}

func (r *adminRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Admin, error) {
	query := `
		SELECT id, kullanici_adi, sifre, olusturulma_tarihi
		FROM admin
		WHERE id = $1
	`
	var admin model.Admin
	if err := r.db.GetContext(ctx, &admin, query, id); err != nil {
		return nil, notFoundOr(err, "admin")
	}
	return &admin, nil
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	query := `
		SELECT id, kullanici_adi, sifre, olusturulma_tarihi
		FROM admin
		WHERE kullanici_adi = $1
	`
	var admin model.Admin
	if err := r.db.GetContext(ctx, &admin, query, username); err != nil {
		return nil, notFoundOr(err, "admin")
	}
	return &admin, nil
}

type doctorLoginRepository struct {
	BaseRepository
}

func NewDoctorLoginRepository(base BaseRepository) repository.DoctorLoginRepository {
	return &doctorLoginRepository{base}
}

func (r *doctorLoginRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DoctorLogin, error) {
	query := `
		SELECT id, doktor_id, kullanici_adi, sifre
		FROM doktor_giris
		WHERE id = $1
	`
	var login model.DoctorLogin
	if err := r.db.GetContext(ctx, &login, query, id); err != nil {
		return nil, notFoundOr(err, "doctor login")
	}
	return &login, nil
}

func (r *doctorLoginRepository) GetByUsername(ctx context.Context, username string) (*model.DoctorLogin, error) {
	query := `
		SELECT id, doktor_id, kullanici_adi, sifre
		FROM doktor_giris
		WHERE kullanici_adi = $1
	`
	var login model.DoctorLogin
	if err := r.db.GetContext(ctx, &login, query, username); err != nil {
		return nil, notFoundOr(err, "doctor login")
	}
	return &login, nil
}

func (r *doctorLoginRepository) List(ctx context.Context) ([]*model.DoctorLogin, error) {
	query := `
		SELECT id, doktor_id, kullanici_adi, sifre
		FROM doktor_giris
		ORDER BY kullanici_adi ASC
	`
	var logins []*model.DoctorLogin
	if err := r.db.SelectContext(ctx, &logins, query); err != nil {
		return nil, notFoundOr(err, "doctor logins")
	}
	return logins, nil
}

func (r *doctorLoginRepository) Create(ctx context.Context, login *model.DoctorLogin) error {
	query := `
		INSERT INTO doktor_giris (id, doktor_id, kullanici_adi, sifre)
		VALUES ($1, $2, $3, $4)
	`
	if login.ID == uuid.Nil {
		login.ID = uuid.New()
	}
	if _, err := r.db.ExecContext(ctx, query, login.ID, login.DoctorID, login.Username, login.PasswordHash); err != nil {
		return notFoundOr(err, "doctor login")
	}
	return nil
}

func (r *doctorLoginRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE doktor_giris SET sifre = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return notFoundOr(err, "doctor login")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errNotFound("doctor login")
	}
	return nil
}

func (r *doctorLoginRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM doktor_giris WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return notFoundOr(err, "doctor login")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errNotFound("doctor login")
	}
	return nil
}
