package model

import (
	"time"

	"github.com/google/uuid"
)

// Doctor maps the doktor table.
type Doctor struct {
	ID             uuid.UUID `json:"id" db:"id"`
	FirstName      string    `json:"ad" db:"ad"`
	LastName       string    `json:"soyad" db:"soyad"`
	Title          *string   `json:"unvan,omitempty" db:"unvan"`
	SpecialtyID    *int64    `json:"uzmanlik_id,omitempty" db:"uzmanlik_id"`
	Phone          *string   `json:"telefon,omitempty" db:"telefon"`
	Email          *string   `json:"email,omitempty" db:"email"`
	Active         bool      `json:"aktif" db:"aktif"`
	ClinicLocation *string   `json:"klinik_lokasyon,omitempty" db:"klinik_lokasyon"`
}

// DoctorProfile is the display subset fetched after role resolution.
type DoctorProfile struct {
	FirstName string `json:"ad" db:"ad"`
	LastName  string `json:"soyad" db:"soyad"`
	Email     string `json:"email" db:"email"`
}

// DoctorLogin maps the doktor_giris table. The row id doubles as the auth
// identity id, mirroring the admin table.
type DoctorLogin struct {
	ID           uuid.UUID `json:"id" db:"id"`
	DoctorID     uuid.UUID `json:"doktor_id" db:"doktor_id"`
	Username     string    `json:"username" db:"kullanici_adi"`
	PasswordHash string    `json:"-" db:"sifre"`
}

// CalendarSlot maps the doktor_takvim table.
type CalendarSlot struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	DoctorID  *uuid.UUID `json:"doktor_id,omitempty" db:"doktor_id"`
	Date      time.Time  `json:"tarih" db:"tarih"`
	StartTime string     `json:"baslangic_saat" db:"baslangic_saat"`
	EndTime   string     `json:"bitis_saat" db:"bitis_saat"`
	Available bool       `json:"musait" db:"musait"`
	Note      *string    `json:"not_bilgi,omitempty" db:"not_bilgi"`
}

// Specialty maps the uzmanlik table.
type Specialty struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"ad" db:"ad"`
}

type CreateDoctorRequest struct {
	FirstName      string  `json:"ad" binding:"required"`
	LastName       string  `json:"soyad" binding:"required"`
	Title          *string `json:"unvan"`
	SpecialtyID    *int64  `json:"uzmanlik_id"`
	Phone          *string `json:"telefon"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Active         bool    `json:"aktif"`
	ClinicLocation *string `json:"klinik_lokasyon"`
}

type CreateDoctorLoginRequest struct {
	DoctorID uuid.UUID `json:"doktor_id" binding:"required"`
	Username string    `json:"username" binding:"required,min=3"`
	Password string    `json:"password" binding:"required,min=6"`
}
