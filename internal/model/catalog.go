package model

import (
	"github.com/google/uuid"
)

// ClinicService maps the hizmet table.
type ClinicService struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Price           *float64  `json:"fiyat,omitempty" db:"fiyat"`
	DurationMinutes *int      `json:"sure_dakika,omitempty" db:"sure_dakika"`
	Description     *string   `json:"aciklama,omitempty" db:"aciklama"`
	Active          bool      `json:"aktif" db:"aktif"`
	SpecialtyID     *int64    `json:"uzmanlik_id,omitempty" db:"uzmanlik_id"`
}

type CreateClinicServiceRequest struct {
	Price           *float64 `json:"fiyat"`
	DurationMinutes *int     `json:"sure_dakika"`
	Description     *string  `json:"aciklama" binding:"required"`
	Active          bool     `json:"aktif"`
	SpecialtyID     *int64   `json:"uzmanlik_id"`
}

type CreateSpecialtyRequest struct {
	Name string `json:"ad" binding:"required"`
}
