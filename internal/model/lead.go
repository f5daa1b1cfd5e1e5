package model

import (
	"time"

	"github.com/google/uuid"
)

// Lead maps the form table: a contact request left on the public site.
type Lead struct {
	ID            uuid.UUID `json:"id" db:"id"`
	FirstName     *string   `json:"isim,omitempty" db:"isim"`
	LastName      *string   `json:"soyisim,omitempty" db:"soyisim"`
	Email         *string   `json:"eposta,omitempty" db:"eposta"`
	Phone         *string   `json:"telefon,omitempty" db:"telefon"`
	Message       *string   `json:"mesaj,omitempty" db:"mesaj"`
	CallTriggered bool      `json:"arama_tetiklendi" db:"arama_tetiklendi"`
	CreatedAt     time.Time `json:"olusturulma_tarihi" db:"olusturulma_tarihi"`
}

type CreateLeadRequest struct {
	FirstName *string `json:"isim"`
	LastName  *string `json:"soyisim"`
	Email     *string `json:"eposta" binding:"omitempty,email"`
	Phone     *string `json:"telefon" binding:"required"`
	Message   *string `json:"mesaj"`
}
