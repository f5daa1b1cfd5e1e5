package model

import (
	"time"

	"github.com/google/uuid"
)

// EntryCallStatus is the arama_durumu column of the liste_kisi table.
type EntryCallStatus string

const (
	EntryWaiting  EntryCallStatus = "bekliyor"
	EntryInCall   EntryCallStatus = "gorusmede"
	EntryCalled   EntryCallStatus = "arandi"
	EntryBusy     EntryCallStatus = "mesgul"
)

// CallList maps the liste table: an outbound call campaign.
type CallList struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Name             string    `json:"liste_ismi" db:"liste_ismi"`
	Active           bool      `json:"aranma_durumu" db:"aranma_durumu"`
	TotalPeople      int       `json:"toplam_kisi" db:"toplam_kisi"`
	Completed        int       `json:"tamamlanan" db:"tamamlanan"`
	AssistantMessage *string   `json:"asistan_mesaji,omitempty" db:"asistan_mesaji"`
	CreatedAt        time.Time `json:"olusturulma_tarihi" db:"olusturulma_tarihi"`
}

// CallListEntry maps the liste_kisi table.
type CallListEntry struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	ListID     uuid.UUID       `json:"liste_id" db:"liste_id"`
	FirstName  *string         `json:"isim,omitempty" db:"isim"`
	LastName   *string         `json:"soyisim,omitempty" db:"soyisim"`
	Phone      *string         `json:"telefon,omitempty" db:"telefon"`
	CallStatus EntryCallStatus `json:"arama_durumu" db:"arama_durumu"`
	Note       *string         `json:"kayit,omitempty" db:"kayit"`
}

type CreateCallListRequest struct {
	Name             string  `json:"liste_ismi" binding:"required"`
	AssistantMessage *string `json:"asistan_mesaji"`
}

type CreateCallListEntryRequest struct {
	FirstName *string `json:"isim"`
	LastName  *string `json:"soyisim"`
	Phone     *string `json:"telefon" binding:"required"`
}

type ActivateCallListRequest struct {
	AssistantMessage *string `json:"asistan_mesaji"`
}
