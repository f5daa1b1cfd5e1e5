package model

import (
	"time"

	"github.com/google/uuid"
)

// CallCategory is the arama_tipi column of the arama_kayit table. The three
// values are fixed: inbound calls, form-triggered calls and list-triggered
// calls.
type CallCategory string

const (
	CategoryInbound CallCategory = "gelen"
	CategoryForm    CallCategory = "form"
	CategoryList    CallCategory = "liste"
)

// CallCategories lists every category in a stable order.
func CallCategories() []CallCategory {
	return []CallCategory{CategoryInbound, CategoryForm, CategoryList}
}

// Valid reports whether c is one of the three fixed categories.
func (c CallCategory) Valid() bool {
	switch c {
	case CategoryInbound, CategoryForm, CategoryList:
		return true
	}
	return false
}

// CallRecord maps the arama_kayit table. RecordedAt (kayit_tarihi) is the
// timestamp the notification cursors compare against.
type CallRecord struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	Category      CallCategory `json:"arama_tipi" db:"arama_tipi"`
	Number        *string      `json:"numara,omitempty" db:"numara"`
	CallDate      *time.Time   `json:"cagri_tarihi,omitempty" db:"cagri_tarihi"`
	Duration      *int         `json:"cagri_suresi,omitempty" db:"cagri_suresi"`
	Summary       *string      `json:"ozet,omitempty" db:"ozet"`
	Status        *string      `json:"durum,omitempty" db:"durum"`
	Priority      *string      `json:"not_oncelik,omitempty" db:"not_oncelik"`
	RecordingURL  *string      `json:"kayit_url,omitempty" db:"kayit_url"`
	Transcript    *string      `json:"transkript,omitempty" db:"transkript"`
	AppointmentID *uuid.UUID   `json:"randevu_id,omitempty" db:"randevu_id"`
	RecordedAt    time.Time    `json:"kayit_tarihi" db:"kayit_tarihi"`
}

// UnseenCounts holds the per-category unseen record counts shown as badges.
type UnseenCounts map[CallCategory]int64

// Total sums the three category counts.
func (u UnseenCounts) Total() int64 {
	var total int64
	for _, n := range u {
		total += n
	}
	return total
}

// DashboardStats backs the admin landing screen.
type DashboardStats struct {
	TotalCalls            int64 `json:"total_calls" db:"total_calls"`
	CompletedAppointments int64 `json:"completed_appointments" db:"completed_appointments"`
	PendingForms          int64 `json:"pending_forms" db:"pending_forms"`
	ActiveDoctors         int64 `json:"active_doctors" db:"active_doctors"`
}
