package model

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the durum column of the randevu table.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "beklemede"
	AppointmentApproved  AppointmentStatus = "onaylandi"
	AppointmentRejected  AppointmentStatus = "reddedildi"
	AppointmentCompleted AppointmentStatus = "tamamlandi"
	AppointmentCancelled AppointmentStatus = "iptal"
	AppointmentNoShow    AppointmentStatus = "gelmedi"
	AppointmentPast      AppointmentStatus = "gecmis"
)

// AppointmentType is the randevu_tipi column.
type AppointmentType string

const (
	AppointmentOnline AppointmentType = "online"
	AppointmentClinic AppointmentType = "klinik"
)

// Appointment maps the randevu table.
type Appointment struct {
	ID           uuid.UUID         `json:"id" db:"id"`
	PersonID     *uuid.UUID        `json:"randevu_kisi_id,omitempty" db:"randevu_kisi_id"`
	DoctorID     *uuid.UUID        `json:"doktor_id,omitempty" db:"doktor_id"`
	ServiceID    *uuid.UUID        `json:"hizmet_id,omitempty" db:"hizmet_id"`
	Date         time.Time         `json:"randevu_tarihi" db:"randevu_tarihi"`
	Type         *AppointmentType  `json:"randevu_tipi,omitempty" db:"randevu_tipi"`
	OnlineLink   *string           `json:"online_link,omitempty" db:"online_link"`
	Note         *string           `json:"randevu_notu,omitempty" db:"randevu_notu"`
	Status       AppointmentStatus `json:"durum" db:"durum"`
	RejectReason *string           `json:"red_nedeni,omitempty" db:"red_nedeni"`
	SMS          *string           `json:"sms,omitempty" db:"sms"`
	CreatedAt    time.Time         `json:"olusturulma_tarihi" db:"olusturulma_tarihi"`
	UpdatedAt    time.Time         `json:"guncellenme_tarihi" db:"guncellenme_tarihi"`
}

// AppointmentPerson maps the randevu_kisi table.
type AppointmentPerson struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FirstName string    `json:"isim" db:"isim"`
	LastName  string    `json:"soyisim" db:"soyisim"`
	Phone     string    `json:"telefon" db:"telefon"`
}

type CreateAppointmentRequest struct {
	PersonID   *uuid.UUID       `json:"randevu_kisi_id"`
	DoctorID   *uuid.UUID       `json:"doktor_id"`
	ServiceID  *uuid.UUID       `json:"hizmet_id"`
	Date       time.Time        `json:"randevu_tarihi" binding:"required"`
	Type       *AppointmentType `json:"randevu_tipi" binding:"omitempty,oneof=online klinik"`
	OnlineLink *string          `json:"online_link"`
	Note       *string          `json:"randevu_notu"`
}

type UpdateAppointmentRequest struct {
	Date       *time.Time       `json:"randevu_tarihi"`
	Type       *AppointmentType `json:"randevu_tipi" binding:"omitempty,oneof=online klinik"`
	OnlineLink *string          `json:"online_link"`
	Note       *string          `json:"randevu_notu"`
}

type RejectAppointmentRequest struct {
	Reason string `json:"red_nedeni" binding:"required"`
}
