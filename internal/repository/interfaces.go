package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/model"
)

// ErrNotFound marks a definitive "row does not exist" result. Callers that
// must distinguish absence from transport failure (the role resolver in
// particular) test for it with errors.Is; any other error is transient.
var ErrNotFound = errors.New("not found")

type AdminRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Admin, error)
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
}

type DoctorLoginRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.DoctorLogin, error)
	GetByUsername(ctx context.Context, username string) (*model.DoctorLogin, error)
	List(ctx context.Context) ([]*model.DoctorLogin, error)
	Create(ctx context.Context, login *model.DoctorLogin) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type DoctorRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error)
	List(ctx context.Context, onlyActive bool) ([]*model.Doctor, error)
	Create(ctx context.Context, doctor *model.Doctor) error
	Update(ctx context.Context, doctor *model.Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListCalendar(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*model.CalendarSlot, error)
	CreateSlot(ctx context.Context, slot *model.CalendarSlot) error
	UpdateSlot(ctx context.Context, slot *model.CalendarSlot) error
	DeleteSlot(ctx context.Context, id uuid.UUID) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, appointment *model.Appointment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, rejectReason *string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters map[string]interface{}) ([]*model.Appointment, error)
	GetPerson(ctx context.Context, id uuid.UUID) (*model.AppointmentPerson, error)
}

type CallRecordRepository interface {
	// CountSince counts records of a category recorded strictly after since.
	CountSince(ctx context.Context, category model.CallCategory, since time.Time) (int64, error)
	List(ctx context.Context, category model.CallCategory, limit int) ([]*model.CallRecord, error)
	Get(ctx context.Context, id uuid.UUID) (*model.CallRecord, error)
	DashboardStats(ctx context.Context) (*model.DashboardStats, error)
}

type CallListRepository interface {
	Create(ctx context.Context, list *model.CallList) error
	Get(ctx context.Context, id uuid.UUID) (*model.CallList, error)
	List(ctx context.Context) ([]*model.CallList, error)
	Activate(ctx context.Context, id uuid.UUID, assistantMessage *string) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListEntries(ctx context.Context, listID uuid.UUID) ([]*model.CallListEntry, error)
	AddEntry(ctx context.Context, entry *model.CallListEntry) error
	DeleteEntry(ctx context.Context, id uuid.UUID) error
}

type LeadRepository interface {
	Create(ctx context.Context, lead *model.Lead) error
	Get(ctx context.Context, id uuid.UUID) (*model.Lead, error)
	List(ctx context.Context) ([]*model.Lead, error)
	SetCallTriggered(ctx context.Context, id uuid.UUID, triggered bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CatalogRepository interface {
	ListServices(ctx context.Context, onlyActive bool) ([]*model.ClinicService, error)
	CreateService(ctx context.Context, svc *model.ClinicService) error
	UpdateService(ctx context.Context, svc *model.ClinicService) error
	DeleteService(ctx context.Context, id uuid.UUID) error

	ListSpecialties(ctx context.Context) ([]*model.Specialty, error)
	CreateSpecialty(ctx context.Context, specialty *model.Specialty) error
	DeleteSpecialty(ctx context.Context, id int64) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id uuid.UUID) (*model.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes sessions past their expiry and returns the
	// removed rows so the auth service can broadcast their end.
	DeleteExpired(ctx context.Context, now time.Time) ([]*model.Session, error)
}

type TokenRepository interface {
	StoreResetToken(ctx context.Context, loginID uuid.UUID, token string, expiry time.Time) error
	ValidateResetToken(ctx context.Context, token string) (uuid.UUID, error)
	InvalidateResetToken(ctx context.Context, token string) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}

// CursorStore persists per-identity notification cursors. A zero time with a
// nil error means no cursor has been written yet.
type CursorStore interface {
	Get(ctx context.Context, identityID uuid.UUID, category model.CallCategory) (time.Time, error)
	Set(ctx context.Context, identityID uuid.UUID, category model.CallCategory, ts time.Time) error
}
