package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
	"github.com/klinikvoice/admin-api/pkg/logger"
)

type fakeAppointments struct {
	byID    map[uuid.UUID]*model.Appointment
	persons map[uuid.UUID]*model.AppointmentPerson
}

func newFakeAppointments() *fakeAppointments {
	return &fakeAppointments{
		byID:    make(map[uuid.UUID]*model.Appointment),
		persons: make(map[uuid.UUID]*model.AppointmentPerson),
	}
}

func (f *fakeAppointments) Create(_ context.Context, appointment *model.Appointment) error {
	f.byID[appointment.ID] = appointment
	return nil
}

func (f *fakeAppointments) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	if appointment, ok := f.byID[id]; ok {
		copied := *appointment
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAppointments) Update(_ context.Context, appointment *model.Appointment) error {
	if _, ok := f.byID[appointment.ID]; !ok {
		return repository.ErrNotFound
	}
	f.byID[appointment.ID] = appointment
	return nil
}

func (f *fakeAppointments) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus, rejectReason *string) error {
	appointment, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	appointment.Status = status
	appointment.RejectReason = rejectReason
	return nil
}

func (f *fakeAppointments) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeAppointments) List(_ context.Context, _ map[string]interface{}) ([]*model.Appointment, error) {
	out := make([]*model.Appointment, 0, len(f.byID))
	for _, appointment := range f.byID {
		out = append(out, appointment)
	}
	return out, nil
}

func (f *fakeAppointments) GetPerson(_ context.Context, id uuid.UUID) (*model.AppointmentPerson, error) {
	if person, ok := f.persons[id]; ok {
		return person, nil
	}
	return nil, repository.ErrNotFound
}

type fakeDoctors struct {
	repository.DoctorRepository

	byID map[uuid.UUID]*model.Doctor
}

func (f *fakeDoctors) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	if doctor, ok := f.byID[id]; ok {
		return doctor, nil
	}
	return nil, repository.ErrNotFound
}

type fakeOutbox struct {
	events []*model.OutboxEvent
	err    error
}

func (f *fakeOutbox) Create(_ context.Context, event *model.OutboxEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) GetPendingEventsWithLock(context.Context, int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) UpdateStatus(context.Context, uuid.UUID, model.OutboxStatus, *string) error {
	return nil
}

func (f *fakeOutbox) DeleteProcessedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func newFixture() (*Service, *fakeAppointments, *fakeDoctors, *fakeOutbox) {
	appointments := newFakeAppointments()
	doctors := &fakeDoctors{byID: make(map[uuid.UUID]*model.Doctor)}
	outbox := &fakeOutbox{}
	return NewService(appointments, doctors, outbox, testLogger()), appointments, doctors, outbox
}

func seedAppointment(appointments *fakeAppointments, doctors *fakeDoctors) *model.Appointment {
	personID := uuid.New()
	doctorID := uuid.New()
	appointments.persons[personID] = &model.AppointmentPerson{
		ID: personID, FirstName: "Ayşe", LastName: "Yılmaz", Phone: "+905551112233",
	}
	doctors.byID[doctorID] = &model.Doctor{ID: doctorID, FirstName: "Mehmet", LastName: "Kaya"}

	appointment := &model.Appointment{
		ID:       uuid.New(),
		PersonID: &personID,
		DoctorID: &doctorID,
		Date:     time.Date(2026, 4, 1, 10, 30, 0, 0, time.UTC),
		Status:   model.AppointmentPending,
	}
	appointments.byID[appointment.ID] = appointment
	return appointment
}

func TestCreateDefaultsToPending(t *testing.T) {
	svc, _, _, _ := newFixture()

	appointment, err := svc.Create(context.Background(), &model.CreateAppointmentRequest{
		Date: time.Date(2026, 4, 1, 10, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentPending, appointment.Status)
}

func TestApproveQueuesWebhookWithPersonAndDoctor(t *testing.T) {
	svc, appointments, doctors, outbox := newFixture()
	seeded := seedAppointment(appointments, doctors)

	approved, err := svc.Approve(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentApproved, approved.Status)
	assert.Nil(t, approved.RejectReason)

	require.Len(t, outbox.events, 1)
	event := outbox.events[0]
	assert.Equal(t, model.EventAppointmentApproved, event.EventType)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Contains(t, string(payload["kisi"]), "Ayşe")
	assert.Contains(t, string(payload["doktor"]), "Mehmet")
	assert.Contains(t, string(payload["randevu"]), "onaylandi")
}

func TestApproveClearsEarlierRejectReason(t *testing.T) {
	svc, appointments, doctors, _ := newFixture()
	seeded := seedAppointment(appointments, doctors)
	reason := "müsait değil"
	seeded.Status = model.AppointmentRejected
	seeded.RejectReason = &reason

	approved, err := svc.Approve(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentApproved, approved.Status)
	assert.Nil(t, approved.RejectReason)
}

func TestRejectStoresReasonAndQueuesWebhook(t *testing.T) {
	svc, appointments, doctors, outbox := newFixture()
	seeded := seedAppointment(appointments, doctors)

	rejected, err := svc.Reject(context.Background(), seeded.ID, "doktor izinli")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentRejected, rejected.Status)
	require.NotNil(t, rejected.RejectReason)
	assert.Equal(t, "doktor izinli", *rejected.RejectReason)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, model.EventAppointmentRejected, outbox.events[0].EventType)
}

func TestApproveSucceedsWhenOutboxFails(t *testing.T) {
	svc, appointments, doctors, outbox := newFixture()
	seeded := seedAppointment(appointments, doctors)
	outbox.err = errors.New("relation outbox_events does not exist")

	approved, err := svc.Approve(context.Background(), seeded.ID)
	require.NoError(t, err, "webhook queueing must never fail the approval")
	assert.Equal(t, model.AppointmentApproved, approved.Status)
}

func TestApproveUnknownAppointment(t *testing.T) {
	svc, _, _, outbox := newFixture()

	_, err := svc.Approve(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, outbox.events)
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	svc, appointments, doctors, _ := newFixture()
	seeded := seedAppointment(appointments, doctors)

	note := "kontrol randevusu"
	updated, err := svc.Update(context.Background(), seeded.ID, &model.UpdateAppointmentRequest{Note: &note})
	require.NoError(t, err)
	require.NotNil(t, updated.Note)
	assert.Equal(t, "kontrol randevusu", *updated.Note)
	assert.Equal(t, seeded.Date, updated.Date)
}
