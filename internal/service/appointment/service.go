package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
	"github.com/klinikvoice/admin-api/pkg/logger"
)

// Service manages appointments. Approvals and rejections queue a webhook in
// the outbox so the automation pipeline hears about them; queueing is
// best-effort and never fails the state change itself.
type Service struct {
	appointments repository.AppointmentRepository
	doctors      repository.DoctorRepository
	outbox       repository.OutboxRepository
	logger       *logger.Logger
}

func NewService(
	appointments repository.AppointmentRepository,
	doctors repository.DoctorRepository,
	outbox repository.OutboxRepository,
	logger *logger.Logger,
) *Service {
	return &Service{
		appointments: appointments,
		doctors:      doctors,
		outbox:       outbox,
		logger:       logger,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	appointment := &model.Appointment{
		ID:         uuid.New(),
		PersonID:   req.PersonID,
		DoctorID:   req.DoctorID,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		Type:       req.Type,
		OnlineLink: req.OnlineLink,
		Note:       req.Note,
		Status:     model.AppointmentPending,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.appointments.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters map[string]interface{}) ([]*model.Appointment, error) {
	return s.appointments.List(ctx, filters)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		appointment.Date = *req.Date
	}
	if req.Type != nil {
		appointment.Type = req.Type
	}
	if req.OnlineLink != nil {
		appointment.OnlineLink = req.OnlineLink
	}
	if req.Note != nil {
		appointment.Note = req.Note
	}

	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.appointments.Delete(ctx, id)
}

// Approve marks the appointment approved, clearing any earlier rejection
// reason, and queues the approval webhook.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	if err := s.appointments.UpdateStatus(ctx, id, model.AppointmentApproved, nil); err != nil {
		return nil, fmt.Errorf("failed to approve appointment: %w", err)
	}

	appointment, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.queueEvent(ctx, model.EventAppointmentApproved, appointment)
	return appointment, nil
}

// Reject marks the appointment rejected with the given reason and queues
// the rejection webhook.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error) {
	if err := s.appointments.UpdateStatus(ctx, id, model.AppointmentRejected, &reason); err != nil {
		return nil, fmt.Errorf("failed to reject appointment: %w", err)
	}

	appointment, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.queueEvent(ctx, model.EventAppointmentRejected, appointment)
	return appointment, nil
}

// statusEvent is the webhook payload for approval and rejection events. The
// person and doctor are denormalized so the automation endpoint can place a
// call without further lookups.
type statusEvent struct {
	Appointment *model.Appointment       `json:"randevu"`
	Person      *model.AppointmentPerson `json:"kisi,omitempty"`
	Doctor      *model.Doctor            `json:"doktor,omitempty"`
	OccurredAt  time.Time                `json:"zaman"`
}

func (s *Service) queueEvent(ctx context.Context, eventType string, appointment *model.Appointment) {
	payload := statusEvent{Appointment: appointment, OccurredAt: time.Now().UTC()}

	if appointment.PersonID != nil {
		person, err := s.appointments.GetPerson(ctx, *appointment.PersonID)
		if err != nil {
			s.logger.Warn("failed to load appointment person for webhook",
				"appointment_id", appointment.ID.String(), "error", err.Error())
		} else {
			payload.Person = person
		}
	}
	if appointment.DoctorID != nil {
		doctor, err := s.doctors.Get(ctx, *appointment.DoctorID)
		if err != nil {
			s.logger.Warn("failed to load doctor for webhook",
				"appointment_id", appointment.ID.String(), "error", err.Error())
		} else {
			payload.Doctor = doctor
		}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error(err, "failed to marshal webhook payload", "event_type", eventType)
		return
	}

	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   raw,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to queue webhook event",
			"event_type", eventType, "appointment_id", appointment.ID.String())
	}
}

func (s *Service) GetPerson(ctx context.Context, id uuid.UUID) (*model.AppointmentPerson, error) {
	return s.appointments.GetPerson(ctx, id)
}
