package doctor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
)

// Service manages doctors and their weekly calendars.
type Service struct {
	doctors repository.DoctorRepository
}

func NewService(doctors repository.DoctorRepository) *Service {
	return &Service{doctors: doctors}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	doctor := &model.Doctor{
		ID:             uuid.New(),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Title:          req.Title,
		SpecialtyID:    req.SpecialtyID,
		Phone:          req.Phone,
		Email:          req.Email,
		Active:         req.Active,
		ClinicLocation: req.ClinicLocation,
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return s.doctors.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, onlyActive bool) ([]*model.Doctor, error) {
	return s.doctors.List(ctx, onlyActive)
}

func (s *Service) Update(ctx context.Context, doctor *model.Doctor) error {
	return s.doctors.Update(ctx, doctor)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.doctors.Delete(ctx, id)
}

func (s *Service) ListCalendar(ctx context.Context, doctorID uuid.UUID) ([]*model.CalendarSlot, error) {
	return s.doctors.ListCalendar(ctx, doctorID)
}

func (s *Service) CreateSlot(ctx context.Context, slot *model.CalendarSlot) error {
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	return s.doctors.CreateSlot(ctx, slot)
}

func (s *Service) UpdateSlot(ctx context.Context, slot *model.CalendarSlot) error {
	return s.doctors.UpdateSlot(ctx, slot)
}

func (s *Service) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	return s.doctors.DeleteSlot(ctx, id)
}
