package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
)

// Service manages the clinic service and specialty catalogs.
type Service struct {
	catalog repository.CatalogRepository
}

func NewService(catalog repository.CatalogRepository) *Service {
	return &Service{catalog: catalog}
}

func (s *Service) ListServices(ctx context.Context, onlyActive bool) ([]*model.ClinicService, error) {
	return s.catalog.ListServices(ctx, onlyActive)
}

func (s *Service) CreateService(ctx context.Context, req *model.CreateClinicServiceRequest) (*model.ClinicService, error) {
	svc := &model.ClinicService{
		ID:              uuid.New(),
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		Description:     req.Description,
		Active:          req.Active,
		SpecialtyID:     req.SpecialtyID,
	}
	if err := s.catalog.CreateService(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return svc, nil
}

func (s *Service) UpdateService(ctx context.Context, svc *model.ClinicService) error {
	return s.catalog.UpdateService(ctx, svc)
}

func (s *Service) DeleteService(ctx context.Context, id uuid.UUID) error {
	return s.catalog.DeleteService(ctx, id)
}

func (s *Service) ListSpecialties(ctx context.Context) ([]*model.Specialty, error) {
	return s.catalog.ListSpecialties(ctx)
}

func (s *Service) CreateSpecialty(ctx context.Context, req *model.CreateSpecialtyRequest) (*model.Specialty, error) {
	specialty := &model.Specialty{Name: req.Name}
	if err := s.catalog.CreateSpecialty(ctx, specialty); err != nil {
		return nil, fmt.Errorf("failed to create specialty: %w", err)
	}
	return specialty, nil
}

func (s *Service) DeleteSpecialty(ctx context.Context, id int64) error {
	return s.catalog.DeleteSpecialty(ctx, id)
}
