package lead

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
)

// Service manages website form submissions.
type Service struct {
	leads repository.LeadRepository
}

func NewService(leads repository.LeadRepository) *Service {
	return &Service{leads: leads}
}

func (s *Service) Create(ctx context.Context, req *model.CreateLeadRequest) (*model.Lead, error) {
	lead := &model.Lead{
		ID:        uuid.New(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}
	return lead, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	return s.leads.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*model.Lead, error) {
	return s.leads.List(ctx)
}

// MarkCallTriggered flags that the voice pipeline was asked to call this
// lead back.
func (s *Service) MarkCallTriggered(ctx context.Context, id uuid.UUID, triggered bool) error {
	return s.leads.SetCallTriggered(ctx, id, triggered)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.leads.Delete(ctx, id)
}
