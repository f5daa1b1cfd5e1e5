package callrecord

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
)

const defaultListLimit = 100

// Service reads the call history written by the voice pipeline. Records are
// append-only from this side.
type Service struct {
	records repository.CallRecordRepository
}

func NewService(records repository.CallRecordRepository) *Service {
	return &Service{records: records}
}

func (s *Service) List(ctx context.Context, category model.CallCategory, limit int) ([]*model.CallRecord, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("unknown call category %q", category)
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.records.List(ctx, category, limit)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.CallRecord, error) {
	return s.records.Get(ctx, id)
}

func (s *Service) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	return s.records.DashboardStats(ctx)
}
