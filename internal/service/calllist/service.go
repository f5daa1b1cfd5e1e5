package calllist

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

// Service manages outbound call campaigns. Activating a list queues a
// webhook carrying the list and its entries so the dialer can start
// working through it.
type Service struct {
	lists  repository.CallListRepository
	outbox repository.OutboxRepository
	logger *logger.Logger
}

func NewService(lists repository.CallListRepository, outbox repository.OutboxRepository, logger *logger.Logger) *Service {
	return &Service{lists: lists, outbox: outbox, logger: logger}
}

func (s *Service) Create(ctx context.Context, req *model.CreateCallListRequest) (*model.CallList, error) {
	list := &model.CallList{
		ID:               uuid.New(),
		Name:             req.Name,
		AssistantMessage: req.AssistantMessage,
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to create call list: %w", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.CallList, error) {
	return s.lists.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*model.CallList, error) {
	return s.lists.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.lists.Delete(ctx, id)
}

// Activate marks the list active, resets its entries to waiting and queues
// the activation webhook. The webhook is best-effort.
func (s *Service) Activate(ctx context.Context, id uuid.UUID, req *model.ActivateCallListRequest) (*model.CallList, error) {
	var assistantMessage *string
	if req != nil {
		assistantMessage = req.AssistantMessage
	}
	if err := s.lists.Activate(ctx, id, assistantMessage); err != nil {
		return nil, fmt.Errorf("failed to activate call list: %w", err)
	}

	list, err := s.lists.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.queueActivation(ctx, list)
	return list, nil
}

type activationEvent struct {
	List       *model.CallList        `json:"liste"`
	Entries    []*model.CallListEntry `json:"kisiler"`
	OccurredAt time.Time              `json:"zaman"`
}

func (s *Service) queueActivation(ctx context.Context, list *model.CallList) {
	entries, err := s.lists.ListEntries(ctx, list.ID)
	if err != nil {
		s.logger.Warn("failed to load entries for activation webhook",
			"list_id", list.ID.String(), "error", err.Error())
	}

	raw, err := json.Marshal(activationEvent{List: list, Entries: entries, OccurredAt: time.Now().UTC()})
	if err != nil {
		s.logger.Error(err, "failed to marshal activation payload", "list_id", list.ID.String())
		return
	}

	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: model.EventCallListActivated,
		Payload:   raw,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to queue activation event", "list_id", list.ID.String())
	}
}

func (s *Service) ListEntries(ctx context.Context, listID uuid.UUID) ([]*model.CallListEntry, error) {
	return s.lists.ListEntries(ctx, listID)
}

func (s *Service) AddEntry(ctx context.Context, listID uuid.UUID, req *model.CreateCallListEntryRequest) (*model.CallListEntry, error) {
	entry := &model.CallListEntry{
		ID:         uuid.New(),
		ListID:     listID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		CallStatus: model.EntryWaiting,
	}
	if err := s.lists.AddEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to add call list entry: %w", err)
	}
	return entry, nil
}

func (s *Service) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	return s.lists.DeleteEntry(ctx, id)
}
