package calllist

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

type fakeLists struct {
	byID    map[uuid.UUID]*model.CallList
	entries map[uuid.UUID][]*model.CallListEntry
}

func newFakeLists() *fakeLists {
	return &fakeLists{
		byID:    make(map[uuid.UUID]*model.CallList),
		entries: make(map[uuid.UUID][]*model.CallListEntry),
	}
}

func (f *fakeLists) Create(_ context.Context, list *model.CallList) error {
	f.byID[list.ID] = list
	return nil
}

func (f *fakeLists) Get(_ context.Context, id uuid.UUID) (*model.CallList, error) {
	if list, ok := f.byID[id]; ok {
		return list, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeLists) List(_ context.Context) ([]*model.CallList, error) {
	out := make([]*model.CallList, 0, len(f.byID))
	for _, list := range f.byID {
		out = append(out, list)
	}
	return out, nil
}

func (f *fakeLists) Activate(_ context.Context, id uuid.UUID, assistantMessage *string) error {
	list, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	list.Active = true
	if assistantMessage != nil {
		list.AssistantMessage = assistantMessage
	}
	for _, entry := range f.entries[id] {
		entry.CallStatus = model.EntryWaiting
	}
	return nil
}

func (f *fakeLists) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	delete(f.entries, id)
	return nil
}

func (f *fakeLists) ListEntries(_ context.Context, listID uuid.UUID) ([]*model.CallListEntry, error) {
	return f.entries[listID], nil
}

func (f *fakeLists) AddEntry(_ context.Context, entry *model.CallListEntry) error {
	f.entries[entry.ListID] = append(f.entries[entry.ListID], entry)
	if list, ok := f.byID[entry.ListID]; ok {
		list.TotalPeople++
	}
	return nil
}

func (f *fakeLists) DeleteEntry(_ context.Context, id uuid.UUID) error {
	for listID, entries := range f.entries {
		for i, entry := range entries {
			if entry.ID == id {
				f.entries[listID] = append(entries[:i], entries[i+1:]...)
				return nil
			}
		}
	}
	return repository.ErrNotFound
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

func TestActivateQueuesWebhookWithEntries(t *testing.T) {
	lists := newFakeLists()
	outbox := &fakeOutbox{}
	svc := NewService(lists, outbox, testLogger())

	list, err := svc.Create(context.Background(), &model.CreateCallListRequest{Name: "Mart kampanyası"})
	require.NoError(t, err)

	phone := "+905551112233"
	_, err = svc.AddEntry(context.Background(), list.ID, &model.CreateCallListEntryRequest{Phone: &phone})
	require.NoError(t, err)

	message := "Merhaba, kliniğimizden arıyoruz"
	activated, err := svc.Activate(context.Background(), list.ID, &model.ActivateCallListRequest{AssistantMessage: &message})
	require.NoError(t, err)
	assert.True(t, activated.Active)

	require.Len(t, outbox.events, 1)
	event := outbox.events[0]
	assert.Equal(t, model.EventCallListActivated, event.EventType)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Contains(t, string(payload["liste"]), "Mart kampanyası")
	assert.Contains(t, string(payload["kisiler"]), phone)
}

func TestActivateUnknownList(t *testing.T) {
	svc := NewService(newFakeLists(), &fakeOutbox{}, testLogger())

	_, err := svc.Activate(context.Background(), uuid.New(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestActivateSucceedsWhenOutboxFails(t *testing.T) {
	lists := newFakeLists()
	outbox := &fakeOutbox{err: errors.New("connection refused")}
	svc := NewService(lists, outbox, testLogger())

	list, err := svc.Create(context.Background(), &model.CreateCallListRequest{Name: "Kampanya"})
	require.NoError(t, err)

	activated, err := svc.Activate(context.Background(), list.ID, nil)
	require.NoError(t, err)
	assert.True(t, activated.Active)
}

func TestAddEntryDefaultsToWaiting(t *testing.T) {
	lists := newFakeLists()
	svc := NewService(lists, &fakeOutbox{}, testLogger())

	list, err := svc.Create(context.Background(), &model.CreateCallListRequest{Name: "Kampanya"})
	require.NoError(t, err)

	phone := "+905551112233"
	entry, err := svc.AddEntry(context.Background(), list.ID, &model.CreateCallListEntryRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, model.EntryWaiting, entry.CallStatus)
	assert.Equal(t, 1, list.TotalPeople)
}
