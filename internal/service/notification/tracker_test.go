package notification

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/pkg/logger"
)

type cursorKey struct {
	identityID uuid.UUID
	category   model.CallCategory
}

type fakeCursorStore struct {
	mu      sync.Mutex
	cursors map[cursorKey]time.Time
	getErr  error
	setErr  error
}

func newFakeCursorStore() *fakeCursorStore {
	return &fakeCursorStore{cursors: make(map[cursorKey]time.Time)}
}

func (f *fakeCursorStore) Get(_ context.Context, identityID uuid.UUID, category model.CallCategory) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return time.Time{}, f.getErr
	}
	return f.cursors[cursorKey{identityID, category}], nil
}

func (f *fakeCursorStore) Set(_ context.Context, identityID uuid.UUID, category model.CallCategory, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.cursors[cursorKey{identityID, category}] = at
	return nil
}

type callFixture struct {
	category   model.CallCategory
	recordedAt time.Time
}

type fakeCallCounter struct {
	mu      sync.Mutex
	records []callFixture
	errs    map[model.CallCategory]error
	calls   int
}

func (f *fakeCallCounter) CountSince(_ context.Context, category model.CallCategory, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.errs[category]; err != nil {
		return 0, err
	}
	var count int64
	for _, record := range f.records {
		if record.category == category && record.recordedAt.After(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeCallCounter) countCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func newTestTracker(cursors *fakeCursorStore, calls *fakeCallCounter) *Tracker {
	return NewTracker(uuid.New(), cursors, calls, 30*time.Second, nil, testLogger())
}

func TestRefreshCountsEverythingWithoutCursor(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	calls := &fakeCallCounter{records: []callFixture{
		{model.CategoryInbound, base},
		{model.CategoryInbound, base.Add(time.Minute)},
		{model.CategoryForm, base.Add(2 * time.Minute)},
	}}
	tracker := newTestTracker(newFakeCursorStore(), calls)

	tracker.Refresh(context.Background())

	counts := tracker.Counts()
	assert.Equal(t, int64(2), counts[model.CategoryInbound])
	assert.Equal(t, int64(1), counts[model.CategoryForm])
	assert.Equal(t, int64(0), counts[model.CategoryList])
	assert.Equal(t, int64(3), counts.Total())
}

func TestRefreshCountsOnlyRecordsAfterCursor(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	cursors := newFakeCursorStore()
	calls := &fakeCallCounter{records: []callFixture{
		{model.CategoryInbound, base.Add(-time.Hour)},
		{model.CategoryInbound, base.Add(time.Minute)},
	}}
	tracker := newTestTracker(cursors, calls)
	require.NoError(t, cursors.Set(context.Background(), tracker.identityID, model.CategoryInbound, base))

	tracker.Refresh(context.Background())

	assert.Equal(t, int64(1), tracker.Counts()[model.CategoryInbound])
}

func TestClearZeroesCountBeforeReturning(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	cursors := newFakeCursorStore()
	calls := &fakeCallCounter{records: []callFixture{
		{model.CategoryForm, base},
		{model.CategoryForm, base.Add(time.Minute)},
	}}
	tracker := newTestTracker(cursors, calls)
	tracker.now = func() time.Time { return base.Add(time.Hour) }

	tracker.Refresh(context.Background())
	require.Equal(t, int64(2), tracker.Counts()[model.CategoryForm])

	require.NoError(t, tracker.Clear(context.Background(), model.CategoryForm))
	assert.Equal(t, int64(0), tracker.Counts()[model.CategoryForm])

	// The cursor moved, so the next refresh stays at zero.
	tracker.Refresh(context.Background())
	assert.Equal(t, int64(0), tracker.Counts()[model.CategoryForm])
}

func TestClearSurvivesRestart(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	cursors := newFakeCursorStore()
	calls := &fakeCallCounter{records: []callFixture{
		{model.CategoryList, base},
	}}

	tracker := newTestTracker(cursors, calls)
	tracker.now = func() time.Time { return base.Add(time.Hour) }
	require.NoError(t, tracker.Clear(context.Background(), model.CategoryList))

	// A fresh tracker for the same identity reads the persisted cursor.
	restarted := NewTracker(tracker.identityID, cursors, calls, 30*time.Second, nil, testLogger())
	restarted.Refresh(context.Background())
	assert.Equal(t, int64(0), restarted.Counts()[model.CategoryList])
}

func TestRefreshFailureIsolatedPerCategory(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	calls := &fakeCallCounter{
		records: []callFixture{
			{model.CategoryInbound, base},
			{model.CategoryForm, base},
		},
		errs: map[model.CallCategory]error{
			model.CategoryForm: errors.New("relation does not exist"),
		},
	}
	tracker := newTestTracker(newFakeCursorStore(), calls)

	tracker.Refresh(context.Background())

	counts := tracker.Counts()
	assert.Equal(t, int64(1), counts[model.CategoryInbound])
	assert.Equal(t, int64(0), counts[model.CategoryForm])
}

func TestCursorsIsolatedPerIdentity(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	cursors := newFakeCursorStore()
	calls := &fakeCallCounter{records: []callFixture{
		{model.CategoryInbound, base},
	}}

	first := NewTracker(uuid.New(), cursors, calls, 30*time.Second, nil, testLogger())
	first.now = func() time.Time { return base.Add(time.Hour) }
	second := NewTracker(uuid.New(), cursors, calls, 30*time.Second, nil, testLogger())

	require.NoError(t, first.Clear(context.Background(), model.CategoryInbound))

	second.Refresh(context.Background())
	assert.Equal(t, int64(1), second.Counts()[model.CategoryInbound],
		"one identity's acknowledgement must not hide records from another")
}

func TestClearAllAcknowledgesEveryCategory(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	calls := &fakeCallCounter{records: []callFixture{
		{model.CategoryInbound, base},
		{model.CategoryForm, base},
		{model.CategoryList, base},
	}}
	tracker := newTestTracker(newFakeCursorStore(), calls)
	tracker.now = func() time.Time { return base.Add(time.Hour) }

	tracker.Refresh(context.Background())
	require.Equal(t, int64(3), tracker.Counts().Total())

	require.NoError(t, tracker.ClearAll(context.Background()))
	assert.Equal(t, int64(0), tracker.Counts().Total())
}

func TestRunRefreshesOnEachTick(t *testing.T) {
	calls := &fakeCallCounter{}
	tracker := newTestTracker(newFakeCursorStore(), calls)

	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan time.Time)
	done := make(chan struct{})
	go func() {
		tracker.run(ctx, ticks)
		close(done)
	}()

	perRefresh := len(model.CallCategories())
	for i := 1; i <= 3; i++ {
		ticks <- time.Now()
		want := i * perRefresh
		require.Eventually(t, func() bool {
			return calls.countCalls() == want
		}, time.Second, 5*time.Millisecond)
	}

	cancel()
	<-done
	assert.Equal(t, 3*perRefresh, calls.countCalls(), "no refresh after stop")
}

func TestManagerAttachDetach(t *testing.T) {
	manager := NewManager(context.Background(), newFakeCursorStore(), &fakeCallCounter{}, time.Hour, nil, testLogger())
	identityID := uuid.New()

	tracker := manager.Attach(identityID)
	require.NotNil(t, tracker)

	again := manager.Attach(identityID)
	assert.Same(t, tracker, again)

	got, ok := manager.Get(identityID)
	require.True(t, ok)
	assert.Same(t, tracker, got)

	manager.Detach(identityID)
	_, ok = manager.Get(identityID)
	assert.False(t, ok)
}

func TestManagerAttachRefreshesBeforeReturning(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	calls := &fakeCallCounter{records: []callFixture{
		{model.CategoryInbound, base},
		{model.CategoryForm, base},
	}}
	manager := NewManager(context.Background(), newFakeCursorStore(), calls, time.Hour, nil, testLogger())

	tracker := manager.Attach(uuid.New())

	counts := tracker.Counts()
	assert.Equal(t, int64(1), counts[model.CategoryInbound])
	assert.Equal(t, int64(1), counts[model.CategoryForm])
	assert.Equal(t, int64(2), counts.Total(), "first read after attach must already be refreshed")
}

func TestManagerPollingOutlivesAttachingRequest(t *testing.T) {
	calls := &fakeCallCounter{}
	manager := NewManager(context.Background(), newFakeCursorStore(), calls, 10*time.Millisecond, nil, testLogger())
	identityID := uuid.New()

	// A handler attaches inside a request scope that ends as soon as the
	// response is written. The tracker's lifetime comes from the manager's
	// base context, so it must keep polling regardless.
	tracker := manager.Attach(identityID)

	afterAttach := calls.countCalls()
	require.Eventually(t, func() bool {
		return calls.countCalls() > afterAttach
	}, time.Second, 5*time.Millisecond, "polling stopped after the attaching request ended")

	got, ok := manager.Get(identityID)
	require.True(t, ok)
	assert.Same(t, tracker, got)

	manager.Detach(identityID)
	time.Sleep(30 * time.Millisecond)
	settled := calls.countCalls()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, calls.countCalls(), "no refresh after detach")
}

func TestManagerWatchFollowsSessionEvents(t *testing.T) {
	manager := NewManager(context.Background(), newFakeCursorStore(), &fakeCallCounter{}, time.Hour, nil, testLogger())
	identityID := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan model.SessionEvent)
	go manager.Watch(ctx, events)

	session := &model.Session{ID: uuid.New(), IdentityID: identityID, ExpiresAt: time.Now().Add(time.Hour)}
	events <- model.SessionEvent{IdentityID: identityID, Session: session}
	require.Eventually(t, func() bool {
		_, ok := manager.Get(identityID)
		return ok
	}, time.Second, 5*time.Millisecond)

	events <- model.SessionEvent{IdentityID: identityID, Session: nil}
	require.Eventually(t, func() bool {
		_, ok := manager.Get(identityID)
		return !ok
	}, time.Second, 5*time.Millisecond)
}
