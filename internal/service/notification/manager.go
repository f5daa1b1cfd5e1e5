package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
	"github.com/klinikvoice/admin-api/pkg/logger"
	"github.com/klinikvoice/admin-api/pkg/metrics"
)

// Manager runs one Tracker per signed-in identity. It follows session
// events: a sign-in attaches a tracker, a session end detaches it and stops
// its polling. Tracker lifetimes derive from the manager's base context,
// never from the caller's: an attach from a request handler must outlive
// that request.
type Manager struct {
	baseCtx  context.Context
	cursors  repository.CursorStore
	calls    CallCounter
	interval time.Duration
	metrics  *metrics.Metrics
	logger   *logger.Logger

	mu       sync.Mutex
	trackers map[uuid.UUID]*trackedIdentity
}

type trackedIdentity struct {
	tracker *Tracker
	cancel  context.CancelFunc
}

func NewManager(
	baseCtx context.Context,
	cursors repository.CursorStore,
	calls CallCounter,
	interval time.Duration,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Manager {
	return &Manager{
		baseCtx:  baseCtx,
		cursors:  cursors,
		calls:    calls,
		interval: interval,
		metrics:  metrics,
		logger:   logger,
		trackers: make(map[uuid.UUID]*trackedIdentity),
	}
}

// Attach starts a polling tracker for the identity, or returns the one
// already running. Two sessions for the same identity share a tracker. The
// initial refresh completes before Attach returns, so the first counts read
// is already accurate.
func (m *Manager) Attach(identityID uuid.UUID) *Tracker {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tracked, ok := m.trackers[identityID]; ok {
		return tracked.tracker
	}

	tracker := NewTracker(identityID, m.cursors, m.calls, m.interval, m.metrics, m.logger)
	trackerCtx, cancel := context.WithCancel(m.baseCtx)
	m.trackers[identityID] = &trackedIdentity{tracker: tracker, cancel: cancel}
	tracker.Refresh(trackerCtx)
	go tracker.poll(trackerCtx)

	return tracker
}

// Get returns the running tracker for an identity, if any.
func (m *Manager) Get(identityID uuid.UUID) (*Tracker, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tracked, ok := m.trackers[identityID]
	if !ok {
		return nil, false
	}
	return tracked.tracker, true
}

// Detach stops the identity's tracker. Detaching an unknown identity is a
// no-op.
func (m *Manager) Detach(identityID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tracked, ok := m.trackers[identityID]; ok {
		tracked.cancel()
		delete(m.trackers, identityID)
	}
}

// Watch follows session events until the context is cancelled or the
// channel closes.
func (m *Manager) Watch(ctx context.Context, events <-chan model.SessionEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Session == nil {
				m.Detach(event.IdentityID)
			} else {
				m.Attach(event.IdentityID)
			}
		}
	}
}
