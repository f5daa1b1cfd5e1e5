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

// CallCounter counts call records newer than a cursor. Satisfied by
// repository.CallRecordRepository.
type CallCounter interface {
	CountSince(ctx context.Context, category model.CallCategory, since time.Time) (int64, error)
}

// Tracker maintains per-category unseen call counts for one signed-in
// identity. Cursors live in Redis keyed by identity and category, so two
// identities signed in at once never see each other's acknowledgements. A
// missing cursor counts everything on record as unseen.
type Tracker struct {
	identityID uuid.UUID
	cursors    repository.CursorStore
	calls      CallCounter
	interval   time.Duration
	metrics    *metrics.Metrics
	logger     *logger.Logger
	now        func() time.Time

	mu     sync.RWMutex
	counts model.UnseenCounts
}

func NewTracker(
	identityID uuid.UUID,
	cursors repository.CursorStore,
	calls CallCounter,
	interval time.Duration,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Tracker {
	return &Tracker{
		identityID: identityID,
		cursors:    cursors,
		calls:      calls,
		interval:   interval,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
		counts:     make(model.UnseenCounts),
	}
}

// poll refreshes on every tick until the context is cancelled. The caller
// does the first refresh itself, so a freshly attached tracker never serves
// counts it has not computed yet.
func (t *Tracker) poll(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	t.run(ctx, ticker.C)
}

func (t *Tracker) run(ctx context.Context, ticks <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			t.Refresh(ctx)
		}
	}
}

// Refresh recomputes every category's unseen count. Each category reads its
// cursor fresh and fails independently: one broken category reports zero
// while the others keep their real counts.
func (t *Tracker) Refresh(ctx context.Context) {
	for _, category := range model.CallCategories() {
		count, err := t.countUnseen(ctx, category)
		if err != nil {
			t.logger.Error(err, "failed to refresh unseen count",
				"identity_id", t.identityID.String(), "category", string(category))
			t.observeRefresh(category, "error")
			count = 0
		} else {
			t.observeRefresh(category, "ok")
		}
		t.setCount(category, count)
	}
}

func (t *Tracker) countUnseen(ctx context.Context, category model.CallCategory) (int64, error) {
	cursor, err := t.cursors.Get(ctx, t.identityID, category)
	if err != nil {
		return 0, err
	}
	return t.calls.CountSince(ctx, category, cursor)
}

// Clear acknowledges a category: the cursor moves to now and the count
// drops to zero before Clear returns, so the next read never shows a stale
// badge.
func (t *Tracker) Clear(ctx context.Context, category model.CallCategory) error {
	if err := t.cursors.Set(ctx, t.identityID, category, t.now()); err != nil {
		return err
	}
	t.setCount(category, 0)
	return nil
}

// ClearAll acknowledges every category. Categories that fail do not stop
// the rest; the first failure is reported.
func (t *Tracker) ClearAll(ctx context.Context) error {
	var firstErr error
	for _, category := range model.CallCategories() {
		if err := t.Clear(ctx, category); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Counts returns a snapshot of the per-category unseen counts.
func (t *Tracker) Counts() model.UnseenCounts {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snapshot := make(model.UnseenCounts, len(t.counts))
	for category, count := range t.counts {
		snapshot[category] = count
	}
	return snapshot
}

func (t *Tracker) setCount(category model.CallCategory, count int64) {
	t.mu.Lock()
	t.counts[category] = count
	t.mu.Unlock()

	if t.metrics != nil {
		t.metrics.NotificationUnseenRecords.WithLabelValues(string(category)).Set(float64(count))
	}
}

func (t *Tracker) observeRefresh(category model.CallCategory, status string) {
	if t.metrics != nil {
		t.metrics.NotificationRefreshes.WithLabelValues(string(category), status).Inc()
	}
}
