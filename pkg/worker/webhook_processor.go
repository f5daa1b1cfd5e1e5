package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository"
	"github.com/klinikvoice/admin-api/pkg/logger"
	"github.com/klinikvoice/admin-api/pkg/metrics"
	"github.com/klinikvoice/admin-api/pkg/webhook"
)

type WebhookProcessorConfig struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// WebhookProcessor drains the outbox and posts each event to the automation
// endpoint configured for its type. Delivery failures are retried here, they
// never surface to the request that produced the event.
type WebhookProcessor struct {
	repo     repository.OutboxRepository
	notifier *webhook.Notifier
	config   WebhookProcessorConfig
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewWebhookProcessor(
	repo repository.OutboxRepository,
	notifier *webhook.Notifier,
	config WebhookProcessorConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *WebhookProcessor {
	if config.BatchSize <= 0 {
		panic("BatchSize must be greater than 0")
	}
	if config.PollInterval <= 0 {
		panic("PollInterval must be greater than 0")
	}
	if config.RetryAttempts <= 0 {
		panic("RetryAttempts must be greater than 0")
	}
	if config.RetryDelay <= 0 {
		panic("RetryDelay must be greater than 0")
	}

	return &WebhookProcessor{
		repo:     repo,
		notifier: notifier,
		config:   config,
		logger:   logger,
		metrics:  metrics,
	}
}

func (p *WebhookProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("Starting webhook processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Shutting down webhook processor")
			return
		case <-ticker.C:
			if err := p.processEvents(ctx); err != nil {
				p.logger.Error(err, "Failed to process webhook events")
			}
		}
	}
}

func (p *WebhookProcessor) processEvents(ctx context.Context) error {
	timer := prometheus.NewTimer(p.metrics.WebhookDeliveryLatency)
	defer timer.ObserveDuration()

	events, err := p.repo.GetPendingEventsWithLock(ctx, p.config.BatchSize)
	if err != nil {
		p.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "error").Inc()
		return fmt.Errorf("failed to get pending events: %w", err)
	}
	p.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "success").Inc()

	for _, event := range events {
		if err := p.processEvent(ctx, event); err != nil {
			p.logger.Error(err, "Failed to deliver webhook event",
				"event_id", event.ID.String(),
				"event_type", event.EventType)
			continue
		}
	}

	return nil
}

func (p *WebhookProcessor) processEvent(ctx context.Context, event *model.OutboxEvent) error {
	// An unroutable event type never becomes deliverable; fail it without
	// burning retries.
	if !p.notifier.HasEndpoint(event.EventType) {
		errStr := webhook.ErrNoEndpoint.Error()
		return p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusFailed, &errStr)
	}

	err := p.retryNotify(ctx, event)
	if err != nil {
		p.metrics.WebhookEventsFailed.Inc()
		errStr := err.Error()
		if updateErr := p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusFailed, &errStr); updateErr != nil {
			p.logger.Error(updateErr, "Failed to update event status")
		}
		return err
	}

	p.metrics.WebhookEventsDelivered.Inc()
	if err := p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusProcessed, nil); err != nil {
		p.logger.Error(err, "Failed to update event status", "event_id", event.ID.String())
		return err
	}

	return nil
}

func (p *WebhookProcessor) retryNotify(ctx context.Context, event *model.OutboxEvent) error {
	var err error
	for i := 0; i < p.config.RetryAttempts; i++ {
		if err = p.notifier.Notify(ctx, event.EventType, event.Payload); err == nil {
			return nil
		}
		if errors.Is(err, webhook.ErrNoEndpoint) {
			return err
		}
		if i < p.config.RetryAttempts-1 {
			p.metrics.WebhookRetries.WithLabelValues(event.EventType).Inc()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.config.RetryDelay):
			}
		}
	}
	return err
}
