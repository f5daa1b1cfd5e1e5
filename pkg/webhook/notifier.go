package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/klinikvoice/admin-api/pkg/logger"
)

// ErrNoEndpoint is returned when no endpoint is configured for an event type.
var ErrNoEndpoint = errors.New("no webhook endpoint configured for event type")

const defaultTimeout = 10 * time.Second

// Config maps event types to automation endpoints.
type Config struct {
	Endpoints map[string]string
	Timeout   time.Duration
}

// Notifier posts JSON event payloads to externally configured endpoints.
// Delivery is best-effort: callers decide whether a failure is retried,
// it never rolls back the mutation that produced the event.
type Notifier struct {
	client    *http.Client
	endpoints map[string]string
	logger    *logger.Logger
}

func NewNotifier(cfg Config, logger *logger.Logger) *Notifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Notifier{
		client:    &http.Client{Timeout: timeout},
		endpoints: cfg.Endpoints,
		logger:    logger,
	}
}

// Notify posts the payload to the endpoint configured for eventType.
// A non-2xx response is an error so the caller can retry.
func (n *Notifier) Notify(ctx context.Context, eventType string, payload []byte) error {
	url, ok := n.endpoints[eventType]
	if !ok || url == "" {
		return fmt.Errorf("%w: %s", ErrNoEndpoint, eventType)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d for event %s", resp.StatusCode, eventType)
	}

	n.logger.Debug("webhook delivered", "event_type", eventType, "url", url)
	return nil
}

// HasEndpoint reports whether an endpoint is configured for eventType.
func (n *Notifier) HasEndpoint(eventType string) bool {
	url, ok := n.endpoints[eventType]
	return ok && url != ""
}
