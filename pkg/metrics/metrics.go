package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Webhook delivery metrics
	WebhookEventsDelivered prometheus.Counter
	WebhookEventsFailed    prometheus.Counter
	WebhookDeliveryLatency prometheus.Histogram
	WebhookRetries         *prometheus.CounterVec

	// Notification poller metrics
	NotificationRefreshes     *prometheus.CounterVec
	NotificationUnseenRecords *prometheus.GaugeVec

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
	DatabaseLatency    *prometheus.HistogramVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		WebhookEventsDelivered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "webhook_events_delivered_total",
			Help:      "Total number of successfully delivered webhook events",
		}),
		WebhookEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "webhook_events_failed_total",
			Help:      "Total number of webhook events that exhausted their retries",
		}),
		WebhookDeliveryLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "webhook_delivery_duration_seconds",
			Help:      "Time spent delivering webhook events",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		WebhookRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "webhook_retry_attempts_total",
			Help:      "Total number of retry attempts per webhook event type",
		}, []string{"event_type"}),

		NotificationRefreshes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notification_refreshes_total",
			Help:      "Total number of unseen-count refreshes per call category",
		}, []string{"category", "status"}),
		NotificationUnseenRecords: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notification_unseen_records",
			Help:      "Latest unseen record count per call category",
		}, []string{"category"}),

		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
		DatabaseLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operation_duration_seconds",
			Help:      "Duration of database operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
	}
}
