package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/klinikvoice/admin-api/internal/config"
	"github.com/klinikvoice/admin-api/internal/model"
	"github.com/klinikvoice/admin-api/internal/repository/postgres"
	"github.com/klinikvoice/admin-api/pkg/logger"
	"github.com/klinikvoice/admin-api/pkg/metrics"
	"github.com/klinikvoice/admin-api/pkg/webhook"
	"github.com/klinikvoice/admin-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(postgres.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	notifier := webhook.NewNotifier(webhook.Config{
		Endpoints: map[string]string{
			model.EventAppointmentApproved: cfg.Webhooks.AppointmentApprovedURL,
			model.EventAppointmentRejected: cfg.Webhooks.AppointmentRejectedURL,
			model.EventCallListActivated:   cfg.Webhooks.CallListActivatedURL,
		},
		Timeout: cfg.Webhooks.Timeout,
	}, appLogger)

	processor := worker.NewWebhookProcessor(
		postgres.NewOutboxRepository(postgres.NewBaseRepository(db)),
		notifier,
		worker.WebhookProcessorConfig{
			BatchSize:     cfg.Outbox.BatchSize,
			PollInterval:  cfg.Outbox.PollInterval,
			RetryAttempts: cfg.Outbox.RetryAttempts,
			RetryDelay:    cfg.Outbox.RetryDelay,
		},
		appLogger,
		metrics.NewMetrics("klinikvoice", "webhook_worker"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("webhook delivery worker started")
	processor.Start(ctx)
	log.Info().Msg("webhook delivery worker stopped")
}
