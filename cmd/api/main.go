package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/klinikvoice/admin-api/internal/config"
	"github.com/klinikvoice/admin-api/internal/email"
	"github.com/klinikvoice/admin-api/internal/handler"
	appointmentHandler "github.com/klinikvoice/admin-api/internal/handler/appointment"
	authHandler "github.com/klinikvoice/admin-api/internal/handler/auth"
	calllistHandler "github.com/klinikvoice/admin-api/internal/handler/calllist"
	callrecordHandler "github.com/klinikvoice/admin-api/internal/handler/callrecord"
	catalogHandler "github.com/klinikvoice/admin-api/internal/handler/catalog"
	dashboardHandler "github.com/klinikvoice/admin-api/internal/handler/dashboard"
	doctorHandler "github.com/klinikvoice/admin-api/internal/handler/doctor"
	leadHandler "github.com/klinikvoice/admin-api/internal/handler/lead"
	notificationHandler "github.com/klinikvoice/admin-api/internal/handler/notification"
	userHandler "github.com/klinikvoice/admin-api/internal/handler/user"
	"github.com/klinikvoice/admin-api/internal/middleware"
	"github.com/klinikvoice/admin-api/internal/repository/postgres"
	"github.com/klinikvoice/admin-api/internal/repository/redisstore"
	"github.com/klinikvoice/admin-api/internal/router"
	appointmentService "github.com/klinikvoice/admin-api/internal/service/appointment"
	authService "github.com/klinikvoice/admin-api/internal/service/auth"
	calllistService "github.com/klinikvoice/admin-api/internal/service/calllist"
	callrecordService "github.com/klinikvoice/admin-api/internal/service/callrecord"
	catalogService "github.com/klinikvoice/admin-api/internal/service/catalog"
	doctorService "github.com/klinikvoice/admin-api/internal/service/doctor"
	leadService "github.com/klinikvoice/admin-api/internal/service/lead"
	"github.com/klinikvoice/admin-api/internal/service/notification"
	"github.com/klinikvoice/admin-api/internal/service/session"
	"github.com/klinikvoice/admin-api/pkg/auth"
	"github.com/klinikvoice/admin-api/pkg/logger"
	"github.com/klinikvoice/admin-api/pkg/metrics"
)

const sweepInterval = time.Minute

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

	cursorStore, err := redisstore.NewCursorStore(redisstore.Config{
		URL:          cfg.Redis.URL,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	appMetrics := metrics.NewMetrics("klinikvoice", "admin_api")

	// Repositories
	base := postgres.NewBaseRepository(db)
	adminRepo := postgres.NewAdminRepository(base)
	loginRepo := postgres.NewDoctorLoginRepository(base)
	doctorRepo := postgres.NewDoctorRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)
	callRecordRepo := postgres.NewCallRecordRepository(base)
	callListRepo := postgres.NewCallListRepository(base)
	leadRepo := postgres.NewLeadRepository(base)
	catalogRepo := postgres.NewCatalogRepository(base)
	sessionRepo := postgres.NewSessionRepository(base)
	tokenRepo := postgres.NewTokenRepository(base)
	outboxRepo := postgres.NewOutboxRepository(base)

	emailSvc := email.NewService(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Services
	authSvc := authService.NewService(adminRepo, loginRepo, doctorRepo, sessionRepo, tokenRepo, jwtSvc, emailSvc, appLogger)
	resolver := session.NewResolver(adminRepo, loginRepo, doctorRepo, authSvc, appLogger)
	notificationManager := notification.NewManager(ctx, cursorStore, callRecordRepo, cfg.Notifications.PollInterval, appMetrics, appLogger)
	appointmentSvc := appointmentService.NewService(appointmentRepo, doctorRepo, outboxRepo, appLogger)
	callRecordSvc := callrecordService.NewService(callRecordRepo)
	callListSvc := calllistService.NewService(callListRepo, outboxRepo, appLogger)
	doctorSvc := doctorService.NewService(doctorRepo)
	leadSvc := leadService.NewService(leadRepo)
	catalogSvc := catalogService.NewService(catalogRepo)

	// Session events drive the role resolver and the notification trackers.
	resolverEvents, cancelResolverSub := authSvc.Subscribe()
	defer cancelResolverSub()
	go resolver.Watch(ctx, resolverEvents)

	trackerEvents, cancelTrackerSub := authSvc.Subscribe()
	defer cancelTrackerSub()
	go notificationManager.Watch(ctx, trackerEvents)

	go authSvc.StartSweeper(ctx, sweepInterval)

	authMiddleware := middleware.NewAuthMiddleware(authSvc, resolver)

	r := router.NewRouter(authMiddleware, router.Handlers{
		Ops:          handler.NewHandler(db),
		Auth:         authHandler.NewHandler(authSvc, resolver),
		Notification: notificationHandler.NewHandler(notificationManager),
		Appointment:  appointmentHandler.NewHandler(appointmentSvc),
		CallRecord:   callrecordHandler.NewHandler(callRecordSvc),
		CallList:     calllistHandler.NewHandler(callListSvc),
		Dashboard:    dashboardHandler.NewHandler(callRecordSvc),
		Doctor:       doctorHandler.NewHandler(doctorSvc),
		Lead:         leadHandler.NewHandler(leadSvc),
		Catalog:      catalogHandler.NewHandler(catalogSvc),
		User:         userHandler.NewHandler(authSvc),
	}, router.Config{
		RatePerSecond: cfg.RateLimit.PerSecond,
		RateBurst:     cfg.RateLimit.Burst,
		CORS:          middleware.DefaultCORSConfig(),
	}, appLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server exited properly")
}
