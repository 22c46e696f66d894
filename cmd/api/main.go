package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/redconnect/redconnect-api/config"
	"github.com/redconnect/redconnect-api/internal/email"
	"github.com/redconnect/redconnect-api/internal/handler"
	adminHandler "github.com/redconnect/redconnect-api/internal/handler/admin"
	authHandler "github.com/redconnect/redconnect-api/internal/handler/auth"
	campHandler "github.com/redconnect/redconnect-api/internal/handler/camp"
	donorHandler "github.com/redconnect/redconnect-api/internal/handler/donor"
	hospitalHandler "github.com/redconnect/redconnect-api/internal/handler/hospital"
	notificationHandler "github.com/redconnect/redconnect-api/internal/handler/notification"
	patientHandler "github.com/redconnect/redconnect-api/internal/handler/patient"
	"github.com/redconnect/redconnect-api/internal/middleware"
	"github.com/redconnect/redconnect-api/internal/repository/postgres"
	"github.com/redconnect/redconnect-api/internal/repository/redis"
	"github.com/redconnect/redconnect-api/internal/router"
	adminService "github.com/redconnect/redconnect-api/internal/service/admin"
	authService "github.com/redconnect/redconnect-api/internal/service/auth"
	campService "github.com/redconnect/redconnect-api/internal/service/camp"
	donorService "github.com/redconnect/redconnect-api/internal/service/donor"
	hospitalService "github.com/redconnect/redconnect-api/internal/service/hospital"
	notificationService "github.com/redconnect/redconnect-api/internal/service/notification"
	patientService "github.com/redconnect/redconnect-api/internal/service/patient"
	"github.com/redconnect/redconnect-api/pkg/auth"
	"github.com/redconnect/redconnect-api/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := setupLogging(cfg)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	tokenStore, err := redis.NewTokenStore(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	jwtSvc := auth.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)
	emailSvc := email.NewService(cfg.SMTP, appLogger)

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	donorRepo := postgres.NewDonorRepository(db)
	hospitalRepo := postgres.NewHospitalRepository(db)
	campProfileRepo := postgres.NewCampProfileRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	campRepo := postgres.NewCampRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	attendanceRepo := postgres.NewAttendanceRepository(db)
	stockRepo := postgres.NewStockRepository(db)
	exchangeRepo := postgres.NewExchangeRepository(db)
	requestRepo := postgres.NewBloodRequestRepository(db)
	alertRepo := postgres.NewAlertRepository(db)
	responseRepo := postgres.NewAlertResponseRepository(db)
	donationRepo := postgres.NewDonationRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Services
	notifier := notificationService.NewService(notificationRepo, appLogger)
	authSvc := authService.NewService(
		userRepo, donorRepo, hospitalRepo, campProfileRepo, patientRepo,
		tokenStore, jwtSvc, appLogger,
	)
	adminSvc := adminService.NewService(
		userRepo, hospitalRepo, campProfileRepo, requestRepo, stockRepo,
		donationRepo, notifier, emailSvc, appLogger,
	)
	hospitalSvc := hospitalService.NewService(
		hospitalRepo, stockRepo, requestRepo, alertRepo, responseRepo,
		exchangeRepo, notifier, appLogger,
	)
	campSvc := campService.NewService(
		campProfileRepo, campRepo, applicationRepo, attendanceRepo,
		donorRepo, donationRepo, notifier, appLogger,
	)
	donorSvc := donorService.NewService(
		donorRepo, userRepo, campRepo, applicationRepo, alertRepo,
		responseRepo, donationRepo, appLogger,
	)
	patientSvc := patientService.NewService(
		patientRepo, hospitalRepo, requestRepo, notifier, appLogger,
	)

	// HTTP layer
	authMW := middleware.NewAuthMiddleware(jwtSvc)
	r := router.New(
		authMW,
		authHandler.NewHandler(authSvc),
		notificationHandler.NewHandler(notifier),
		adminHandler.NewHandler(adminSvc),
		hospitalHandler.NewHandler(hospitalSvc),
		campHandler.NewHandler(campSvc),
		donorHandler.NewHandler(donorSvc),
		patientHandler.NewHandler(patientSvc),
		handler.NewHealthHandler(db),
		router.Config{
			RateLimitRPS:   cfg.RateLimit.RequestsPerSecond,
			RateLimitBurst: cfg.RateLimit.Burst,
			AllowedOrigins: cfg.Security.AllowedOrigins,
			MetricsPrefix:  "redconnect",
			MetricsEnabled: cfg.Monitoring.PrometheusEnabled,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}

func setupLogging(cfg *config.Config) *logger.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || cfg.Log.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Log.Pretty,
	})
}
