package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hodanhealth/mobile-api/internal/api"
	"github.com/hodanhealth/mobile-api/internal/booking"
	"github.com/hodanhealth/mobile-api/internal/config"
	"github.com/hodanhealth/mobile-api/internal/db"
	"github.com/hodanhealth/mobile-api/internal/directory"
	"github.com/hodanhealth/mobile-api/internal/imageurl"
	"github.com/hodanhealth/mobile-api/internal/labs"
	"github.com/hodanhealth/mobile-api/internal/orders"
	"github.com/hodanhealth/mobile-api/internal/otp"
	"github.com/hodanhealth/mobile-api/internal/patient"
	redisclient "github.com/hodanhealth/mobile-api/internal/redis"
	"github.com/hodanhealth/mobile-api/internal/sms"
)

const version = "1.0.0"

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "api-server").Logger()
	logger.Info().Msg("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load error")
	}

	logger.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("configuration loaded")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	logger.Info().Msg("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing redis")
		}
	}()
	logger.Info().Msg("connected to Redis")

	images := imageurl.Formatter{Host: cfg.ImageHostURL}

	bookingRepo := booking.NewPgRepository(pgPool)
	locker := redisclient.NewRedisBookingLocker(rdb, cfg.LockTTL)
	bookingSvc := booking.NewService(bookingRepo, locker, logger)

	patientSvc := patient.NewService(patient.NewPgRepository(pgPool), images, logger)
	directorySvc := directory.NewService(directory.NewPgRepository(pgPool), images)
	ordersSvc := orders.NewService(orders.NewPgRepository(pgPool), logger)
	labsSvc := labs.NewService(labs.NewPgRepository(pgPool))

	smsClient, err := sms.NewClient(sms.Config{
		BaseURL:  cfg.SMSBaseURL,
		Username: cfg.SMSUsername,
		Password: cfg.SMSPassword,
		SenderID: cfg.SMSSenderID,
		Logger:   logger,
	}, rdb)
	if err != nil {
		logger.Fatal().Err(err).Msg("sms client error")
	}

	otpSvc := otp.NewService(rdb, smsClient, otp.Config{
		OTPTTL:       cfg.OTPTTL,
		AuthTokenTTL: cfg.AuthTokenTTL,
		MaxAttempts:  cfg.OTPMaxAttempts,
	}, logger)

	router := api.NewRouter(api.RouterConfig{
		Booking:   bookingSvc,
		Patients:  patientSvc,
		Directory: directorySvc,
		Orders:    ordersSvc,
		Labs:      labsSvc,
		OTP:       otpSvc,
		PgPool:    pgPool,
		Redis:     rdb,
		Env:       cfg.Env,
		Version:   version,
		Logger:    logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server error")
		}
	case <-rootCtx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("api-server stopped")
}
