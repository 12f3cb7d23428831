package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fooddemand/api/internal/application/account"
	"github.com/fooddemand/api/internal/application/dataset"
	"github.com/fooddemand/api/internal/application/forecast"
	"github.com/fooddemand/api/internal/application/otp"
	"github.com/fooddemand/api/internal/config"
	"github.com/fooddemand/api/internal/infrastructure/dynamo"
	forecastapi "github.com/fooddemand/api/internal/infrastructure/forecast"
	"github.com/fooddemand/api/internal/infrastructure/google"
	jwtinfra "github.com/fooddemand/api/internal/infrastructure/jwt"
	"github.com/fooddemand/api/internal/infrastructure/memory"
	s3infra "github.com/fooddemand/api/internal/infrastructure/s3"
	"github.com/fooddemand/api/internal/infrastructure/smtp"
	"github.com/fooddemand/api/internal/infrastructure/sns"
	transporthttp "github.com/fooddemand/api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	setupLogger()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	otpDeps := otp.ServiceDeps{Mailer: smtp.NewMailer(cfg)}
	accountDeps := account.ServiceDeps{}
	datasetDeps := dataset.ServiceDeps{}
	forecastDeps := forecast.ServiceDeps{}
	authn := &transporthttp.SessionAuthenticator{}

	// Persistence backend.
	switch cfg.StoreBackend {
	case config.BackendDynamo:
		client := dynamo.NewClient(cfg)
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)

		sessions := dynamo.NewSessionRepo(client, cfg.DynamoTables.Sessions)
		verifications := dynamo.NewVerificationRepo(client, cfg.DynamoTables.Verifications)
		datasets := dynamo.NewDatasetRepo(client, cfg.DynamoTables.Datasets, cfg.DynamoTables.Uploads)

		otpDeps.SessionStore = dynamo.NewOtpRepo(client, cfg.DynamoTables.OtpSessions)
		otpDeps.VerificationStore = verifications
		accountDeps.UserStore = dynamo.NewUserRepo(client, cfg.DynamoTables.Users)
		accountDeps.SessionStore = sessions
		accountDeps.VerificationStore = verifications
		datasetDeps.Store = datasets
		forecastDeps.Store = datasets
		authn.Sessions = sessions

	default: // memory
		otpSessions := memory.NewOtpStore()
		verifications := memory.NewVerificationStore()
		sessions := memory.NewSessionStore()
		datasets := memory.NewDatasetStore()

		otpDeps.SessionStore = otpSessions
		otpDeps.VerificationStore = verifications
		accountDeps.UserStore = memory.NewUserStore()
		accountDeps.SessionStore = sessions
		accountDeps.VerificationStore = verifications
		datasetDeps.Store = datasets
		forecastDeps.Store = datasets
		authn.Sessions = sessions

		// Expired OTP sessions and verification records otherwise linger
		// until process exit.
		go memory.Sweep(ctx, time.Minute, otpSessions, verifications)
	}

	// JWT provider (optional; opaque session tokens without it).
	if provider, err := jwtinfra.NewProvider(cfg); err == nil {
		accountDeps.JWTProvider = provider
		authn.JWTProvider = provider
	} else {
		slog.Warn("jwt provider not available, using opaque session tokens", "err", err)
	}

	// SNS SMS sender (optional; phone OTP reports unavailable without it).
	if sender, err := sns.NewSender(cfg); err == nil {
		otpDeps.SMSSender = sender
	} else {
		slog.Warn("sns sender not available, phone verification disabled", "err", err)
	}

	// S3 raw-upload archiving (optional).
	if cfg.S3BucketName != "" {
		datasetDeps.Archiver = s3infra.NewStore(s3infra.NewClient(cfg), cfg.S3BucketName)
	}

	// Google social login (optional).
	if cfg.GoogleClientID != "" {
		accountDeps.SocialVerifier = google.NewVerifier(cfg.GoogleClientID)
	}

	// External forecast service (optional; local trend fallback without it).
	if cfg.ForecastAPIURL != "" {
		forecastDeps.Client = forecastapi.NewClient(cfg.ForecastAPIURL)
	}

	accountSvc := account.NewService(accountDeps)
	if err := accountSvc.EnsureDemoAccount(ctx); err != nil {
		slog.Warn("could not seed demo account", "err", err)
	}

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		OtpService:      otp.NewService(otpDeps),
		AccountService:  accountSvc,
		DatasetService:  dataset.NewService(datasetDeps),
		ForecastService: forecast.NewService(forecastDeps),
		Authenticator:   authn,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "err", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func setupLogger() {
	var handler slog.Handler
	if os.Getenv("APP_ENV") == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))
}
