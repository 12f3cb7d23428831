package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/fooddemand/api/internal/application/account"
	"github.com/fooddemand/api/internal/application/dataset"
	"github.com/fooddemand/api/internal/application/forecast"
	"github.com/fooddemand/api/internal/application/otp"
	"github.com/fooddemand/api/internal/config"
	"github.com/fooddemand/api/internal/transport/http/handler"
	appmiddleware "github.com/fooddemand/api/internal/transport/http/middleware"
)

// Deps holds the wired services the router exposes.
type Deps struct {
	OtpService      otp.Service
	AccountService  account.Service
	DatasetService  dataset.Service
	ForecastService forecast.Service
	Authenticator   appmiddleware.Authenticator
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.Authenticator)

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	otpH := handler.NewOtpHandler(deps.OtpService)
	userH := handler.NewUserHandler(deps.AccountService)
	sessionH := handler.NewSessionHandler(deps.AccountService)
	datasetH := handler.NewDatasetHandler(deps.DatasetService)
	forecastH := handler.NewForecastHandler(deps.ForecastService)

	r.Get("/health", handler.Health)

	// ── OTP relay (public) ───────────────────────────────────────────────
	r.Route("/api/otp", func(r chi.Router) {
		r.With(sensitiveRL.Limit).Post("/email/send", otpH.SendEmail)
		r.Post("/email/verify", otpH.VerifyEmail)
		r.With(sensitiveRL.Limit).Post("/phone/send", otpH.SendPhone)
		r.Post("/phone/verify", otpH.VerifyPhone)
	})

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────
		r.With(sensitiveRL.Limit).Post("/users", userH.Register)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.With(sensitiveRL.Limit).Post("/sessions/social", sessionH.SocialLogin)

		// ── Authenticated routes ─────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)

			r.Post("/datasets", datasetH.Upload)
			r.Get("/datasets", datasetH.Get)
			r.Delete("/datasets", datasetH.Delete)
			r.Get("/datasets/history", datasetH.History)
			r.Delete("/datasets/history", datasetH.RemoveHistory)

			r.Post("/forecast", forecastH.Forecast)
		})
	})

	return r
}
