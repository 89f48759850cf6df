package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hodanhealth/mobile-api/internal/booking"
	"github.com/hodanhealth/mobile-api/internal/directory"
	"github.com/hodanhealth/mobile-api/internal/labs"
	"github.com/hodanhealth/mobile-api/internal/orders"
	"github.com/hodanhealth/mobile-api/internal/otp"
	"github.com/hodanhealth/mobile-api/internal/patient"
)

type RouterConfig struct {
	Booking   *booking.Service
	Patients  *patient.Service
	Directory *directory.Service
	Orders    *orders.Service
	Labs      *labs.Service
	OTP       *otp.Service
	PgPool    *pgxpool.Pool
	Redis     *redis.Client
	Env       string
	Version   string
	Logger    zerolog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Patient endpoints
	r.Post("/patients", registerPatientHandler(cfg.Patients, cfg.Logger))
	r.Post("/patients/login", patientLoginHandler(cfg.Patients, cfg.Logger))
	r.Get("/patients", listPatientsHandler(cfg.Patients, cfg.Logger))
	r.Get("/patients/{id}", patientProfileHandler(cfg.Patients, cfg.Logger))
	r.Get("/districts", listDistrictsHandler(cfg.Patients, cfg.Logger))

	// Directory endpoints
	r.Get("/doctors", listDoctorsHandler(cfg.Directory, cfg.Logger))
	r.Get("/departments", listDepartmentsHandler(cfg.Directory, cfg.Logger))
	r.Get("/banners", listBannersHandler(cfg.Directory, cfg.Logger))

	// Appointment endpoints
	r.Post("/appointments", createAppointmentHandler(cfg.Booking, cfg.Logger))
	r.Post("/appointments/validate", validateAppointmentHandler(cfg.Booking, cfg.Logger))
	r.Get("/appointments", listAppointmentsHandler(cfg.Booking, cfg.Logger))

	// Order and lab endpoints
	r.Get("/orders", listOrdersHandler(cfg.Orders, cfg.Logger))
	r.Post("/orders/{id}/invoice", convertOrderHandler(cfg.Orders, cfg.Logger))
	r.Get("/lab-results", listLabResultsHandler(cfg.Labs, cfg.Logger))

	// OTP endpoints
	r.Post("/otp/send", sendOTPHandler(cfg.OTP, cfg.Logger))
	r.Post("/otp/verify", verifyOTPHandler(cfg.OTP, cfg.Logger))
	r.Post("/otp/validate-token", validateTokenHandler(cfg.OTP, cfg.Logger))

	return r
}
