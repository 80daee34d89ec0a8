// Package httpapi exposes the REST endpoints consumed by the DropWatch
// clients. Error responses always carry the shape {"error": "..."}.
package httpapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"dropwatch/internal/logging"
	"dropwatch/internal/server/config"
	"dropwatch/internal/server/counseling"
	"dropwatch/internal/server/students"
	"dropwatch/internal/server/users"
)

type Server struct {
	log      logging.Logger
	users    *users.Service
	students *students.Service
	notes    *counseling.Service

	jwtSecret          []byte
	allowedEmailDomain string
	validate           *validator.Validate
}

func NewServer(log logging.Logger, us *users.Service, ss *students.Service, cs *counseling.Service, cfg *config.Config) *Server {
	return &Server{
		log:                log,
		users:              us,
		students:           ss,
		notes:              cs,
		jwtSecret:          []byte(cfg.SecretKey),
		allowedEmailDomain: cfg.AllowedEmailDomain,
		validate:           validator.New(),
	}
}

// Routes assembles the router. Everything outside /auth requires a valid
// bearer token; the dashboard endpoints are additionally role-gated.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleStartOTPLogin)
		r.Post("/verify-otp", s.handleVerifyOTP)
		r.Post("/login-password", s.handleLoginPassword)
		r.Post("/forgot-password", s.handleForgotPassword)
		r.Post("/verify-reset-code", s.handleVerifyResetCode)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.With(s.requireRole(users.RoleStudent)).
			Get("/students/me", s.handleMyProfile)

		r.With(s.requireRole(users.RoleAdmin)).
			Get("/students/", s.handleListStudents)

		r.With(s.requireRole(users.RoleTeacher, users.RoleAdmin)).
			Get("/teachers/students", s.handleListStudents)
		r.With(s.requireRole(users.RoleTeacher, users.RoleAdmin)).
			Post("/teachers/batch_predict", s.handleBatchPredict)
		r.With(s.requireRole(users.RoleTeacher, users.RoleAdmin)).
			Post("/upload_csv", s.handleUploadCSV)

		r.With(s.requireRole(users.RoleTeacher)).
			Post("/counseling/add", s.handleAddCounseling)

		r.With(s.requireRole(users.RoleAdmin)).
			Get("/admin/users", s.handleListUsers)
		r.With(s.requireRole(users.RoleAdmin)).
			Get("/admin/analytics", s.handleAnalytics)
	})

	return r
}
