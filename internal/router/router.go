package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/expenso-dev/expenso/internal/domain"
	mw "github.com/expenso-dev/expenso/internal/middleware"
	"github.com/expenso-dev/expenso/internal/setup"
)

// New creates and configures the chi router with all routes. Required role
// sets are declared here, statically, next to the routes they protect.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	h := deps.Handler
	authMw := deps.AuthMiddleware
	guard := deps.Guard

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", h.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Post("/verify-email", h.VerifyEmail)
			r.Post("/forgot-password", h.ForgotPassword)
			r.Post("/reset-password", h.ResetPassword)
		})

		r.Route("/reimbursements", func(r chi.Router) {
			r.Use(authMw.NeedAuth())

			r.Post("/", h.CreateReimbursement)
			r.Get("/me", h.MyReimbursements)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(guard, domain.RoleAdmin))
				r.Get("/all", h.AllReimbursements)
				r.Put("/{id}/status", h.UpdateReimbursementStatus)
			})

			r.Get("/{id}", h.GetReimbursement)
		})
	})

	return r
}
