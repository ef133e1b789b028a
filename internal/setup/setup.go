package setup

import (
	"github.com/expenso-dev/expenso/internal/config"
	"github.com/expenso-dev/expenso/internal/handler"
	"github.com/expenso-dev/expenso/internal/jwt"
	"github.com/expenso-dev/expenso/internal/mail"
	"github.com/expenso-dev/expenso/internal/middleware"
	"github.com/expenso-dev/expenso/internal/service"
	"github.com/expenso-dev/expenso/internal/storage/pg"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	Guard          *service.Guard
}

// SetupDependencies initializes all dependencies required for the
// application. Anything misconfigured fails here, at startup.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	mailer, err := mail.New(&cfg.Private.Email, cfg.Public.FrontendURL)
	if err != nil {
		return nil, err
	}

	signer := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	auth := service.NewAuth(storage, mailer, signer, cfg)
	guard := service.NewGuard(storage)
	reimbursement := service.NewReimbursement(storage, mailer)

	h := handler.New(auth, reimbursement, cfg)
	authMw := middleware.NewAuth(signer)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: authMw,
		Guard:          guard,
	}, nil
}
