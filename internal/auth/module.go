// Package auth provides the authentication bounded context module.
package auth

import (
	"bloodconnect_backend/internal/auth/handler"
	"bloodconnect_backend/internal/auth/repository"
	"bloodconnect_backend/internal/auth/service"
	"bloodconnect_backend/internal/events"
	apphttp "bloodconnect_backend/internal/http"
	"bloodconnect_backend/platform/config"
	"bloodconnect_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the auth module. The session dropper
// lets logout tear down the caller's discovery map session.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, bus events.Bus, sessions handler.SessionDropper, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, bus, log)
	h := handler.New(svc, sessions)

	return &Module{handler: h, service: svc, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Repository returns the repository for cross-module adapters.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts auth routes. Signup and login sit behind the
// stricter auth rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/auth")
	group.Use(ctx.AuthRateLimiter.RateLimit())
	group.POST("/signup", m.handler.SignUp)
	group.POST("/login", m.handler.Login)

	ctx.Protected.GET("/auth/me", m.handler.Me)
	ctx.Protected.POST("/auth/logout", m.handler.Logout)
}

var _ apphttp.Module = (*Module)(nil)
