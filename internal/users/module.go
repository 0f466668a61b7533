package users

import (
	"net/http"

	apphttp "bloodconnect_backend/internal/http"
	"bloodconnect_backend/platform/httpkit"
	"bloodconnect_backend/platform/logger"
	"bloodconnect_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the user profile HTTP routes.
type Module struct {
	svc *Service
}

// NewModule creates and initializes the users module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	return &Module{svc: NewService(repo, validator.New(), log)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "users"
}

// Service returns the service layer for cross-module use.
func (m *Module) Service() *Service {
	return m.svc
}

// RegisterRoutes mounts user routes. Callers may only read and edit their
// own profile; the full listing is admin-only.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/user/:email", m.getProfile)
	ctx.Protected.PUT("/user/:email", m.updateProfile)
	ctx.Admin.GET("/users", m.listProfiles)
}

func (m *Module) getProfile(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	email := c.Param("email")
	if email != id.Email() && !id.HasRole("admin") {
		httpkit.Error(c, http.StatusForbidden, "forbidden", nil)
		return
	}

	profile, err := m.svc.Get(c.Request.Context(), email)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, profile)
}

func (m *Module) updateProfile(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	email := c.Param("email")
	if email != id.Email() && !id.HasRole("admin") {
		httpkit.Error(c, http.StatusForbidden, "forbidden", nil)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid profile payload", nil)
		return
	}

	profile, err := m.svc.Update(c.Request.Context(), email, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, profile)
}

func (m *Module) listProfiles(c *gin.Context) {
	profiles, err := m.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, profiles)
}

var _ apphttp.Module = (*Module)(nil)
