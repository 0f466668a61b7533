// Package discovery provides the donor discovery and location-matching
// bounded context module.
package discovery

import (
	"time"

	"bloodconnect_backend/internal/discovery/geocode"
	"bloodconnect_backend/internal/discovery/handler"
	"bloodconnect_backend/internal/discovery/repository"
	"bloodconnect_backend/internal/discovery/tracker"
	apphttp "bloodconnect_backend/internal/http"
	"bloodconnect_backend/platform/config"
	"bloodconnect_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module is the discovery bounded context module implementing http.Module.
type Module struct {
	handler  *handler.Handler
	sessions *tracker.Manager
}

// Config combines the settings discovery needs.
type Config interface {
	config.GeocodeConfig
}

// NewModule creates and initializes the discovery module. The Redis client
// is optional; without it geocode lookups go straight to Nominatim.
func NewModule(pool *pgxpool.Pool, rdb *redis.Client, cfg Config, log *logger.Logger) *Module {
	repo := repository.New(pool)

	var geocoder geocode.Geocoder = geocode.New(geocode.Config{
		BaseURL:   cfg.GetNominatimBaseURL(),
		UserAgent: cfg.GetGeocodeUserAgent(),
	}, log)
	if rdb != nil {
		ttl := cfg.GetGeocodeCacheTTL()
		if ttl <= 0 {
			ttl = 10 * time.Minute
		}
		geocoder = geocode.NewCached(geocoder, rdb, ttl, log)
	}

	// No server-side device capability: positions are client-reported, so
	// the provider stays nil and provider-based requests degrade to a
	// LocationError the UI turns into the manual search fallback.
	sessions := tracker.NewManager(repo, geocoder, nil, log)
	h := handler.New(sessions, geocoder)

	return &Module{handler: h, sessions: sessions}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "discovery"
}

// Sessions returns the tracker session manager for cross-module use
// (e.g. dropping a session on logout).
func (m *Module) Sessions() *tracker.Manager {
	return m.sessions
}

// RegisterRoutes mounts discovery routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/discovery")
	group.GET("/map", m.handler.GetMap)
	group.POST("/refresh", m.handler.Refresh)
	group.PUT("/filter", m.handler.SetFilter)
	group.POST("/position", m.handler.ReportPosition)
	group.GET("/geocode/search", m.handler.SearchLocation)
	group.POST("/geocode/select", m.handler.SelectSearchResult)
	group.GET("/geocode/reverse", m.handler.ReverseLookup)
	group.POST("/donors/:id/focus", m.handler.FocusDonor)
	group.POST("/donors/blur", m.handler.BlurDonor)
	group.GET("/donors/:id/directions", m.handler.GetDirections)
	group.GET("/donors/:id/directions/qr", m.handler.GetDirectionsQR)
}

var _ apphttp.Module = (*Module)(nil)
