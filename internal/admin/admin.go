// Package admin exposes platform-wide statistics for operators.
package admin

import (
	"context"
	"net/http"

	apphttp "bloodconnect_backend/internal/http"
	"bloodconnect_backend/platform/httpkit"
	"bloodconnect_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Stats is the dashboard snapshot returned to operators.
type Stats struct {
	TotalUsers         int            `json:"totalUsers"`
	DiscoverableDonors int            `json:"discoverableDonors"`
	DonorsByBloodType  map[string]int `json:"donorsByBloodType"`
	PendingRequests    int            `json:"pendingRequests"`
	DonationsScheduled int            `json:"donationsScheduled"`
	DonationsCompleted int            `json:"donationsCompleted"`
}

// Module serves admin statistics.
type Module struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewModule creates the admin module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	return &Module{pool: pool, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "admin"
}

// RegisterRoutes mounts admin routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/stats", m.stats)
}

func (m *Module) stats(c *gin.Context) {
	stats, err := m.collect(c.Request.Context())
	if err != nil {
		m.log.DatabaseError("admin.stats", err)
		httpkit.Error(c, http.StatusInternalServerError, "failed to collect statistics", nil)
		return
	}
	httpkit.OK(c, stats)
}

// collect runs the independent count queries concurrently.
func (m *Module) collect(ctx context.Context) (Stats, error) {
	var stats Stats
	stats.DonorsByBloodType = make(map[string]int)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return m.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&stats.TotalUsers)
	})

	g.Go(func() error {
		return m.pool.QueryRow(ctx, `
			SELECT count(*) FROM users
			WHERE blood_type IS NOT NULL AND lat IS NOT NULL AND lng IS NOT NULL
		`).Scan(&stats.DiscoverableDonors)
	})

	g.Go(func() error {
		rows, err := m.pool.Query(ctx, `
			SELECT blood_type, count(*) FROM users
			WHERE blood_type IS NOT NULL AND lat IS NOT NULL AND lng IS NOT NULL
			GROUP BY blood_type
		`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var bt string
			var n int
			if err := rows.Scan(&bt, &n); err != nil {
				return err
			}
			stats.DonorsByBloodType[bt] = n
		}
		return rows.Err()
	})

	g.Go(func() error {
		return m.pool.QueryRow(ctx, `
			SELECT count(*) FROM blood_requests WHERE status = 'pending'
		`).Scan(&stats.PendingRequests)
	})

	g.Go(func() error {
		return m.pool.QueryRow(ctx, `
			SELECT
				count(*) FILTER (WHERE status = 'scheduled'),
				count(*) FILTER (WHERE status = 'completed')
			FROM blood_donations
		`).Scan(&stats.DonationsScheduled, &stats.DonationsCompleted)
	})

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

var _ apphttp.Module = (*Module)(nil)
