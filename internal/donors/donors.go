// Package donors manages standalone donor registrations submitted through
// the public donor form.
package donors

import (
	"context"
	"net/http"
	"time"

	apphttp "bloodconnect_backend/internal/http"
	"bloodconnect_backend/platform/apperr"
	"bloodconnect_backend/platform/httpkit"
	"bloodconnect_backend/platform/logger"
	"bloodconnect_backend/platform/phone"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Donor is a donor form registration.
type Donor struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	BloodType        string     `json:"bloodType"`
	Phone            string     `json:"phone"`
	Location         string     `json:"location"`
	LastDonationDate *time.Time `json:"lastDonationDate,omitempty"`
	IsAvailable      bool       `json:"isAvailable"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type createDonorRequest struct {
	Name             string     `json:"name" binding:"required,min=2"`
	Email            string     `json:"email" binding:"required,email"`
	BloodType        string     `json:"bloodType" binding:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Phone            string     `json:"phone" binding:"required"`
	Location         string     `json:"location" binding:"required"`
	LastDonationDate *time.Time `json:"lastDonationDate"`
}

// Module wires donor registration routes.
type Module struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewModule creates the donors module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	return &Module{pool: pool, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "donors"
}

// RegisterRoutes mounts donor routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/donor", m.create)
	ctx.Protected.GET("/donor", m.list)
}

func (m *Module) create(c *gin.Context) {
	var req createDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid donor payload", nil)
		return
	}

	donor, err := m.insert(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, donor)
}

func (m *Module) list(c *gin.Context) {
	donors, err := m.listAll(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, donors)
}

func (m *Module) insert(ctx context.Context, req createDonorRequest) (Donor, error) {
	var donor Donor
	err := m.pool.QueryRow(ctx, `
		INSERT INTO donors (name, email, blood_type, phone, location, last_donation_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, email, blood_type, phone, location, last_donation_date, is_available, created_at
	`, req.Name, req.Email, req.BloodType, phone.NormalizeE164(req.Phone), req.Location, req.LastDonationDate).Scan(
		&donor.ID,
		&donor.Name,
		&donor.Email,
		&donor.BloodType,
		&donor.Phone,
		&donor.Location,
		&donor.LastDonationDate,
		&donor.IsAvailable,
		&donor.CreatedAt,
	)
	if err != nil {
		m.log.DatabaseError("donors.insert", err)
		return Donor{}, &apperr.Error{Kind: apperr.KindInternal, Message: "failed to register donor", Op: "donors.insert", Err: err}
	}
	return donor, nil
}

func (m *Module) listAll(ctx context.Context) ([]Donor, error) {
	rows, err := m.pool.Query(ctx, `
		SELECT id, name, email, blood_type, phone, location, last_donation_date, is_available, created_at
		FROM donors
		ORDER BY created_at DESC
	`)
	if err != nil {
		m.log.DatabaseError("donors.list", err)
		return nil, &apperr.Error{Kind: apperr.KindInternal, Message: "failed to list donors", Op: "donors.list", Err: err}
	}
	defer rows.Close()

	donors := make([]Donor, 0)
	for rows.Next() {
		var d Donor
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.BloodType, &d.Phone, &d.Location, &d.LastDonationDate, &d.IsAvailable, &d.CreatedAt); err != nil {
			return nil, &apperr.Error{Kind: apperr.KindInternal, Message: "failed to list donors", Op: "donors.list", Err: err}
		}
		donors = append(donors, d)
	}
	return donors, rows.Err()
}

var _ apphttp.Module = (*Module)(nil)
