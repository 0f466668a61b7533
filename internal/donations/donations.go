// Package donations tracks scheduled and completed blood donations.
package donations

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bloodconnect_backend/internal/events"
	apphttp "bloodconnect_backend/internal/http"
	"bloodconnect_backend/internal/scheduler"
	"bloodconnect_backend/platform/apperr"
	"bloodconnect_backend/platform/httpkit"
	"bloodconnect_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Donation is a scheduled or completed blood donation.
type Donation struct {
	ID          uuid.UUID `json:"id"`
	DonorEmail  string    `json:"donorEmail"`
	DonorName   string    `json:"donorName"`
	BloodType   string    `json:"bloodType"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Location    string    `json:"location,omitempty"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type scheduleRequest struct {
	DonorName   string    `json:"donorName" binding:"required,min=2"`
	BloodType   string    `json:"bloodType" binding:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
	Location    string    `json:"location"`
	Notes       string    `json:"notes"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=scheduled completed cancelled"`
}

// DonorLedger records completed donations against a donor's profile.
// Implemented by the users module.
type DonorLedger interface {
	RecordDonation(ctx context.Context, email string) error
}

// Module wires donation routes.
type Module struct {
	pool      *pgxpool.Pool
	bus       events.Bus
	ledger    DonorLedger
	reminders scheduler.Enqueuer
	log       *logger.Logger
}

// NewModule creates the donations module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, ledger DonorLedger, reminders scheduler.Enqueuer, log *logger.Logger) *Module {
	return &Module{pool: pool, bus: bus, ledger: ledger, reminders: reminders, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "donations"
}

// RegisterRoutes mounts donation routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/blood-donation", m.schedule)
	ctx.Protected.GET("/blood-donation", m.history)
	ctx.Admin.GET("/blood-donation", m.listAll)
	ctx.Admin.PUT("/blood-donation/:id/status", m.updateStatus)
}

func (m *Module) schedule(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid donation payload", nil)
		return
	}
	if req.ScheduledAt.Before(time.Now()) {
		httpkit.Error(c, http.StatusBadRequest, "scheduledAt must be in the future", nil)
		return
	}

	created, err := m.insert(c.Request.Context(), id.Email(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	m.bus.Publish(c.Request.Context(), events.DonationScheduled{
		BaseEvent:   events.NewBaseEvent(),
		DonationID:  created.ID,
		DonorEmail:  created.DonorEmail,
		DonorName:   created.DonorName,
		BloodType:   created.BloodType,
		ScheduledAt: created.ScheduledAt,
		Location:    created.Location,
	})

	if err := m.reminders.ScheduleDonationReminder(c.Request.Context(), scheduler.DonationReminderPayload{
		DonationID:  created.ID,
		DonorEmail:  created.DonorEmail,
		DonorName:   created.DonorName,
		Location:    created.Location,
		ScheduledAt: created.ScheduledAt,
	}); err != nil {
		// Reminder delivery is best effort; the appointment itself is saved.
		m.log.Error("failed to schedule donation reminder", "donationId", created.ID, "error", err)
	}

	httpkit.Created(c, created)
}

func (m *Module) history(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	donations, err := m.listByEmail(c.Request.Context(), id.Email())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, donations)
}

func (m *Module) listAll(c *gin.Context) {
	donations, err := m.listByEmail(c.Request.Context(), "")
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, donations)
}

func (m *Module) updateStatus(c *gin.Context) {
	donationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid donation id", nil)
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "status must be scheduled, completed or cancelled", nil)
		return
	}

	var donorEmail, prevStatus string
	err = m.pool.QueryRow(c.Request.Context(), `
		UPDATE blood_donations d SET status = $2, updated_at = now()
		FROM (SELECT id, status FROM blood_donations WHERE id = $1) prev
		WHERE d.id = prev.id
		RETURNING d.donor_email, prev.status
	`, donationID, req.Status).Scan(&donorEmail, &prevStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		httpkit.Error(c, http.StatusNotFound, "donation not found", nil)
		return
	}
	if err != nil {
		m.log.DatabaseError("donations.updateStatus", err)
		httpkit.Error(c, http.StatusInternalServerError, "failed to update donation", nil)
		return
	}

	// Completing a donation bumps the donor's lifetime counter once.
	if req.Status == "completed" && prevStatus != "completed" {
		if err := m.ledger.RecordDonation(c.Request.Context(), donorEmail); err != nil {
			m.log.Error("failed to record donation on profile", "email", donorEmail, "error", err)
		}
	}

	httpkit.OK(c, gin.H{"id": donationID, "status": req.Status})
}

const donationColumns = `
	id, donor_email, donor_name, blood_type, scheduled_at,
	COALESCE(location, ''), status, COALESCE(notes, ''), created_at`

func (m *Module) insert(ctx context.Context, donorEmail string, req scheduleRequest) (Donation, error) {
	var d Donation
	err := m.pool.QueryRow(ctx, `
		INSERT INTO blood_donations (donor_email, donor_name, blood_type, scheduled_at, location, notes)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
		RETURNING `+donationColumns,
		donorEmail, req.DonorName, req.BloodType, req.ScheduledAt, req.Location, req.Notes).Scan(
		&d.ID, &d.DonorEmail, &d.DonorName, &d.BloodType, &d.ScheduledAt,
		&d.Location, &d.Status, &d.Notes, &d.CreatedAt)
	if err != nil {
		m.log.DatabaseError("donations.insert", err)
		return Donation{}, &apperr.Error{Kind: apperr.KindInternal, Message: "failed to schedule donation", Op: "donations.insert", Err: err}
	}
	return d, nil
}

// listByEmail returns donations for one donor, or all donations when email is empty.
func (m *Module) listByEmail(ctx context.Context, donorEmail string) ([]Donation, error) {
	rows, err := m.pool.Query(ctx, `
		SELECT `+donationColumns+`
		FROM blood_donations
		WHERE ($1 = '' OR donor_email = $1)
		ORDER BY scheduled_at DESC
	`, donorEmail)
	if err != nil {
		m.log.DatabaseError("donations.list", err)
		return nil, &apperr.Error{Kind: apperr.KindInternal, Message: "failed to list donations", Op: "donations.list", Err: err}
	}
	defer rows.Close()

	donations := make([]Donation, 0)
	for rows.Next() {
		var d Donation
		if err := rows.Scan(&d.ID, &d.DonorEmail, &d.DonorName, &d.BloodType, &d.ScheduledAt,
			&d.Location, &d.Status, &d.Notes, &d.CreatedAt); err != nil {
			m.log.DatabaseError("donations.list", err)
			return nil, &apperr.Error{Kind: apperr.KindInternal, Message: "failed to list donations", Op: "donations.list", Err: err}
		}
		donations = append(donations, d)
	}
	return donations, nil
}

var _ apphttp.Module = (*Module)(nil)
