// Package requests manages patient blood requests.
package requests

import (
	"context"
	"net/http"
	"time"

	"bloodconnect_backend/internal/events"
	apphttp "bloodconnect_backend/internal/http"
	"bloodconnect_backend/platform/apperr"
	"bloodconnect_backend/platform/httpkit"
	"bloodconnect_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BloodRequest is a patient's request for blood.
type BloodRequest struct {
	ID            uuid.UUID `json:"id"`
	RequesterID   uuid.UUID `json:"requesterId"`
	PatientName   string    `json:"patientName"`
	BloodType     string    `json:"bloodType"`
	UnitsRequired int       `json:"unitsRequired"`
	Division      string    `json:"division,omitempty"`
	District      string    `json:"district,omitempty"`
	Address       string    `json:"address,omitempty"`
	Urgency       string    `json:"urgency"`
	Status        string    `json:"status"`
	ContactNumber string    `json:"contactNumber,omitempty"`
	MedicalReason string    `json:"medicalReason,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type createRequest struct {
	PatientName   string `json:"patientName" binding:"required,min=2"`
	BloodType     string `json:"bloodType" binding:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	UnitsRequired int    `json:"unitsRequired" binding:"required,min=1"`
	Division      string `json:"division"`
	District      string `json:"district"`
	Address       string `json:"address"`
	Urgency       string `json:"urgency" binding:"required,oneof=immediate within24hrs within3days planned"`
	ContactNumber string `json:"contactNumber"`
	MedicalReason string `json:"medicalReason"`
	Notes         string `json:"notes"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending fulfilled cancelled"`
}

// Module wires blood request routes.
type Module struct {
	pool *pgxpool.Pool
	bus  events.Bus
	log  *logger.Logger
}

// NewModule creates the requests module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) *Module {
	return &Module{pool: pool, bus: bus, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "requests"
}

// RegisterRoutes mounts blood request routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/requestblood", m.create)
	ctx.Protected.GET("/requestblood", m.list)
	ctx.Admin.PUT("/requestblood/:id/status", m.updateStatus)
}

func (m *Module) create(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid blood request payload", nil)
		return
	}

	created, err := m.insert(c.Request.Context(), id.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	m.bus.Publish(c.Request.Context(), events.BloodRequestCreated{
		BaseEvent: events.NewBaseEvent(),
		RequestID: created.ID,
		BloodType: created.BloodType,
		Patient:   created.PatientName,
		Urgency:   created.Urgency,
		Location:  created.District,
	})

	httpkit.Created(c, created)
}

func (m *Module) list(c *gin.Context) {
	rows, err := m.pool.Query(c.Request.Context(), `
		SELECT id, requester_id, patient_name, blood_type, units_required,
		       COALESCE(division, ''), COALESCE(district, ''), COALESCE(address, ''),
		       urgency, status, COALESCE(contact_number, ''),
		       COALESCE(medical_reason, ''), COALESCE(notes, ''), created_at
		FROM blood_requests
		ORDER BY created_at DESC
	`)
	if err != nil {
		m.log.DatabaseError("requests.list", err)
		httpkit.Error(c, http.StatusInternalServerError, "failed to list blood requests", nil)
		return
	}
	defer rows.Close()

	requests := make([]BloodRequest, 0)
	for rows.Next() {
		var r BloodRequest
		if err := rows.Scan(&r.ID, &r.RequesterID, &r.PatientName, &r.BloodType, &r.UnitsRequired,
			&r.Division, &r.District, &r.Address, &r.Urgency, &r.Status,
			&r.ContactNumber, &r.MedicalReason, &r.Notes, &r.CreatedAt); err != nil {
			m.log.DatabaseError("requests.list", err)
			httpkit.Error(c, http.StatusInternalServerError, "failed to list blood requests", nil)
			return
		}
		requests = append(requests, r)
	}

	httpkit.OK(c, requests)
}

func (m *Module) updateStatus(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request id", nil)
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "status must be pending, fulfilled or cancelled", nil)
		return
	}

	tag, err := m.pool.Exec(c.Request.Context(), `
		UPDATE blood_requests SET status = $2, updated_at = now() WHERE id = $1
	`, requestID, req.Status)
	if err != nil {
		m.log.DatabaseError("requests.updateStatus", err)
		httpkit.Error(c, http.StatusInternalServerError, "failed to update request", nil)
		return
	}
	if tag.RowsAffected() == 0 {
		httpkit.Error(c, http.StatusNotFound, "blood request not found", nil)
		return
	}

	httpkit.OK(c, gin.H{"id": requestID, "status": req.Status})
}

func (m *Module) insert(ctx context.Context, requesterID uuid.UUID, req createRequest) (BloodRequest, error) {
	var created BloodRequest
	err := m.pool.QueryRow(ctx, `
		INSERT INTO blood_requests
			(requester_id, patient_name, blood_type, units_required, division, district,
			 address, urgency, contact_number, medical_reason, notes)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8,
		        NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''))
		RETURNING id, requester_id, patient_name, blood_type, units_required,
		          COALESCE(division, ''), COALESCE(district, ''), COALESCE(address, ''),
		          urgency, status, COALESCE(contact_number, ''),
		          COALESCE(medical_reason, ''), COALESCE(notes, ''), created_at
	`, requesterID, req.PatientName, req.BloodType, req.UnitsRequired, req.Division,
		req.District, req.Address, req.Urgency, req.ContactNumber, req.MedicalReason, req.Notes).Scan(
		&created.ID, &created.RequesterID, &created.PatientName, &created.BloodType,
		&created.UnitsRequired, &created.Division, &created.District, &created.Address,
		&created.Urgency, &created.Status, &created.ContactNumber, &created.MedicalReason,
		&created.Notes, &created.CreatedAt)
	if err != nil {
		m.log.DatabaseError("requests.insert", err)
		return BloodRequest{}, &apperr.Error{Kind: apperr.KindInternal, Message: "failed to create blood request", Op: "requests.insert", Err: err}
	}
	return created, nil
}

var _ apphttp.Module = (*Module)(nil)
