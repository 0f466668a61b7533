// Package handler exposes the auth HTTP endpoints.
package handler

import (
	"net/http"

	"bloodconnect_backend/internal/auth/service"
	"bloodconnect_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// SessionDropper discards per-user server-side session state, such as a
// donor discovery map session, when the user logs out.
type SessionDropper interface {
	Drop(ownerEmail string)
}

type Handler struct {
	svc      *service.Service
	sessions SessionDropper
}

func New(svc *service.Service, sessions SessionDropper) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

type signUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignUp handles POST /api/v1/auth/signup.
func (h *Handler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "email, name and password (min 8 chars) are required", nil)
		return
	}

	result, err := h.svc.SignUp(c.Request.Context(), req.Email, req.Name, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, result)
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "email and password are required", nil)
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Logout handles POST /api/v1/auth/logout. Tokens are stateless, so the
// only server-side state to tear down is the caller's map session.
func (h *Handler) Logout(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	if h.sessions != nil {
		h.sessions.Drop(id.Email())
	}

	httpkit.OK(c, gin.H{"message": "logged out"})
}

// Me handles GET /api/v1/auth/me for the authenticated caller.
func (h *Handler) Me(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	httpkit.OK(c, gin.H{
		"userId": id.UserID(),
		"email":  id.Email(),
		"roles":  id.Roles(),
	})
}
