// Package handler exposes the donor discovery HTTP surface.
package handler

import (
	"errors"
	"net/http"

	"bloodconnect_backend/internal/discovery/directions"
	"bloodconnect_backend/internal/discovery/domain"
	"bloodconnect_backend/internal/discovery/geocode"
	"bloodconnect_backend/internal/discovery/tracker"
	"bloodconnect_backend/platform/apperr"
	"bloodconnect_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler serves the discovery map endpoints. Every endpoint operates on
// the calling user's tracker session.
type Handler struct {
	sessions *tracker.Manager
	geocoder geocode.Geocoder
}

// New creates a discovery handler.
func New(sessions *tracker.Manager, geocoder geocode.Geocoder) *Handler {
	return &Handler{sessions: sessions, geocoder: geocoder}
}

type positionRequest struct {
	Lat *float64 `json:"lat" form:"lat" binding:"required"`
	Lng *float64 `json:"lng" form:"lng" binding:"required"`
}

type filterRequest struct {
	BloodType string `json:"bloodType" binding:"required"`
}

type selectResultRequest struct {
	Index int `json:"index"`
}

// GetMap returns the session snapshot, fetching the pool on first mount.
func (h *Handler) GetMap(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	sess := h.sessions.Session(id.Email())
	snap := sess.Snapshot()
	if snap.State == tracker.StateIdle {
		// Initial mount: load the pool before rendering.
		if err := sess.Refresh(c.Request.Context()); err != nil {
			h.handleError(c, err)
			return
		}
		snap = sess.Snapshot()
	}

	httpkit.OK(c, snap)
}

// Refresh rebuilds the donor pool wholesale and returns the new snapshot.
func (h *Handler) Refresh(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	sess := h.sessions.Session(id.Email())
	if err := sess.Refresh(c.Request.Context()); err != nil {
		h.handleError(c, err)
		return
	}

	httpkit.OK(c, sess.Snapshot())
}

// SetFilter selects a blood type filter for the marker set.
func (h *Handler) SetFilter(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "bloodType is required", nil)
		return
	}

	sess := h.sessions.Session(id.Email())
	if err := sess.SetFilter(req.BloodType); err != nil {
		h.handleError(c, err)
		return
	}

	httpkit.OK(c, sess.Snapshot())
}

// ReportPosition applies the device position the browser acquired.
func (h *Handler) ReportPosition(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "lat and lng are required", nil)
		return
	}

	sess := h.sessions.Session(id.Email())
	if err := sess.ApplyPosition(domain.Coordinate{Lat: *req.Lat, Lng: *req.Lng}); err != nil {
		h.handleError(c, err)
		return
	}

	httpkit.OK(c, sess.Snapshot())
}

// SearchLocation forward-geocodes a free-text query. The client debounces
// input (>=300ms) or submits explicitly; an empty query returns no results
// without an upstream call.
func (h *Handler) SearchLocation(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	sess := h.sessions.Session(id.Email())
	results, err := sess.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	httpkit.OK(c, gin.H{"results": results})
}

// SelectSearchResult applies a previously returned search result as the
// user's location.
func (h *Handler) SelectSearchResult(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req selectResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "index is required", nil)
		return
	}

	sess := h.sessions.Session(id.Email())
	if err := sess.SelectSearchResult(req.Index); err != nil {
		h.handleError(c, err)
		return
	}

	httpkit.OK(c, sess.Snapshot())
}

// ReverseLookup resolves a coordinate to a display name. Best-effort: a
// failed lookup returns an empty name, never an error.
func (h *Handler) ReverseLookup(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "lat and lng are required", nil)
		return
	}

	coord := domain.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
	if !coord.Valid() {
		httpkit.Error(c, http.StatusBadRequest, "coordinate out of range", nil)
		return
	}

	name := h.geocoder.Reverse(c.Request.Context(), coord)
	httpkit.OK(c, gin.H{"displayName": name})
}

// FocusDonor opens the donor detail for a marker selection.
func (h *Handler) FocusDonor(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	sess := h.sessions.Session(id.Email())
	donor, err := sess.Focus(c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	httpkit.OK(c, gin.H{"donor": donor, "snapshot": sess.Snapshot()})
}

// BlurDonor closes the donor detail. The camera stays put.
func (h *Handler) BlurDonor(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	sess := h.sessions.Session(id.Email())
	sess.Blur()
	httpkit.OK(c, sess.Snapshot())
}

// GetDirections builds the external maps hand-off URL for a donor.
// origin=current uses the session's user location; origin=deferred leaves
// origin selection to the external surface.
func (h *Handler) GetDirections(c *gin.Context) {
	req, ok := h.directionsRequest(c)
	if !ok {
		return
	}

	launchURL, err := directions.Build(req)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	httpkit.OK(c, gin.H{"url": launchURL})
}

// GetDirectionsQR renders the hand-off URL as a QR code PNG.
func (h *Handler) GetDirectionsQR(c *gin.Context) {
	req, ok := h.directionsRequest(c)
	if !ok {
		return
	}

	png, err := directions.QRPNG(req, 256)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// directionsRequest resolves the focused donor destination and the origin
// selection from the request. Origin resolution failure surfaces the
// location error taxonomy and builds no URL.
func (h *Handler) directionsRequest(c *gin.Context) (directions.Request, bool) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return directions.Request{}, false
	}

	sess := h.sessions.Session(id.Email())
	donor, ok := sess.Donor(c.Param("id"))
	if !ok {
		httpkit.Error(c, http.StatusNotFound, "donor not in pool", nil)
		return directions.Request{}, false
	}

	req := directions.Request{Destination: donor.Location, TravelMode: c.DefaultQuery("travelmode", "driving")}

	switch c.DefaultQuery("origin", "current") {
	case "current":
		origin, ok := sess.UserLocation()
		if !ok {
			h.handleError(c, domain.NewLocationError(domain.Unavailable, nil))
			return directions.Request{}, false
		}
		req.Origin = &origin
	case "deferred":
		// Origin selection happens on the external maps surface.
	default:
		httpkit.Error(c, http.StatusBadRequest, "origin must be 'current' or 'deferred'", nil)
		return directions.Request{}, false
	}

	return req, true
}

// handleError converts discovery errors into UI-visible responses. Nothing
// here is fatal; every failure maps to a retryable state.
func (h *Handler) handleError(c *gin.Context, err error) {
	var locErr *domain.LocationError
	if errors.As(err, &locErr) {
		httpkit.JSON(c, http.StatusConflict, gin.H{
			"error":  "location unavailable",
			"reason": string(locErr.Reason),
		})
		return
	}

	var geoErr *domain.GeocodeError
	if errors.As(err, &geoErr) {
		httpkit.Error(c, http.StatusBadGateway, "address lookup service unavailable", nil)
		return
	}

	var repoErr *domain.RepositoryError
	if errors.As(err, &repoErr) {
		httpkit.Error(c, http.StatusBadGateway, "unable to load donors", gin.H{"retryable": true})
		return
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		httpkit.HandleError(c, appErr)
		return
	}

	httpkit.Error(c, http.StatusInternalServerError, "unexpected error", nil)
}
