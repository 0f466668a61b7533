package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bloodconnect_backend/internal/discovery/domain"
	"bloodconnect_backend/internal/discovery/tracker"
	"bloodconnect_backend/platform/httpkit"
	"bloodconnect_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type stubFetcher struct {
	pool domain.DonorPool
	err  error
}

func (f *stubFetcher) FetchAll(_ context.Context, _ string) (domain.DonorPool, error) {
	return f.pool, f.err
}

type stubGeocoder struct {
	results []domain.GeocodeResult
	err     error
}

func (g *stubGeocoder) Search(_ context.Context, _ string) ([]domain.GeocodeResult, error) {
	return g.results, g.err
}

func (g *stubGeocoder) Reverse(_ context.Context, _ domain.Coordinate) string {
	return "Mirpur, Dhaka"
}

func stubPool() domain.DonorPool {
	return domain.DonorPool{
		{ID: "d1", Name: "Rafiq", Email: "rafiq@example.com", BloodType: domain.APositive, Location: domain.Coordinate{Lat: 23.81, Lng: 90.41}},
	}
}

func newHandlerTest(fetcher *stubFetcher, geocoder *stubGeocoder) (*Handler, *tracker.Manager) {
	gin.SetMode(gin.TestMode)
	if fetcher == nil {
		fetcher = &stubFetcher{pool: stubPool()}
	}
	if geocoder == nil {
		geocoder = &stubGeocoder{}
	}
	sessions := tracker.NewManager(fetcher, geocoder, nil, logger.New("test"))
	return New(sessions, geocoder), sessions
}

func authedContext(t *testing.T, method, target string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	c.Set(httpkit.ContextUserIDKey, uuid.New())
	c.Set(httpkit.ContextEmailKey, "me@example.com")
	return c, w
}

func TestGetMapAutoLoadsPoolOnFirstMount(t *testing.T) {
	h, _ := newHandlerTest(nil, nil)

	c, w := authedContext(t, http.MethodGet, "/discovery/map", "")
	h.GetMap(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var snap tracker.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("response does not decode: %v", err)
	}
	if snap.State != tracker.StateReady {
		t.Fatalf("expected ready state after auto-load, got %s", snap.State)
	}
	if len(snap.Markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(snap.Markers))
	}
}

func TestGetMapPoolFailureMapsToRetryableBadGateway(t *testing.T) {
	fetcher := &stubFetcher{err: &domain.RepositoryError{Err: context.DeadlineExceeded}}
	h, _ := newHandlerTest(fetcher, nil)

	c, w := authedContext(t, http.MethodGet, "/discovery/map", "")
	h.GetMap(c)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "retryable") {
		t.Fatalf("expected retryable marker in body: %s", w.Body.String())
	}
}

func TestReportPositionRejectsMissingCoordinates(t *testing.T) {
	h, _ := newHandlerTest(nil, nil)

	c, w := authedContext(t, http.MethodPost, "/discovery/position", `{"lat": 23.8}`)
	h.ReportPosition(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing lng, got %d", w.Code)
	}
}

func TestReportPositionAcceptsZeroZero(t *testing.T) {
	h, _ := newHandlerTest(nil, nil)

	c, w := authedContext(t, http.MethodPost, "/discovery/position", `{"lat": 0, "lng": 0}`)
	h.ReportPosition(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for the 0,0 coordinate, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDirectionsRequiresKnownUserLocationForCurrentOrigin(t *testing.T) {
	h, sessions := newHandlerTest(nil, nil)
	sess := sessions.Session("me@example.com")
	if err := sess.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected refresh error: %v", err)
	}

	c, w := authedContext(t, http.MethodGet, "/discovery/donors/d1/directions", "")
	c.Params = gin.Params{{Key: "id", Value: "d1"}}
	h.GetDirections(c)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 location conflict, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), string(domain.Unavailable)) {
		t.Fatalf("expected unavailable reason in body: %s", w.Body.String())
	}
}

func TestDirectionsWithDeferredOriginOmitsOrigin(t *testing.T) {
	h, sessions := newHandlerTest(nil, nil)
	sess := sessions.Session("me@example.com")
	if err := sess.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected refresh error: %v", err)
	}

	c, w := authedContext(t, http.MethodGet, "/discovery/donors/d1/directions?origin=deferred", "")
	c.Params = gin.Params{{Key: "id", Value: "d1"}}
	h.GetDirections(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "origin=") {
		t.Fatalf("deferred origin must not appear in the URL: %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "www.google.com") {
		t.Fatalf("expected a Google Maps URL: %s", w.Body.String())
	}
}

func TestDirectionsUnknownDonorIs404AndDoesNotChangeFocus(t *testing.T) {
	h, sessions := newHandlerTest(nil, nil)
	sess := sessions.Session("me@example.com")
	if err := sess.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected refresh error: %v", err)
	}
	if _, err := sess.Focus("d1"); err != nil {
		t.Fatalf("unexpected focus error: %v", err)
	}

	c, w := authedContext(t, http.MethodGet, "/discovery/donors/nope/directions", "")
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	h.GetDirections(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if focused, ok := sess.FocusedDonor(); !ok || focused.ID != "d1" {
		t.Fatal("directions lookup must not mutate the focused donor")
	}
}

func TestUnauthenticatedRequestIsRejected(t *testing.T) {
	h, _ := newHandlerTest(nil, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/discovery/map", nil)
	h.GetMap(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
