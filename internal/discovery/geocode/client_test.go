package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"bloodconnect_backend/internal/discovery/domain"
	"bloodconnect_backend/platform/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(Config{BaseURL: srv.URL, UserAgent: "test-agent"}, logger.New("test"))
	return c, srv
}

func TestSearchParsesNominatimResults(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "dhaka" {
			t.Fatalf("unexpected query %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Fatalf("unexpected user agent %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"display_name": "Dhaka, Bangladesh", "lat": "23.8103", "lon": "90.4125"},
			{"display_name": "Dhaka Division", "lat": "23.9", "lon": "90.2"}
		]`))
	})

	results, err := c.Search(context.Background(), "dhaka")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].DisplayName != "Dhaka, Bangladesh" {
		t.Fatalf("unexpected display name %q", results[0].DisplayName)
	}
	if results[0].Location.Lat != 23.8103 || results[0].Location.Lng != 90.4125 {
		t.Fatalf("unexpected coordinate %+v", results[0].Location)
	}
}

func TestSearchBlankQueryShortCircuitsWithoutNetwork(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`[]`))
	})

	for _, q := range []string{"", "   ", "\t\n"} {
		results, err := c.Search(context.Background(), q)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", q, err)
		}
		if results == nil || len(results) != 0 {
			t.Fatalf("expected empty non-nil result set for %q, got %v", q, results)
		}
	}
	if hits.Load() != 0 {
		t.Fatalf("blank queries must not reach the network, got %d requests", hits.Load())
	}
}

func TestSearchSkipsResultsWithUnparseableCoordinates(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"display_name": "Broken", "lat": "not-a-number", "lon": "90.4"},
			{"display_name": "Fine", "lat": "23.8", "lon": "90.4"}
		]`))
	})

	results, err := c.Search(context.Background(), "somewhere")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].DisplayName != "Fine" {
		t.Fatalf("expected only the parseable result, got %+v", results)
	}
}

func TestSearchUpstreamFailureSurfacesGeocodeError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Search(context.Background(), "dhaka")
	var geoErr *domain.GeocodeError
	if !errors.As(err, &geoErr) {
		t.Fatalf("expected *domain.GeocodeError, got %T: %v", err, err)
	}
}

func TestReverseReturnsDisplayName(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"display_name": "Mirpur, Dhaka", "lat": "23.8", "lon": "90.35"}`))
	})

	name := c.Reverse(context.Background(), domain.Coordinate{Lat: 23.8, Lng: 90.35})
	if name != "Mirpur, Dhaka" {
		t.Fatalf("unexpected display name %q", name)
	}
}

func TestReverseDegradesToEmptyStringOnFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if name := c.Reverse(context.Background(), domain.Coordinate{Lat: 23.8, Lng: 90.35}); name != "" {
		t.Fatalf("expected empty string on upstream failure, got %q", name)
	}
}
