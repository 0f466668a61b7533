package geocode

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"bloodconnect_backend/internal/discovery/domain"
	"bloodconnect_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingGeocoder struct {
	searches atomic.Int32
	reverses atomic.Int32
	results  []domain.GeocodeResult
	err      error
	name     string
}

func (g *countingGeocoder) Search(_ context.Context, _ string) ([]domain.GeocodeResult, error) {
	g.searches.Add(1)
	return g.results, g.err
}

func (g *countingGeocoder) Reverse(_ context.Context, _ domain.Coordinate) string {
	g.reverses.Add(1)
	return g.name
}

func newCachedTestClient(t *testing.T, inner Geocoder) (*CachedClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCached(inner, rdb, time.Minute, logger.New("test")), mr
}

func TestCachedSearchHitsUpstreamOncePerQuery(t *testing.T) {
	inner := &countingGeocoder{results: []domain.GeocodeResult{
		{DisplayName: "Dhaka", Location: domain.Coordinate{Lat: 23.81, Lng: 90.41}},
	}}
	c, _ := newCachedTestClient(t, inner)

	for i := 0; i < 3; i++ {
		results, err := c.Search(context.Background(), "Dhaka")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 || results[0].DisplayName != "Dhaka" {
			t.Fatalf("unexpected results on pass %d: %+v", i, results)
		}
	}

	if got := inner.searches.Load(); got != 1 {
		t.Fatalf("expected 1 upstream search, got %d", got)
	}
}

func TestCachedSearchKeyIsCaseInsensitive(t *testing.T) {
	inner := &countingGeocoder{results: []domain.GeocodeResult{
		{DisplayName: "Dhaka", Location: domain.Coordinate{Lat: 23.81, Lng: 90.41}},
	}}
	c, _ := newCachedTestClient(t, inner)

	if _, err := c.Search(context.Background(), "Dhaka"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Search(context.Background(), "dhaka"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := inner.searches.Load(); got != 1 {
		t.Fatalf("expected case-folded cache hit, got %d upstream searches", got)
	}
}

func TestCachedSearchErrorsAreNotCached(t *testing.T) {
	inner := &countingGeocoder{err: &domain.GeocodeError{}}
	c, _ := newCachedTestClient(t, inner)

	for i := 0; i < 2; i++ {
		if _, err := c.Search(context.Background(), "dhaka"); err == nil {
			t.Fatal("expected upstream error to pass through")
		}
	}

	if got := inner.searches.Load(); got != 2 {
		t.Fatalf("errors must not be cached, got %d upstream searches", got)
	}
}

func TestCachedSearchExpiresWithTTL(t *testing.T) {
	inner := &countingGeocoder{results: []domain.GeocodeResult{
		{DisplayName: "Dhaka", Location: domain.Coordinate{Lat: 23.81, Lng: 90.41}},
	}}
	c, mr := newCachedTestClient(t, inner)

	if _, err := c.Search(context.Background(), "dhaka"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := c.Search(context.Background(), "dhaka"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := inner.searches.Load(); got != 2 {
		t.Fatalf("expected cache expiry to trigger a second upstream search, got %d", got)
	}
}

func TestCachedReverseCachesNonEmptyNamesOnly(t *testing.T) {
	inner := &countingGeocoder{name: ""}
	c, _ := newCachedTestClient(t, inner)
	coord := domain.Coordinate{Lat: 23.81, Lng: 90.41}

	// Empty results pass through every time so upstream can recover.
	for i := 0; i < 2; i++ {
		if name := c.Reverse(context.Background(), coord); name != "" {
			t.Fatalf("unexpected name %q", name)
		}
	}
	if got := inner.reverses.Load(); got != 2 {
		t.Fatalf("empty reverse results must not be cached, got %d upstream calls", got)
	}

	inner.name = "Mirpur, Dhaka"
	for i := 0; i < 3; i++ {
		if name := c.Reverse(context.Background(), coord); name != "Mirpur, Dhaka" {
			t.Fatalf("unexpected name %q", name)
		}
	}
	if got := inner.reverses.Load(); got != 3 {
		t.Fatalf("expected one more upstream call after a non-empty result, got %d total", got)
	}
}

func TestCachedSearchBlankQueryShortCircuits(t *testing.T) {
	inner := &countingGeocoder{}
	c, _ := newCachedTestClient(t, inner)

	results, err := c.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty results, got %+v", results)
	}
	if inner.searches.Load() != 0 {
		t.Fatal("blank query must not reach the inner geocoder")
	}
}
