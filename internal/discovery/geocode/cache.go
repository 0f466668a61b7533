package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bloodconnect_backend/internal/discovery/domain"
	"bloodconnect_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Geocoder is the lookup surface the tracker consumes; satisfied by
// Client and by CachedClient.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]domain.GeocodeResult, error)
	Reverse(ctx context.Context, coord domain.Coordinate) string
}

// CachedClient fronts a Geocoder with a Redis cache. Nominatim's usage
// policy caps request rates, so repeated searches for the same query and
// reverse lookups for the same coordinate are served from cache within
// the TTL. Cache failures are silent: a broken Redis degrades to
// pass-through, never to a user-facing error.
type CachedClient struct {
	inner Geocoder
	rdb   *redis.Client
	ttl   time.Duration
	log   *logger.Logger
}

// NewCached wraps a geocoder with a Redis cache.
func NewCached(inner Geocoder, rdb *redis.Client, ttl time.Duration, log *logger.Logger) *CachedClient {
	return &CachedClient{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

// Search serves forward geocodes from cache when possible. Only
// successful lookups are cached; errors always pass through.
func (c *CachedClient) Search(ctx context.Context, query string) ([]domain.GeocodeResult, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return []domain.GeocodeResult{}, nil
	}

	key := "geocode:search:" + strings.ToLower(trimmed)
	if raw, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var cached []domain.GeocodeResult
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
	}

	results, err := c.inner.Search(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(results); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Warn("geocode cache write failed", "error", err)
		}
	}

	return results, nil
}

// Reverse serves reverse lookups from cache when possible. Empty results
// are not cached so transient upstream failures can recover.
func (c *CachedClient) Reverse(ctx context.Context, coord domain.Coordinate) string {
	key := fmt.Sprintf("geocode:reverse:%.5f:%.5f", coord.Lat, coord.Lng)
	if name, err := c.rdb.Get(ctx, key).Result(); err == nil && name != "" {
		return name
	}

	name := c.inner.Reverse(ctx, coord)
	if name != "" {
		if err := c.rdb.Set(ctx, key, name, c.ttl).Err(); err != nil {
			c.log.Warn("geocode cache write failed", "error", err)
		}
	}

	return name
}

var (
	_ Geocoder = (*Client)(nil)
	_ Geocoder = (*CachedClient)(nil)
)
