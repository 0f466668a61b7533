// Package geocode wraps the Nominatim address search and reverse lookup
// endpoints used by donor discovery.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bloodconnect_backend/internal/discovery/domain"
	"bloodconnect_backend/platform/logger"
)

// Config carries the client settings.
type Config struct {
	// BaseURL is the Nominatim root, e.g. https://nominatim.openstreetmap.org.
	BaseURL string
	// UserAgent identifies this application per the Nominatim usage policy.
	UserAgent string
}

// Client performs forward and reverse geocoding against Nominatim.
// Single attempt, no retry; callers decide how failures surface.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
	log       *logger.Logger
}

// New creates a geocode client.
func New(cfg Config, log *logger.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: 5 * time.Second},
		log:       log,
	}
}

// nominatimPlace mirrors the relevant parts of the OSM payloads.
// Nominatim returns lat/lon as strings.
type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search forward-geocodes a free-text query. An empty or whitespace query
// short-circuits to an empty result set without touching the network.
// Transport and upstream failures surface as *domain.GeocodeError.
func (c *Client) Search(ctx context.Context, query string) ([]domain.GeocodeResult, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return []domain.GeocodeResult{}, nil
	}

	params := url.Values{}
	params.Add("q", trimmed)
	params.Add("format", "json")
	params.Add("limit", "5")

	var places []nominatimPlace
	if err := c.get(ctx, "/search", params, &places); err != nil {
		c.log.UpstreamError("nominatim", "search", err)
		return nil, &domain.GeocodeError{Err: err}
	}

	results := make([]domain.GeocodeResult, 0, len(places))
	for _, place := range places {
		coord, err := domain.ParseCoordinate(place.Lat, place.Lon)
		if err != nil {
			continue
		}
		results = append(results, domain.GeocodeResult{
			DisplayName: place.DisplayName,
			Location:    coord,
		})
	}

	return results, nil
}

// Reverse resolves a coordinate to a display name. Address display is
// non-critical, so any failure degrades to an empty string instead of
// an error.
func (c *Client) Reverse(ctx context.Context, coord domain.Coordinate) string {
	params := url.Values{}
	params.Add("format", "json")
	params.Add("lat", fmt.Sprintf("%f", coord.Lat))
	params.Add("lon", fmt.Sprintf("%f", coord.Lng))

	var place nominatimPlace
	if err := c.get(ctx, "/reverse", params, &place); err != nil {
		c.log.UpstreamError("nominatim", "reverse", err)
		return ""
	}

	return place.DisplayName
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream api error: %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
