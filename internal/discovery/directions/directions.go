// Package directions builds external map hand-off requests. Nothing here
// performs routing; the constructed URL is opened by the client in a new
// browsing context and no response is consumed.
package directions

import (
	"fmt"
	"net/url"

	"bloodconnect_backend/internal/discovery/domain"

	qrcode "github.com/skip2/go-qrcode"
)

const googleMapsDirBase = "https://www.google.com/maps/dir/"

// Request is a validated directions hand-off. Origin may be nil, in which
// case origin selection is deferred to the external maps surface.
type Request struct {
	Origin      *domain.Coordinate
	Destination domain.Coordinate
	TravelMode  string
}

// Build constructs the Google Maps directions URL in the
// dir/?api=1&origin=...&destination=...&travelmode=... query form.
func Build(req Request) (string, error) {
	if !req.Destination.Valid() {
		return "", fmt.Errorf("invalid destination coordinate")
	}
	if req.Origin != nil && !req.Origin.Valid() {
		return "", fmt.Errorf("invalid origin coordinate")
	}

	mode := req.TravelMode
	if mode == "" {
		mode = "driving"
	}

	params := url.Values{}
	params.Set("api", "1")
	if req.Origin != nil {
		params.Set("origin", formatCoord(*req.Origin))
	}
	params.Set("destination", formatCoord(req.Destination))
	params.Set("travelmode", mode)

	return googleMapsDirBase + "?" + params.Encode(), nil
}

// QRPNG renders the directions URL as a QR code PNG so a desktop user can
// hand the route to a phone.
func QRPNG(req Request, size int) ([]byte, error) {
	launchURL, err := Build(req)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(launchURL, qrcode.Medium, size)
}

func formatCoord(c domain.Coordinate) string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lng)
}
