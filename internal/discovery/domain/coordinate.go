// Package domain holds the donor discovery domain model: coordinates,
// blood types, the donor pool and its aggregations, view state and the
// camera reducer.
package domain

import (
	"fmt"
	"strconv"
)

// Coordinate is a latitude/longitude pair locating a user or donor.
// It is immutable once attached to an entity.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate lies within WGS84 bounds.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// NewCoordinate validates and constructs a Coordinate.
func NewCoordinate(lat, lng float64) (Coordinate, error) {
	c := Coordinate{Lat: lat, Lng: lng}
	if !c.Valid() {
		return Coordinate{}, fmt.Errorf("coordinate out of range: lat=%v lng=%v", lat, lng)
	}
	return c, nil
}

// ParseCoordinate builds a Coordinate from string lat/lon values, the
// form the Nominatim API returns them in.
func ParseCoordinate(lat, lng string) (Coordinate, error) {
	latF, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid latitude %q: %w", lat, err)
	}
	lngF, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid longitude %q: %w", lng, err)
	}
	return NewCoordinate(latF, lngF)
}
