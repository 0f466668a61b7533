package domain

import "testing"

func TestNewCoordinateRejectsOutOfRangeValues(t *testing.T) {
	cases := []struct {
		lat, lng float64
	}{
		{91, 0},
		{-91, 0},
		{0, 181},
		{0, -181},
	}
	for _, tc := range cases {
		if _, err := NewCoordinate(tc.lat, tc.lng); err == nil {
			t.Fatalf("expected error for lat=%v lng=%v", tc.lat, tc.lng)
		}
	}
}

func TestNewCoordinateAcceptsBoundaryValues(t *testing.T) {
	for _, tc := range []struct{ lat, lng float64 }{{90, 180}, {-90, -180}, {0, 0}} {
		c, err := NewCoordinate(tc.lat, tc.lng)
		if err != nil {
			t.Fatalf("unexpected error for lat=%v lng=%v: %v", tc.lat, tc.lng, err)
		}
		if !c.Valid() {
			t.Fatalf("expected coordinate %v to be valid", c)
		}
	}
}

func TestParseCoordinateParsesNominatimStrings(t *testing.T) {
	c, err := ParseCoordinate("23.8103", "90.4125")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Lat != 23.8103 || c.Lng != 90.4125 {
		t.Fatalf("unexpected coordinate: %+v", c)
	}
}

func TestParseCoordinateRejectsGarbage(t *testing.T) {
	if _, err := ParseCoordinate("north", "90.4"); err == nil {
		t.Fatal("expected error for non-numeric latitude")
	}
	if _, err := ParseCoordinate("23.8", ""); err == nil {
		t.Fatal("expected error for empty longitude")
	}
	if _, err := ParseCoordinate("123.4", "90.4"); err == nil {
		t.Fatal("expected error for out-of-range latitude")
	}
}
