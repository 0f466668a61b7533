package domain

import "testing"

func TestComputeCameraDefaultsWhenNothingIsKnown(t *testing.T) {
	cam := ComputeCamera(ViewState{})

	if cam.Zoom != ZoomDefault {
		t.Fatalf("expected default zoom %d, got %d", ZoomDefault, cam.Zoom)
	}
	if cam.Center != (Coordinate{}) {
		t.Fatalf("expected default center, got %+v", cam.Center)
	}
}

func TestComputeCameraCentersOnUserLocation(t *testing.T) {
	loc := Coordinate{Lat: 23.81, Lng: 90.41}
	cam := ComputeCamera(ViewState{UserLocation: &loc})

	if cam.Zoom != ZoomUser {
		t.Fatalf("expected user zoom %d, got %d", ZoomUser, cam.Zoom)
	}
	if cam.Center != loc {
		t.Fatalf("expected center %+v, got %+v", loc, cam.Center)
	}
}

func TestComputeCameraFocusedDonorWinsOverUserLocation(t *testing.T) {
	loc := Coordinate{Lat: 23.81, Lng: 90.41}
	donor := &DonorRecord{ID: "d1", BloodType: OPositive, Location: Coordinate{Lat: 22.36, Lng: 91.78}}
	cam := ComputeCamera(ViewState{UserLocation: &loc, FocusedDonor: donor, FocusedDonorID: donor.ID})

	if cam.Zoom != ZoomFocused {
		t.Fatalf("expected focused zoom %d, got %d", ZoomFocused, cam.Zoom)
	}
	if cam.Center != donor.Location {
		t.Fatalf("expected center on donor %+v, got %+v", donor.Location, cam.Center)
	}
}

func TestMarkersIncludeUserPinAndFocusFlag(t *testing.T) {
	pool := makePool()
	loc := Coordinate{Lat: 23.80, Lng: 90.40}
	vs := ViewState{UserLocation: &loc, FocusedDonorID: "2"}

	markers := Markers(pool, vs)

	if len(markers) != len(pool)+1 {
		t.Fatalf("expected %d markers, got %d", len(pool)+1, len(markers))
	}
	if !markers[0].IsUser || markers[0].Label != "" {
		t.Fatalf("expected first marker to be the unlabeled user pin, got %+v", markers[0])
	}

	focused := 0
	for _, m := range markers[1:] {
		if m.Label == "" {
			t.Fatalf("donor marker %s missing blood type label", m.DonorID)
		}
		if m.Focused {
			focused++
			if m.DonorID != "2" {
				t.Fatalf("wrong donor focused: %s", m.DonorID)
			}
		}
	}
	if focused != 1 {
		t.Fatalf("expected exactly one focused marker, got %d", focused)
	}
}

func TestMarkersWithoutUserLocationOmitUserPin(t *testing.T) {
	markers := Markers(makePool(), ViewState{})
	for _, m := range markers {
		if m.IsUser {
			t.Fatal("unexpected user pin without a known location")
		}
	}
}
