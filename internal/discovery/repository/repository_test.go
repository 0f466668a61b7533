package repository

import (
	"strings"
	"testing"

	"bloodconnect_backend/internal/discovery/domain"
)

func TestFetchAllQueryExcludesIncompleteAndOwnProfiles(t *testing.T) {
	query := strings.ToLower(fetchAllQuery)

	requiredFragments := []string{
		"blood_type is not null",
		"lat is not null",
		"lng is not null",
		"email <> $1",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected donor pool query fragment %q to be present", fragment)
		}
	}
}

func TestFetchAllQueryOrdersByRegistrationTime(t *testing.T) {
	if !strings.Contains(strings.ToLower(fetchAllQuery), "order by created_at") {
		t.Fatal("donor pool query should order by registration time so repeated fetches are stable")
	}
}

func TestDonorFromRowMapsCompleteRow(t *testing.T) {
	address := "Mirpur, Dhaka"
	phone := "+8801712345678"

	record, ok := donorFromRow("d1", "Karim", "karim@example.com", "O-", 23.81, 90.41, &address, &phone)
	if !ok {
		t.Fatal("expected a complete row to map to a donor record")
	}
	if record.BloodType != domain.ONegative {
		t.Fatalf("blood type = %q, want O-", record.BloodType)
	}
	if record.Location.Lat != 23.81 || record.Location.Lng != 90.41 {
		t.Fatalf("location = %+v, want 23.81/90.41", record.Location)
	}
	if record.Address != address || record.Contact != phone {
		t.Fatalf("address/contact = %q/%q, want %q/%q", record.Address, record.Contact, address, phone)
	}
}

func TestDonorFromRowLeavesOptionalFieldsEmptyWhenNull(t *testing.T) {
	record, ok := donorFromRow("d1", "Karim", "karim@example.com", "A+", 23.81, 90.41, nil, nil)
	if !ok {
		t.Fatal("expected row with null address and phone to map")
	}
	if record.Address != "" || record.Contact != "" {
		t.Fatalf("address/contact = %q/%q, want empty", record.Address, record.Contact)
	}
}

func TestDonorFromRowSkipsUnrecognizedBloodGroup(t *testing.T) {
	if _, ok := donorFromRow("d1", "Karim", "karim@example.com", "C+", 23.81, 90.41, nil, nil); ok {
		t.Fatal("expected a row with an unknown blood group to be skipped")
	}
}

func TestDonorFromRowSkipsOutOfRangeCoordinate(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng float64
	}{
		{"latitude beyond 90", 91, 90.41},
		{"longitude beyond 180", 23.81, 181},
		{"latitude below -90", -90.5, 90.41},
	}

	for _, tc := range cases {
		if _, ok := donorFromRow("d1", "Karim", "karim@example.com", "B+", tc.lat, tc.lng, nil, nil); ok {
			t.Fatalf("%s: expected the row to be skipped", tc.name)
		}
	}
}
