package domain

import "testing"

func makePool() DonorPool {
	return DonorPool{
		{ID: "1", Name: "Rafiq", Email: "rafiq@example.com", BloodType: APositive, Location: Coordinate{Lat: 23.81, Lng: 90.41}},
		{ID: "2", Name: "Sadia", Email: "sadia@example.com", BloodType: ONegative, Location: Coordinate{Lat: 23.75, Lng: 90.39}},
		{ID: "3", Name: "Tanvir", Email: "tanvir@example.com", BloodType: APositive, Location: Coordinate{Lat: 22.36, Lng: 91.78}},
		{ID: "4", Name: "Nusrat", Email: "nusrat@example.com", BloodType: BPositive, Location: Coordinate{Lat: 24.37, Lng: 88.60}},
	}
}

func TestAggregateCountsEveryGroupAndZeroFillsAbsentOnes(t *testing.T) {
	counts := Aggregate(makePool())

	if len(counts) != len(BloodTypes) {
		t.Fatalf("expected %d keys, got %d", len(BloodTypes), len(counts))
	}
	if counts[APositive] != 2 {
		t.Fatalf("expected 2 A+ donors, got %d", counts[APositive])
	}
	if counts[ONegative] != 1 {
		t.Fatalf("expected 1 O- donor, got %d", counts[ONegative])
	}
	for _, bt := range []BloodType{ANegative, BNegative, ABPositive, ABNegative, OPositive} {
		if n, ok := counts[bt]; !ok || n != 0 {
			t.Fatalf("expected %s present with zero count, got %d (present=%v)", bt, n, ok)
		}
	}
}

func TestAggregateEmptyPoolStillHasAllKeys(t *testing.T) {
	counts := Aggregate(nil)

	if len(counts) != len(BloodTypes) {
		t.Fatalf("expected %d keys on empty pool, got %d", len(BloodTypes), len(counts))
	}
	for bt, n := range counts {
		if n != 0 {
			t.Fatalf("expected zero count for %s, got %d", bt, n)
		}
	}
}

func TestAggregateTotalEqualsPoolSize(t *testing.T) {
	pool := makePool()
	counts := Aggregate(pool)

	total := 0
	for _, n := range counts {
		total += n
	}
	if total != len(pool) {
		t.Fatalf("counts sum to %d, pool has %d records", total, len(pool))
	}
}

func TestFilterAllReturnsPoolUnchanged(t *testing.T) {
	pool := makePool()
	filtered := Filter(pool, FilterAll)

	if len(filtered) != len(pool) {
		t.Fatalf("expected %d donors, got %d", len(pool), len(filtered))
	}
	for i := range pool {
		if filtered[i].ID != pool[i].ID {
			t.Fatalf("order changed at index %d: %s != %s", i, filtered[i].ID, pool[i].ID)
		}
	}
}

func TestFilterKeepsOnlyMatchingTypeInOriginalOrder(t *testing.T) {
	filtered := Filter(makePool(), "A+")

	if len(filtered) != 2 {
		t.Fatalf("expected 2 A+ donors, got %d", len(filtered))
	}
	if filtered[0].ID != "1" || filtered[1].ID != "3" {
		t.Fatalf("expected stable order [1 3], got [%s %s]", filtered[0].ID, filtered[1].ID)
	}
}

func TestFilterWithNoMatchesReturnsEmptyNotNilSemantics(t *testing.T) {
	filtered := Filter(makePool(), "AB-")

	if len(filtered) != 0 {
		t.Fatalf("expected no AB- donors, got %d", len(filtered))
	}
}

func TestParseFilterAcceptsAllAndEveryGroup(t *testing.T) {
	if sel, err := ParseFilter("all"); err != nil || sel != FilterAll {
		t.Fatalf("expected all to parse, got %q err=%v", sel, err)
	}
	for _, bt := range BloodTypes {
		sel, err := ParseFilter(string(bt))
		if err != nil {
			t.Fatalf("expected %s to parse: %v", bt, err)
		}
		if sel != string(bt) {
			t.Fatalf("expected %s, got %q", bt, sel)
		}
	}
}

func TestParseFilterRejectsUnknownSelection(t *testing.T) {
	if _, err := ParseFilter("C+"); err == nil {
		t.Fatal("expected error for unknown blood type")
	}
	if _, err := ParseFilter(""); err == nil {
		t.Fatal("expected error for empty selection")
	}
}
