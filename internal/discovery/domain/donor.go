package domain

// DonorRecord is a donor-eligible user as seen by the discovery map.
// Records are read-only here; profile editing owns their lifecycle.
type DonorRecord struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	BloodType BloodType  `json:"bloodType"`
	Location  Coordinate `json:"location"`
	Address   string     `json:"address,omitempty"`
	Contact   string     `json:"contact,omitempty"`
}

// DonorPool is the ordered snapshot of mappable donors. Every record in a
// pool carries a blood type and a valid coordinate; the repository filters
// out anything else before the pool is built.
type DonorPool []DonorRecord

// BloodTypeCounts maps each of the eight groups to the number of donors
// in the pool carrying it. All eight keys are always present.
type BloodTypeCounts map[BloodType]int

// Aggregate derives per-blood-type donor counts from the pool.
// The result always contains all eight keys, zero-filled when absent,
// and is recomputed deterministically from every pool snapshot.
func Aggregate(pool DonorPool) BloodTypeCounts {
	counts := make(BloodTypeCounts, len(BloodTypes))
	for _, bt := range BloodTypes {
		counts[bt] = 0
	}
	for _, d := range pool {
		if _, ok := counts[d.BloodType]; ok {
			counts[d.BloodType]++
		}
	}
	return counts
}

// Filter returns the stable-ordered subsequence of the pool matching the
// selection. FilterAll returns the pool unchanged. No geographic radius
// is applied: every donor with a coordinate stays visible regardless of
// distance, and only the camera centers on the user.
func Filter(pool DonorPool, selection string) DonorPool {
	if selection == FilterAll {
		return pool
	}
	filtered := make(DonorPool, 0, len(pool))
	for _, d := range pool {
		if string(d.BloodType) == selection {
			filtered = append(filtered, d)
		}
	}
	return filtered
}
