package domain

// Zoom levels used by the camera reducer.
const (
	ZoomDefault = 6
	ZoomUser    = 13
	ZoomFocused = 15
)

// GeocodeResult is a transient forward-geocode hit, consumed to update
// the view's user location and then discarded.
type GeocodeResult struct {
	DisplayName string     `json:"displayName"`
	Location    Coordinate `json:"location"`
}

// ViewState is the discovery map's interaction state. It is owned by the
// tracker and mutated only by user interaction or completed async work.
type ViewState struct {
	SelectedBloodType string          `json:"selectedBloodType"`
	FocusedDonorID    string          `json:"focusedDonorId,omitempty"`
	FocusedDonor      *DonorRecord    `json:"-"`
	UserLocation      *Coordinate     `json:"userLocation,omitempty"`
	SearchQuery       string          `json:"searchQuery,omitempty"`
	SearchResults     []GeocodeResult `json:"searchResults,omitempty"`
}

// Camera is the map viewport: a center and a zoom level.
type Camera struct {
	Center Coordinate `json:"center"`
	Zoom   int        `json:"zoom"`
}

// ComputeCamera derives the camera from the view state. A single reducer
// replaces per-trigger camera mutations so recenters cannot race: a focused
// donor wins over the user location, which wins over the default viewport.
func ComputeCamera(vs ViewState) Camera {
	if vs.FocusedDonor != nil {
		return Camera{Center: vs.FocusedDonor.Location, Zoom: ZoomFocused}
	}
	if vs.UserLocation != nil {
		return Camera{Center: *vs.UserLocation, Zoom: ZoomUser}
	}
	return Camera{Center: Coordinate{}, Zoom: ZoomDefault}
}

// Marker is one renderable map pin. The label is the donor's blood type;
// the user's own pin carries no label and Focused styling distinguishes
// the selected donor from the rest.
type Marker struct {
	DonorID  string     `json:"donorId,omitempty"`
	Label    string     `json:"label,omitempty"`
	Location Coordinate `json:"location"`
	Focused  bool       `json:"focused,omitempty"`
	IsUser   bool       `json:"isUser,omitempty"`
}

// Markers builds the marker set for the post-filter pool plus the user pin.
func Markers(pool DonorPool, vs ViewState) []Marker {
	markers := make([]Marker, 0, len(pool)+1)
	if vs.UserLocation != nil {
		markers = append(markers, Marker{Location: *vs.UserLocation, IsUser: true})
	}
	for _, d := range pool {
		markers = append(markers, Marker{
			DonorID:  d.ID,
			Label:    string(d.BloodType),
			Location: d.Location,
			Focused:  d.ID == vs.FocusedDonorID,
		})
	}
	return markers
}
