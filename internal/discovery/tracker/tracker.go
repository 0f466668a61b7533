// Package tracker owns the per-user discovery map session: the donor
// pool snapshot, view state, camera, and the ordering guarantees around
// the asynchronous operations that feed them.
package tracker

import (
	"context"
	"fmt"
	"sync"

	"bloodconnect_backend/internal/discovery/domain"
	"bloodconnect_backend/internal/discovery/geocode"
	"bloodconnect_backend/platform/apperr"
	"bloodconnect_backend/platform/logger"
)

// State is the pool lifecycle of a tracker session.
type State string

const (
	// StateIdle means no pool has been requested yet.
	StateIdle State = "idle"
	// StateLoading means a pool fetch is in flight. The last-known marker
	// set keeps rendering; partial results are never exposed.
	StateLoading State = "loading"
	// StateReady means the latest fetch has settled (with a pool or an error).
	StateReady State = "ready"
)

// PoolFetcher loads the donor pool snapshot.
type PoolFetcher interface {
	FetchAll(ctx context.Context, excludeEmail string) (domain.DonorPool, error)
}

// Snapshot is a consistent read of the session for rendering.
type Snapshot struct {
	State     State                  `json:"state"`
	LoadError string                 `json:"loadError,omitempty"`
	View      domain.ViewState       `json:"view"`
	Counts    domain.BloodTypeCounts `json:"counts"`
	Markers   []domain.Marker        `json:"markers"`
	Camera    domain.Camera          `json:"camera"`
	Focused   *domain.DonorRecord    `json:"focused,omitempty"`
}

// Tracker is a single user's discovery session. All mutation happens under
// one mutex; the async operations (pool fetch, position acquisition,
// geocode search) run their I/O outside it and re-validate a generation
// counter before applying results, so the most recently issued request
// always wins regardless of completion order.
type Tracker struct {
	ownerEmail string
	fetcher    PoolFetcher
	geocoder   geocode.Geocoder
	positions  PositionProvider
	log        *logger.Logger

	mu      sync.Mutex
	state   State
	loadErr error
	pool    domain.DonorPool
	counts  domain.BloodTypeCounts
	view    domain.ViewState
	camera  domain.Camera

	fetchGen  uint64
	posGen    uint64
	searchGen uint64
}

// New creates an idle tracker session for the given user. The position
// provider may be nil when no device capability is wired; position
// requests then fail with LocationError(Unavailable) and the user falls
// back to manual search.
func New(ownerEmail string, fetcher PoolFetcher, geocoder geocode.Geocoder, positions PositionProvider, log *logger.Logger) *Tracker {
	return &Tracker{
		ownerEmail: ownerEmail,
		fetcher:    fetcher,
		geocoder:   geocoder,
		positions:  positions,
		log:        log,
		state:      StateIdle,
		counts:     domain.Aggregate(nil),
		view:       domain.ViewState{SelectedBloodType: domain.FilterAll},
		camera:     domain.ComputeCamera(domain.ViewState{}),
	}
}

// Refresh replaces the donor pool wholesale. A fetch that was superseded
// by a newer one discards its result on completion, success or failure.
func (t *Tracker) Refresh(ctx context.Context) error {
	t.mu.Lock()
	t.fetchGen++
	gen := t.fetchGen
	t.state = StateLoading
	t.mu.Unlock()

	pool, err := t.fetcher.FetchAll(ctx, t.ownerEmail)

	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.fetchGen {
		// A newer fetch was issued; this result is stale either way.
		return nil
	}

	t.state = StateReady
	if err != nil {
		t.loadErr = err
		t.log.Error("donor pool fetch failed", "owner", t.ownerEmail, "error", err)
		return err
	}

	t.loadErr = nil
	t.pool = pool
	t.counts = domain.Aggregate(pool)

	// Drop a focus that no longer resolves against the new snapshot.
	if t.view.FocusedDonorID != "" {
		if _, ok := findDonor(pool, t.view.FocusedDonorID); !ok {
			t.view.FocusedDonorID = ""
			t.view.FocusedDonor = nil
		}
	}

	return nil
}

// SetFilter selects a blood type (or "all") for the marker set.
// Filtering never moves the camera.
func (t *Tracker) SetFilter(selection string) error {
	parsed, err := domain.ParseFilter(selection)
	if err != nil {
		return &apperr.Error{Kind: apperr.KindValidation, Message: err.Error(), Op: "tracker.SetFilter"}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.view.SelectedBloodType = parsed
	return nil
}

// ApplyPosition applies a client-reported device position.
func (t *Tracker) ApplyPosition(coord domain.Coordinate) error {
	if !coord.Valid() {
		return &apperr.Error{Kind: apperr.KindValidation, Message: "coordinate out of range", Op: "tracker.ApplyPosition"}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.setUserLocation(coord)
	return nil
}

// RequestPosition acquires the position from the wired provider. On any
// LocationError the previous user location is left untouched. A result
// arriving after a newer request was issued is discarded.
func (t *Tracker) RequestPosition(ctx context.Context) (domain.Coordinate, error) {
	if t.positions == nil {
		return domain.Coordinate{}, domain.NewLocationError(domain.Unavailable, nil)
	}

	t.mu.Lock()
	t.posGen++
	gen := t.posGen
	t.mu.Unlock()

	coord, err := t.positions.CurrentPosition(ctx)
	if err != nil {
		return domain.Coordinate{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.posGen {
		return coord, nil
	}
	t.setUserLocation(coord)
	return coord, nil
}

// Search forward-geocodes a free-text query and stores the results for
// selection. Stale results never overwrite a newer query's.
func (t *Tracker) Search(ctx context.Context, query string) ([]domain.GeocodeResult, error) {
	t.mu.Lock()
	t.searchGen++
	gen := t.searchGen
	t.view.SearchQuery = query
	// The previous query's results must not linger next to the new
	// query while the geocode call is in flight or after it fails.
	t.view.SearchResults = nil
	t.mu.Unlock()

	results, err := t.geocoder.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.searchGen {
		return results, nil
	}
	t.view.SearchResults = results
	return results, nil
}

// SelectSearchResult consumes one of the stored search results as the
// user's location; the transient result list is then discarded.
func (t *Tracker) SelectSearchResult(index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if index < 0 || index >= len(t.view.SearchResults) {
		return &apperr.Error{Kind: apperr.KindBadRequest, Message: "search result index out of range", Op: "tracker.SelectSearchResult"}
	}

	t.setUserLocation(t.view.SearchResults[index].Location)
	t.view.SearchResults = nil
	t.view.SearchQuery = ""
	return nil
}

// Focus selects a donor, revealing its contact details and recentering
// the camera on it.
func (t *Tracker) Focus(donorID string) (domain.DonorRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	donor, ok := findDonor(t.pool, donorID)
	if !ok {
		return domain.DonorRecord{}, &apperr.Error{
			Kind:    apperr.KindNotFound,
			Message: fmt.Sprintf("donor %s not in pool", donorID),
			Op:      "tracker.Focus",
		}
	}

	t.view.FocusedDonorID = donor.ID
	t.view.FocusedDonor = &donor
	t.camera = domain.ComputeCamera(t.view)
	return donor, nil
}

// Blur closes the donor detail. The camera stays where it was; only the
// focus state is cleared.
func (t *Tracker) Blur() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.view.FocusedDonorID = ""
	t.view.FocusedDonor = nil
}

// Donor looks up a pool record without changing focus.
func (t *Tracker) Donor(donorID string) (domain.DonorRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return findDonor(t.pool, donorID)
}

// FocusedDonor returns the currently focused donor, if any.
func (t *Tracker) FocusedDonor() (domain.DonorRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.view.FocusedDonor == nil {
		return domain.DonorRecord{}, false
	}
	return *t.view.FocusedDonor, true
}

// UserLocation returns the current user location, if one is set.
func (t *Tracker) UserLocation() (domain.Coordinate, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.view.UserLocation == nil {
		return domain.Coordinate{}, false
	}
	return *t.view.UserLocation, true
}

// Snapshot renders a consistent view of the session. While a fetch is in
// flight the last settled pool backs the marker set.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	visible := domain.Filter(t.pool, t.view.SelectedBloodType)

	snap := Snapshot{
		State:   t.state,
		View:    t.view,
		Counts:  t.counts,
		Markers: domain.Markers(visible, t.view),
		Camera:  t.camera,
	}
	if t.loadErr != nil {
		snap.LoadError = t.loadErr.Error()
	}
	if t.view.FocusedDonor != nil {
		focused := *t.view.FocusedDonor
		snap.Focused = &focused
	}
	return snap
}

// setUserLocation applies a location change and recenters through the
// camera reducer. Caller holds the mutex.
func (t *Tracker) setUserLocation(coord domain.Coordinate) {
	t.view.UserLocation = &coord
	t.camera = domain.ComputeCamera(t.view)
}

func findDonor(pool domain.DonorPool, donorID string) (domain.DonorRecord, bool) {
	for _, d := range pool {
		if d.ID == donorID {
			return d, true
		}
	}
	return domain.DonorRecord{}, false
}
