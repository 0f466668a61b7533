package tracker

import (
	"sync"

	"bloodconnect_backend/internal/discovery/geocode"
	"bloodconnect_backend/platform/logger"
)

// Manager hands out one tracker session per user. Sessions live for the
// process lifetime; the pool inside each is rebuilt on every refresh, so
// nothing here persists across restarts.
type Manager struct {
	fetcher   PoolFetcher
	geocoder  geocode.Geocoder
	positions PositionProvider
	log       *logger.Logger

	mu       sync.Mutex
	sessions map[string]*Tracker
}

// NewManager creates a session manager.
func NewManager(fetcher PoolFetcher, geocoder geocode.Geocoder, positions PositionProvider, log *logger.Logger) *Manager {
	return &Manager{
		fetcher:   fetcher,
		geocoder:  geocoder,
		positions: positions,
		log:       log,
		sessions:  make(map[string]*Tracker),
	}
}

// Session returns the tracker for the given user, creating it on first use.
func (m *Manager) Session(ownerEmail string) *Tracker {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.sessions[ownerEmail]; ok {
		return t
	}
	t := New(ownerEmail, m.fetcher, m.geocoder, m.positions, m.log)
	m.sessions[ownerEmail] = t
	return t
}

// Drop discards a user's session, typically on logout.
func (m *Manager) Drop(ownerEmail string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, ownerEmail)
}
