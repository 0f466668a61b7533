package tracker

import (
	"context"
	"errors"
	"time"

	"bloodconnect_backend/internal/discovery/domain"
)

// PositionProvider resolves the user's current position. Implementations
// wrap whatever capability is available (in the deployed system the
// browser reports the device position over HTTP; tests use fakes).
// Failures are surfaced as *domain.LocationError.
type PositionProvider interface {
	CurrentPosition(ctx context.Context) (domain.Coordinate, error)
}

// DefaultPositionTimeout bounds a position acquisition.
const DefaultPositionTimeout = 8 * time.Second

// BoundedProvider wraps a provider with a timeout, mapping a deadline
// expiry to LocationError(Timeout).
type BoundedProvider struct {
	inner   PositionProvider
	timeout time.Duration
}

// NewBoundedProvider wraps a provider; a non-positive timeout falls back
// to DefaultPositionTimeout.
func NewBoundedProvider(inner PositionProvider, timeout time.Duration) *BoundedProvider {
	if timeout <= 0 {
		timeout = DefaultPositionTimeout
	}
	return &BoundedProvider{inner: inner, timeout: timeout}
}

// CurrentPosition resolves the position within the bounded window.
func (p *BoundedProvider) CurrentPosition(ctx context.Context) (domain.Coordinate, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	coord, err := p.inner.CurrentPosition(ctx)
	if err == nil {
		return coord, nil
	}

	var locErr *domain.LocationError
	if errors.As(err, &locErr) {
		return domain.Coordinate{}, err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.Coordinate{}, domain.NewLocationError(domain.Timeout, err)
	}
	return domain.Coordinate{}, domain.NewLocationError(domain.Unavailable, err)
}

var _ PositionProvider = (*BoundedProvider)(nil)
