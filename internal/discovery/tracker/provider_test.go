package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"bloodconnect_backend/internal/discovery/domain"
)

type blockingProvider struct{}

func (blockingProvider) CurrentPosition(ctx context.Context) (domain.Coordinate, error) {
	<-ctx.Done()
	return domain.Coordinate{}, ctx.Err()
}

type erringProvider struct{ err error }

func (p erringProvider) CurrentPosition(_ context.Context) (domain.Coordinate, error) {
	return domain.Coordinate{}, p.err
}

func TestBoundedProviderMapsDeadlineToTimeout(t *testing.T) {
	p := NewBoundedProvider(blockingProvider{}, 10*time.Millisecond)

	_, err := p.CurrentPosition(context.Background())
	var locErr *domain.LocationError
	if !errors.As(err, &locErr) || locErr.Reason != domain.Timeout {
		t.Fatalf("expected LocationError(timeout), got %v", err)
	}
}

func TestBoundedProviderPassesThroughLocationErrors(t *testing.T) {
	denied := domain.NewLocationError(domain.PermissionDenied, nil)
	p := NewBoundedProvider(erringProvider{err: denied}, time.Second)

	_, err := p.CurrentPosition(context.Background())
	var locErr *domain.LocationError
	if !errors.As(err, &locErr) || locErr.Reason != domain.PermissionDenied {
		t.Fatalf("expected permission denied to pass through, got %v", err)
	}
}

func TestBoundedProviderWrapsUnknownErrorsAsUnavailable(t *testing.T) {
	p := NewBoundedProvider(erringProvider{err: errors.New("gps offline")}, time.Second)

	_, err := p.CurrentPosition(context.Background())
	var locErr *domain.LocationError
	if !errors.As(err, &locErr) || locErr.Reason != domain.Unavailable {
		t.Fatalf("expected LocationError(unavailable), got %v", err)
	}
}

func TestBoundedProviderReturnsCoordinateOnSuccess(t *testing.T) {
	want := domain.Coordinate{Lat: 23.81, Lng: 90.41}
	p := NewBoundedProvider(&fakeProvider{coord: want}, time.Second)

	got, err := p.CurrentPosition(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
