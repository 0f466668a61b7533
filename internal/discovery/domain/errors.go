package domain

import "fmt"

// LocationReason classifies why a position could not be acquired.
type LocationReason string

const (
	PermissionDenied LocationReason = "permission_denied"
	Unavailable      LocationReason = "unavailable"
	Timeout          LocationReason = "timeout"
)

// LocationError reports a failed position acquisition. It is recoverable:
// the caller presents a non-blocking error and offers retry or manual search.
type LocationError struct {
	Reason LocationReason
	Err    error
}

func (e *LocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("location %s: %v", e.Reason, e.Err)
	}
	return "location " + string(e.Reason)
}

func (e *LocationError) Unwrap() error { return e.Err }

// NewLocationError builds a LocationError with the given reason.
func NewLocationError(reason LocationReason, err error) *LocationError {
	return &LocationError{Reason: reason, Err: err}
}

// GeocodeError reports a failed forward geocode search. Recoverable:
// shown to the user with a retry affordance. Reverse lookups never raise
// it; they degrade silently to an empty display name.
type GeocodeError struct {
	Err error
}

func (e *GeocodeError) Error() string {
	return fmt.Sprintf("geocode failed: %v", e.Err)
}

func (e *GeocodeError) Unwrap() error { return e.Err }

// RepositoryError reports a failed donor pool fetch. The caller must render
// an explicit retryable error state, never an empty pool: zero donors after
// filtering and a failed load are distinguishable.
type RepositoryError struct {
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("donor pool fetch failed: %v", e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }
