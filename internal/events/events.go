// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"bloodconnect_backend/platform/events"
	"bloodconnect_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserSignedUp is published when a new user successfully registers.
type UserSignedUp struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
}

func (e UserSignedUp) EventName() string { return "auth.user.signed_up" }

// =============================================================================
// Requests Domain Events
// =============================================================================

// BloodRequestCreated is published when a patient blood request is submitted.
type BloodRequestCreated struct {
	BaseEvent
	RequestID uuid.UUID `json:"requestId"`
	BloodType string    `json:"bloodType"`
	Patient   string    `json:"patient"`
	Urgency   string    `json:"urgency"`
	Location  string    `json:"location"`
}

func (e BloodRequestCreated) EventName() string { return "requests.request.created" }

// =============================================================================
// Donations Domain Events
// =============================================================================

// DonationScheduled is published when a donor schedules a donation.
type DonationScheduled struct {
	BaseEvent
	DonationID  uuid.UUID `json:"donationId"`
	DonorEmail  string    `json:"donorEmail"`
	DonorName   string    `json:"donorName"`
	BloodType   string    `json:"bloodType"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Location    string    `json:"location"`
}

func (e DonationScheduled) EventName() string { return "donations.donation.scheduled" }
