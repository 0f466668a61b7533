// Package notification sends email in response to domain events.
package notification

import (
	"context"
	"fmt"

	"bloodconnect_backend/internal/email"
	"bloodconnect_backend/internal/events"
	"bloodconnect_backend/platform/logger"
)

// Service listens for domain events and sends the matching emails.
type Service struct {
	sender email.Sender
	log    *logger.Logger
}

// NewService creates the notification service.
func NewService(sender email.Sender, log *logger.Logger) *Service {
	return &Service{sender: sender, log: log}
}

// Subscribe registers the service's handlers on the event bus.
func (s *Service) Subscribe(bus events.Bus) {
	bus.Subscribe(events.UserSignedUp{}.EventName(), events.HandlerFunc(s.onUserSignedUp))
	bus.Subscribe(events.DonationScheduled{}.EventName(), events.HandlerFunc(s.onDonationScheduled))
}

func (s *Service) onUserSignedUp(ctx context.Context, e events.Event) error {
	evt, ok := e.(events.UserSignedUp)
	if !ok {
		return fmt.Errorf("notification: unexpected event type %T", e)
	}

	return s.sender.Send(ctx, email.Message{
		To:      evt.Email,
		Subject: "Welcome to BloodConnect",
		Body: fmt.Sprintf(
			"Hi %s,\n\nWelcome to BloodConnect! Complete your profile with your blood type "+
				"and location to appear on the donor map and help patients near you.\n\n"+
				"Thank you for joining.",
			evt.Name),
	})
}

func (s *Service) onDonationScheduled(ctx context.Context, e events.Event) error {
	evt, ok := e.(events.DonationScheduled)
	if !ok {
		return fmt.Errorf("notification: unexpected event type %T", e)
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nYour blood donation appointment is confirmed for %s",
		evt.DonorName, evt.ScheduledAt.Format("Monday, 2 January 2006 at 15:04"))
	if evt.Location != "" {
		body += " at " + evt.Location
	}
	body += ".\n\nWe will send you a reminder the day before. Thank you for donating!"

	return s.sender.Send(ctx, email.Message{
		To:      evt.DonorEmail,
		Subject: "Your donation appointment is confirmed",
		Body:    body,
	})
}
