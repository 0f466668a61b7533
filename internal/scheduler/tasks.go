// Package scheduler enqueues and processes background jobs via asynq.
package scheduler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names. Kept stable across releases; queued payloads outlive deploys.
const (
	TypeDonationReminder = "donation:reminder"
)

// DonationReminderPayload is the serialized payload of a donation reminder task.
type DonationReminderPayload struct {
	DonationID  uuid.UUID `json:"donationId"`
	DonorEmail  string    `json:"donorEmail"`
	DonorName   string    `json:"donorName"`
	Location    string    `json:"location"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

// NewDonationReminderTask builds the asynq task for a donation reminder.
func NewDonationReminderTask(p DonationReminderPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("scheduler: marshal reminder payload: %w", err)
	}
	return asynq.NewTask(TypeDonationReminder, payload, asynq.MaxRetry(3)), nil
}
