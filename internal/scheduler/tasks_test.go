package scheduler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewDonationReminderTaskRoundTripsPayload(t *testing.T) {
	want := DonationReminderPayload{
		DonationID:  uuid.New(),
		DonorEmail:  "donor@example.com",
		DonorName:   "Sadia",
		Location:    "Dhaka Medical College",
		ScheduledAt: time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC),
	}

	task, err := NewDonationReminderTask(want)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Type() != TypeDonationReminder {
		t.Fatalf("unexpected task type %q", task.Type())
	}

	var got DonationReminderPayload
	if err := json.Unmarshal(task.Payload(), &got); err != nil {
		t.Fatalf("payload does not decode: %v", err)
	}
	if got.DonationID != want.DonationID || got.DonorEmail != want.DonorEmail || !got.ScheduledAt.Equal(want.ScheduledAt) {
		t.Fatalf("payload mismatch: %+v != %+v", got, want)
	}
}
