package scheduler

import (
	"context"
	"encoding/json"
	"fmt"

	"bloodconnect_backend/internal/email"
	"bloodconnect_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker consumes queued jobs and processes them.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *logger.Logger
}

// NewWorker creates a worker bound to the Redis queue.
func NewWorker(redisAddr string, sender email.Sender, log *logger.Logger) *Worker {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"reminders": 5,
				"default":   1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
				log.Error("task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	h := &reminderHandler{sender: sender, log: log}
	mux.HandleFunc(TypeDonationReminder, h.handleDonationReminder)

	return &Worker{server: server, mux: mux, log: log}
}

// Run blocks processing tasks until Shutdown is called.
func (w *Worker) Run() error {
	w.log.Info("worker starting")
	return w.server.Run(w.mux)
}

// Shutdown waits for in-flight tasks and stops the worker.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

type reminderHandler struct {
	sender email.Sender
	log    *logger.Logger
}

func (h *reminderHandler) handleDonationReminder(ctx context.Context, task *asynq.Task) error {
	var p DonationReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		// Undecodable payloads never succeed on retry.
		return fmt.Errorf("scheduler: decode reminder payload: %v: %w", err, asynq.SkipRetry)
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nThis is a reminder about your blood donation appointment on %s",
		p.DonorName, p.ScheduledAt.Format("Monday, 2 January 2006 at 15:04"),
	)
	if p.Location != "" {
		body += " at " + p.Location
	}
	body += ".\n\nPlease stay hydrated and have a good meal beforehand.\n\nThank you for donating!"

	if err := h.sender.Send(ctx, email.Message{
		To:      p.DonorEmail,
		Subject: "Reminder: your blood donation appointment",
		Body:    body,
	}); err != nil {
		return err
	}

	h.log.Info("donation reminder sent", "donationId", p.DonationID, "to", p.DonorEmail)
	return nil
}
