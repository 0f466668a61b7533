package scheduler

import (
	"context"
	"fmt"
	"time"

	"bloodconnect_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// ReminderDelivery is how long before the appointment the reminder fires.
const ReminderDelivery = 24 * time.Hour

// Enqueuer schedules background jobs. Callers hold this interface so the
// HTTP path never depends on asynq directly and a nil-safe no-op can stand
// in when Redis is not configured.
type Enqueuer interface {
	ScheduleDonationReminder(ctx context.Context, p DonationReminderPayload) error
}

// Client enqueues jobs onto the asynq-backed queue.
type Client struct {
	inner *asynq.Client
	log   *logger.Logger
}

// NewClient creates an enqueuer backed by the given Redis connection.
func NewClient(redisAddr string, log *logger.Logger) *Client {
	return &Client{
		inner: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
		log:   log,
	}
}

// ScheduleDonationReminder enqueues a reminder to fire a day before the
// appointment. Appointments closer than that get the reminder immediately.
func (c *Client) ScheduleDonationReminder(ctx context.Context, p DonationReminderPayload) error {
	task, err := NewDonationReminderTask(p)
	if err != nil {
		return err
	}

	opts := []asynq.Option{asynq.Queue("reminders")}
	fireAt := p.ScheduledAt.Add(-ReminderDelivery)
	if fireAt.After(time.Now()) {
		opts = append(opts, asynq.ProcessAt(fireAt))
	}

	info, err := c.inner.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("scheduler: enqueue reminder for donation %s: %w", p.DonationID, err)
	}

	c.log.Info("donation reminder scheduled",
		"taskId", info.ID,
		"donationId", p.DonationID,
		"fireAt", fireAt,
	)
	return nil
}

// Close releases the underlying Redis connection.
func (c *Client) Close() error {
	return c.inner.Close()
}

// NoopEnqueuer drops jobs. Used when Redis is not configured.
type NoopEnqueuer struct {
	log *logger.Logger
}

// NewNoopEnqueuer creates an enqueuer that logs and discards every job.
func NewNoopEnqueuer(log *logger.Logger) *NoopEnqueuer {
	return &NoopEnqueuer{log: log}
}

// ScheduleDonationReminder logs the dropped reminder and returns nil.
func (n *NoopEnqueuer) ScheduleDonationReminder(_ context.Context, p DonationReminderPayload) error {
	n.log.Info("job queue disabled, dropping donation reminder", "donationId", p.DonationID)
	return nil
}
