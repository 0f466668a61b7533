// Command worker runs the background job processor for queued tasks
// such as donation reminders.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bloodconnect_backend/internal/email"
	"bloodconnect_backend/internal/scheduler"
	"bloodconnect_backend/platform/config"
	"bloodconnect_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	if cfg.GetRedisURL() == "" {
		panic("REDIS_URL is required for the worker")
	}
	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		panic("invalid REDIS_URL: " + err.Error())
	}

	var sender email.Sender
	if cfg.GetEmailEnabled() && cfg.GetSMTPHost() != "" {
		sender = email.NewSMTPSender(cfg, log)
	} else {
		log.Warn("email delivery disabled; reminders will be logged and dropped")
		sender = email.NewNoopSender(log)
	}

	worker := scheduler.NewWorker(opts.Addr, sender, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info("shutdown signal received, stopping worker")
		worker.Shutdown()
	}()

	if err := worker.Run(); err != nil {
		log.Error("worker stopped with error", "error", err)
		panic("worker error: " + err.Error())
	}
}
