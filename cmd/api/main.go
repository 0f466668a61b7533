package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bloodconnect_backend/internal/admin"
	"bloodconnect_backend/internal/auth"
	"bloodconnect_backend/internal/chat"
	"bloodconnect_backend/internal/discovery"
	"bloodconnect_backend/internal/donations"
	"bloodconnect_backend/internal/donors"
	"bloodconnect_backend/internal/email"
	"bloodconnect_backend/internal/events"
	apphttp "bloodconnect_backend/internal/http"
	"bloodconnect_backend/internal/http/router"
	"bloodconnect_backend/internal/notification"
	"bloodconnect_backend/internal/requests"
	"bloodconnect_backend/internal/scheduler"
	"bloodconnect_backend/internal/users"
	"bloodconnect_backend/platform/config"
	"bloodconnect_backend/platform/db"
	"bloodconnect_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Redis backs the geocode cache and the reminder queue. Both degrade
	// gracefully when REDIS_URL is not set.
	rdb, redisAddr := initRedis(cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}

	reminders, closeReminders := initReminders(redisAddr, log)
	if closeReminders != nil {
		defer closeReminders()
	}

	sender := initSender(cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notification.NewService(sender, log).Subscribe(eventBus)

	discoveryModule := discovery.NewModule(pool, rdb, cfg, log)
	authModule := auth.NewModule(pool, cfg, eventBus, discoveryModule.Sessions(), log)
	usersModule := users.NewModule(pool, log)
	donorsModule := donors.NewModule(pool, log)
	requestsModule := requests.NewModule(pool, eventBus, log)
	donationsModule := donations.NewModule(pool, eventBus, usersModule.Service(), reminders, log)
	adminModule := admin.NewModule(pool, log)

	chatModule, err := chat.NewModule(cfg.GetChatRulesPath(), log)
	if err != nil {
		log.Error("failed to initialize chat module", "error", err)
		panic("failed to initialize chat module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			usersModule,
			donorsModule,
			discoveryModule,
			requestsModule,
			donationsModule,
			chatModule,
			adminModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initRedis connects to Redis when configured. Returns the client plus the
// bare address for components that dial Redis themselves (asynq).
func initRedis(cfg config.RedisConfig, log *logger.Logger) (*redis.Client, string) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; geocode cache and donation reminders disabled")
		return nil, ""
	}

	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL, continuing without Redis", "error", err)
		return nil, ""
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Error("Redis unreachable, continuing without it", "error", err)
		_ = rdb.Close()
		return nil, ""
	}

	log.Info("redis connection established", "addr", opts.Addr)
	return rdb, opts.Addr
}

func initReminders(redisAddr string, log *logger.Logger) (scheduler.Enqueuer, func()) {
	if redisAddr == "" {
		return scheduler.NewNoopEnqueuer(log), nil
	}

	client := scheduler.NewClient(redisAddr, log)
	return client, func() {
		_ = client.Close()
	}
}

func initSender(cfg *config.Config, log *logger.Logger) email.Sender {
	if !cfg.GetEmailEnabled() || cfg.GetSMTPHost() == "" {
		log.Warn("email delivery disabled")
		return email.NewNoopSender(log)
	}
	return email.NewSMTPSender(cfg, log)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
