package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"axentra_crm_backend/internal/config"
	"axentra_crm_backend/internal/events"
	"axentra_crm_backend/internal/followup"
	"axentra_crm_backend/internal/notification"
	"axentra_crm_backend/internal/reports"
	"axentra_crm_backend/internal/scheduler"
	"axentra_crm_backend/internal/scoring"
	"axentra_crm_backend/platform/db"
	"axentra_crm_backend/platform/logger"
	"axentra_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg.DatabaseURL)
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

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	// Worker-side module wiring (no HTTP handlers required).
	scoringModule := scoring.NewModule(pool, eventBus, val, log, cfg.ScoreWorkers)
	followupModule := followup.NewModule(pool, eventBus, log)
	reportsModule := reports.NewModule(pool, eventBus, val, log)

	notificationModule := notification.NewModule(pool, cfg, val, log)
	notificationModule.SubscribeEvents(eventBus)

	cron, err := scheduler.NewCron(cfg, log)
	if err != nil {
		log.Error("failed to initialize cron scheduler", "error", err)
		panic("failed to initialize cron scheduler: " + err.Error())
	}
	go func() {
		if err := cron.Run(); err != nil {
			log.Error("cron scheduler stopped", "error", err)
		}
	}()
	defer cron.Shutdown()

	worker, err := scheduler.NewWorker(
		cfg,
		scoringModule.Recalculator(),
		followupModule.Service(),
		reportsModule.Service(),
		log,
	)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
