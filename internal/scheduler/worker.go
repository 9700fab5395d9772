package scheduler

import (
	"context"
	"fmt"

	"axentra_crm_backend/internal/config"
	followupsvc "axentra_crm_backend/internal/followup/service"
	reportssvc "axentra_crm_backend/internal/reports/service"
	scoringsvc "axentra_crm_backend/internal/scoring/service"
	"axentra_crm_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker consumes the periodic tasks and runs the matching service jobs.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	recalc   *scoringsvc.Recalculator
	followup *followupsvc.Service
	reports  *reportssvc.Service
	log      *logger.Logger
}

// NewWorker creates a worker bound to the shared Redis queue.
func NewWorker(
	cfg *config.Config,
	recalc *scoringsvc.Recalculator,
	followup *followupsvc.Service,
	reports *reportssvc.Service,
	log *logger.Logger,
) (*Worker, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(cfg.RedisURL, cfg.RedisTLSInsecure)
	if err != nil {
		return nil, err
	}

	queue := cfg.AsynqQueueName
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.AsynqConcurrency
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		recalc:   recalc,
		followup: followup,
		reports:  reports,
		log:      log,
	}

	mux.HandleFunc(TaskScoreRecompute, w.handleScoreRecompute)
	mux.HandleFunc(TaskFollowupProcess, w.handleFollowupProcess)
	mux.HandleFunc(TaskWeeklyReports, w.handleWeeklyReports)

	return w, nil
}

func (w *Worker) handleScoreRecompute(ctx context.Context, _ *asynq.Task) error {
	result, err := w.recalc.RecomputeAll(ctx)
	if err != nil {
		return err
	}
	w.log.Info("score recompute task finished", "updated", result.Updated)
	return nil
}

func (w *Worker) handleFollowupProcess(ctx context.Context, _ *asynq.Task) error {
	result, err := w.followup.ProcessInactiveLeads(ctx)
	if err != nil {
		return err
	}
	w.log.Info("followup task finished", "processed", result.Processed, "sent", result.Sent)
	return nil
}

func (w *Worker) handleWeeklyReports(ctx context.Context, _ *asynq.Task) error {
	result, err := w.reports.SendWeekly(ctx)
	if err != nil {
		return err
	}
	w.log.Info("weekly reports task finished", "sent", result.Sent)
	return nil
}

// Run serves tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
