package scheduler

import (
	"fmt"

	"axentra_crm_backend/internal/config"
	"axentra_crm_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Cron enqueues the periodic tasks on their schedules. The worker picks
// them up from the shared queue, so cron and worker can run in the same
// process or separately.
type Cron struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

// NewCron registers the recurring task schedule against Redis.
func NewCron(cfg *config.Config, log *logger.Logger) (*Cron, error) {
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

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{})

	entries := []struct {
		spec string
		task *asynq.Task
	}{
		{ScheduleScoreRecompute, NewScoreRecomputeTask()},
		{ScheduleFollowupProcess, NewFollowupProcessTask()},
		{ScheduleWeeklyReports, NewWeeklyReportsTask()},
	}
	for _, entry := range entries {
		if _, err := scheduler.Register(entry.spec, entry.task, asynq.Queue(queue)); err != nil {
			return nil, fmt.Errorf("register %s: %w", entry.task.Type(), err)
		}
		log.Info("cron entry registered", "task", entry.task.Type(), "schedule", entry.spec)
	}

	return &Cron{scheduler: scheduler, log: log}, nil
}

// Run blocks until the scheduler stops.
func (c *Cron) Run() error {
	if c == nil || c.scheduler == nil {
		return nil
	}
	return c.scheduler.Run()
}

// Shutdown stops enqueuing new tasks.
func (c *Cron) Shutdown() {
	if c == nil || c.scheduler == nil {
		return
	}
	c.scheduler.Shutdown()
}
