package scheduler

import (
	"github.com/hibiken/asynq"
)

// Periodic task types. All three are fan-out jobs without payload; the
// handler derives everything from the database.
const (
	TaskScoreRecompute  = "scoring.recompute"
	TaskFollowupProcess = "followup.process"
	TaskWeeklyReports   = "reports.weekly"
)

// Cron schedules for the periodic tasks.
const (
	ScheduleScoreRecompute  = "0 2 * * *" // daily at 02:00
	ScheduleFollowupProcess = "0 9 * * *" // daily at 09:00
	ScheduleWeeklyReports   = "0 8 * * 1" // Mondays at 08:00
)

func NewScoreRecomputeTask() *asynq.Task {
	return asynq.NewTask(TaskScoreRecompute, nil)
}

func NewFollowupProcessTask() *asynq.Task {
	return asynq.NewTask(TaskFollowupProcess, nil)
}

func NewWeeklyReportsTask() *asynq.Task {
	return asynq.NewTask(TaskWeeklyReports, nil)
}
