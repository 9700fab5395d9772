package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"axentra_crm_backend/internal/scoring/engine"
	"axentra_crm_backend/internal/scoring/repository"
	"axentra_crm_backend/platform/apperr"
	"axentra_crm_backend/platform/logger"

	"github.com/google/uuid"
)

const defaultWorkers = 8

// RecomputeResult reports the outcome of a batch run. Per-lead failures are
// visible only through logs; the count excludes skipped leads.
type RecomputeResult struct {
	Updated int
}

// Recalculator recomputes every lead's engagement score from scratch.
// Each run is stateless and idempotent: the score is a pure function of the
// lead's event history and the run's reference time, so re-running on the
// same day produces identical results.
type Recalculator struct {
	repo    repository.Repository
	log     *logger.Logger
	workers int
	now     func() time.Time
}

// NewRecalculator creates a batch score recalculator. workers bounds the
// per-lead fan-out; values below 1 fall back to the default.
func NewRecalculator(repo repository.Repository, log *logger.Logger, workers int) *Recalculator {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Recalculator{
		repo:    repo,
		log:     log,
		workers: workers,
		now:     time.Now,
	}
}

// RecomputeAll scans every lead and rewrites its score. Leads are
// independent, so the scan fans out over a bounded worker pool; a failure
// fetching or writing one lead is logged and skipped without affecting the
// rest of the batch. Only a failure to enumerate leads aborts the run.
func (r *Recalculator) RecomputeAll(ctx context.Context) (RecomputeResult, error) {
	start := time.Now()

	leadIDs, err := r.repo.ListLeadIDs(ctx)
	if err != nil {
		return RecomputeResult{}, apperr.Wrap(apperr.KindInternal, "enumerate leads", err)
	}

	now := r.now()

	var updated atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, leadID := range leadIDs {
		g.Go(func() error {
			if err := r.recomputeLead(gctx, leadID, now); err != nil {
				r.log.Warn("lead score recompute skipped", "lead_id", leadID, "error", err)
				return nil
			}
			updated.Add(1)
			return nil
		})
	}

	// Workers swallow their own errors, so Wait only observes ctx cancellation.
	_ = g.Wait()

	result := RecomputeResult{Updated: int(updated.Load())}
	r.log.JobRun("score_recompute", result.Updated, float64(time.Since(start).Milliseconds()))

	return result, nil
}

func (r *Recalculator) recomputeLead(ctx context.Context, leadID uuid.UUID, now time.Time) error {
	rows, err := r.repo.FetchEvents(ctx, leadID)
	if err != nil {
		return fmt.Errorf("fetch events: %w", err)
	}

	history := make([]engine.Engagement, 0, len(rows))
	for _, row := range rows {
		history = append(history, engine.Engagement{
			Type:       engine.EventType(row.EventType),
			OccurredAt: row.OccurredAt,
		})
	}

	score := engine.Score(history, now)

	if err := r.repo.UpdateLeadScore(ctx, leadID, score); err != nil {
		return fmt.Errorf("update score: %w", err)
	}

	return nil
}
