// Package service contains the two scoring components: the engagement
// Recorder (permissive ingestion with ownership checks) and the batch
// Recalculator (periodic full recompute of every lead's score).
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"axentra_crm_backend/internal/events"
	"axentra_crm_backend/internal/scoring/repository"
	"axentra_crm_backend/platform/apperr"

	"github.com/google/uuid"
)

const leadNotFoundMessage = "lead not found"

// Recorder appends engagement events to a lead's history. It performs no
// score computation; classification of event weight happens only at scoring
// time, so unknown event types are accepted and stored as-is.
type Recorder struct {
	repo repository.Repository
	bus  events.Bus
	now  func() time.Time
}

// NewRecorder creates an engagement recorder.
func NewRecorder(repo repository.Repository, bus events.Bus) *Recorder {
	return &Recorder{
		repo: repo,
		bus:  bus,
		now:  time.Now,
	}
}

// RecordEngagement appends one immutable engagement event for the lead and
// refreshes its last-activity marker. The lead must exist and belong to the
// calling user; a lead owned by someone else is indistinguishable from a
// missing one.
func (r *Recorder) RecordEngagement(ctx context.Context, userID, leadID uuid.UUID, eventType string, payload json.RawMessage) error {
	owned, err := r.repo.LeadOwnedBy(ctx, leadID, userID)
	if err != nil {
		return fmt.Errorf("record engagement: %w", err)
	}
	if !owned {
		return apperr.NotFound(leadNotFoundMessage)
	}

	occurredAt := r.now().UTC()

	err = r.repo.InsertEvent(ctx, repository.InsertEventParams{
		LeadID:     leadID,
		EventType:  eventType,
		Payload:    payload,
		OccurredAt: occurredAt,
	})
	if err != nil {
		return fmt.Errorf("record engagement: %w", err)
	}

	if err := r.repo.TouchLastActivity(ctx, leadID); err != nil {
		return fmt.Errorf("record engagement: %w", err)
	}

	if r.bus != nil {
		r.bus.Publish(ctx, events.EngagementRecorded{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     leadID,
			UserID:     userID,
			EventType:  eventType,
			RecordedAt: occurredAt,
		})
	}

	return nil
}
