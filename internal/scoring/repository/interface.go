package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Engagement is one row of a lead's engagement history as stored.
// The payload is opaque to scoring and never interpreted here.
type Engagement struct {
	EventType  string
	OccurredAt time.Time
}

// InsertEventParams contains parameters for appending an engagement event.
type InsertEventParams struct {
	LeadID     uuid.UUID
	EventType  string
	Payload    json.RawMessage
	OccurredAt time.Time
}

// EventStore provides access to the append-only engagement event log.
type EventStore interface {
	// InsertEvent appends one immutable event row.
	InsertEvent(ctx context.Context, params InsertEventParams) error
	// FetchEvents returns a lead's full event history in no particular
	// order; callers must sort or filter by timestamp themselves.
	FetchEvents(ctx context.Context, leadID uuid.UUID) ([]Engagement, error)
}

// LeadScoreStore provides the scorer's limited view of the lead table:
// enumeration, ownership checks, and writes restricted to the score and
// last-activity fields.
type LeadScoreStore interface {
	LeadOwnedBy(ctx context.Context, leadID, userID uuid.UUID) (bool, error)
	TouchLastActivity(ctx context.Context, leadID uuid.UUID) error
	ListLeadIDs(ctx context.Context) ([]uuid.UUID, error)
	UpdateLeadScore(ctx context.Context, leadID uuid.UUID, score int) error
}

// Repository combines all scoring persistence operations.
type Repository interface {
	EventStore
	LeadScoreStore
}
