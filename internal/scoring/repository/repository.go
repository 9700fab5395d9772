package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"axentra_crm_backend/platform/apperr"
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new scoring repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// InsertEvent appends one engagement event row. Events are never updated or
// deleted; the scoring window self-limits their relevance.
func (r *Repo) InsertEvent(ctx context.Context, params InsertEventParams) error {
	query := `
		INSERT INTO lead_engagement (id, lead_id, event_type, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`

	payload := params.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	_, err := r.pool.Exec(ctx, query, uuid.New(), params.LeadID, params.EventType, payload, params.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert engagement event: %w", err)
	}

	return nil
}

// FetchEvents returns the lead's full engagement history.
func (r *Repo) FetchEvents(ctx context.Context, leadID uuid.UUID) ([]Engagement, error) {
	query := `
		SELECT event_type, occurred_at
		FROM lead_engagement
		WHERE lead_id = $1`

	rows, err := r.pool.Query(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("fetch engagement events: %w", err)
	}
	defer rows.Close()

	var results []Engagement
	for rows.Next() {
		var e Engagement
		if err := rows.Scan(&e.EventType, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan engagement event: %w", err)
		}
		results = append(results, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate engagement events: %w", err)
	}

	return results, nil
}

// LeadOwnedBy reports whether the lead exists and belongs to the user.
func (r *Repo) LeadOwnedBy(ctx context.Context, leadID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM leads WHERE id = $1 AND user_id = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, leadID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check lead ownership: %w", err)
	}

	return exists, nil
}

// TouchLastActivity refreshes the lead's last-activity marker.
func (r *Repo) TouchLastActivity(ctx context.Context, leadID uuid.UUID) error {
	query := `UPDATE leads SET last_activity = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, leadID)
	if err != nil {
		return fmt.Errorf("touch last activity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("lead not found")
	}

	return nil
}

// ListLeadIDs enumerates every lead for the batch recompute scan.
func (r *Repo) ListLeadIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT id FROM leads`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list lead ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan lead id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lead ids: %w", err)
	}

	return ids, nil
}

// UpdateLeadScore persists a recomputed score. The score column is the only
// lead field this module writes.
func (r *Repo) UpdateLeadScore(ctx context.Context, leadID uuid.UUID, score int) error {
	query := `UPDATE leads SET score = $2, updated_at = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, leadID, score)
	if err != nil {
		return fmt.Errorf("update lead score: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("lead not found")
	}

	return nil
}
