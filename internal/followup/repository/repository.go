// Package repository provides persistence for automated follow-ups.
package repository

import (
	"context"
	"time"

	"axentra_crm_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InactiveLead is a lead eligible for an automated follow-up.
type InactiveLead struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	Name    string
	Email   string
	Company *string
}

// Store is the persistence boundary for the followup module.
type Store interface {
	// ListInactiveLeads returns leads in an early pipeline stage whose last
	// activity predates cutoff and that have not already received a
	// follow-up since cutoff.
	ListInactiveLeads(ctx context.Context, cutoff time.Time) ([]InactiveLead, error)
	InsertFollowupLog(ctx context.Context, leadID uuid.UUID, message string) error
	TouchLastActivity(ctx context.Context, leadID uuid.UUID) error
}

// Repository is the PostgreSQL-backed followup store.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a followup repository backed by the given pool.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListInactiveLeads(ctx context.Context, cutoff time.Time) ([]InactiveLead, error) {
	const op = "followup.repository.ListInactiveLeads"

	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, email, company
		FROM leads
		WHERE last_activity < $1
		AND status IN ('new', 'contacted')
		AND id NOT IN (
			SELECT lead_id FROM followup_logs
			WHERE sent_at > $1
		)`,
		cutoff,
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list inactive leads", err).WithOp(op)
	}
	defer rows.Close()

	var leads []InactiveLead
	for rows.Next() {
		var lead InactiveLead
		if err := rows.Scan(&lead.ID, &lead.UserID, &lead.Name, &lead.Email, &lead.Company); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to scan inactive lead", err).WithOp(op)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to iterate inactive leads", err).WithOp(op)
	}
	return leads, nil
}

func (r *Repository) InsertFollowupLog(ctx context.Context, leadID uuid.UUID, message string) error {
	const op = "followup.repository.InsertFollowupLog"

	_, err := r.pool.Exec(ctx, `
		INSERT INTO followup_logs (id, lead_id, message)
		VALUES ($1, $2, $3)`,
		uuid.New(), leadID, message,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to insert followup log", err).WithOp(op)
	}
	return nil
}

func (r *Repository) TouchLastActivity(ctx context.Context, leadID uuid.UUID) error {
	const op = "followup.repository.TouchLastActivity"

	_, err := r.pool.Exec(ctx, `UPDATE leads SET last_activity = now() WHERE id = $1`, leadID)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to touch last activity", err).WithOp(op)
	}
	return nil
}

var _ Store = (*Repository)(nil)
