// Package repository provides the aggregation queries behind user reports.
package repository

import (
	"context"
	"time"

	"axentra_crm_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CountBySource is the number of leads acquired through one channel.
type CountBySource struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// CountByStatus is the number of leads in one pipeline stage.
type CountByStatus struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Recipient is a user eligible to receive the weekly report.
type Recipient struct {
	ID        uuid.UUID
	Email     string
	FirstName string
}

// Store is the persistence boundary for the reports module.
type Store interface {
	CountLeadsCreated(ctx context.Context, userID uuid.UUID, start, end time.Time) (int, error)
	CountFollowupsSent(ctx context.Context, userID uuid.UUID, start, end time.Time) (int, error)
	AverageScore(ctx context.Context, userID uuid.UUID, end time.Time) (float64, error)
	ConversionCounts(ctx context.Context, userID uuid.UUID, start, end time.Time) (total, won int, err error)
	LeadsBySource(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]CountBySource, error)
	LeadsByStatus(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]CountByStatus, error)
	ListRecipients(ctx context.Context) ([]Recipient, error)
}

// Repository is the PostgreSQL-backed reports store.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a reports repository backed by the given pool.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) CountLeadsCreated(ctx context.Context, userID uuid.UUID, start, end time.Time) (int, error) {
	const op = "reports.repository.CountLeadsCreated"

	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM leads
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3`,
		userID, start, end,
	).Scan(&count)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "failed to count created leads", err).WithOp(op)
	}
	return count, nil
}

func (r *Repository) CountFollowupsSent(ctx context.Context, userID uuid.UUID, start, end time.Time) (int, error) {
	const op = "reports.repository.CountFollowupsSent"

	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM followup_logs fl
		JOIN leads l ON fl.lead_id = l.id
		WHERE l.user_id = $1 AND fl.sent_at >= $2 AND fl.sent_at <= $3`,
		userID, start, end,
	).Scan(&count)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "failed to count followups", err).WithOp(op)
	}
	return count, nil
}

// AverageScore averages over every lead that existed by end, not only those
// created inside the reporting window.
func (r *Repository) AverageScore(ctx context.Context, userID uuid.UUID, end time.Time) (float64, error) {
	const op = "reports.repository.AverageScore"

	var avg float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(score), 0)
		FROM leads
		WHERE user_id = $1 AND created_at <= $2`,
		userID, end,
	).Scan(&avg)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "failed to average scores", err).WithOp(op)
	}
	return avg, nil
}

func (r *Repository) ConversionCounts(ctx context.Context, userID uuid.UUID, start, end time.Time) (int, int, error) {
	const op = "reports.repository.ConversionCounts"

	var total, won int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'won')
		FROM leads
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3`,
		userID, start, end,
	).Scan(&total, &won)
	if err != nil {
		return 0, 0, apperr.Wrap(apperr.KindInternal, "failed to count conversions", err).WithOp(op)
	}
	return total, won, nil
}

func (r *Repository) LeadsBySource(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]CountBySource, error) {
	const op = "reports.repository.LeadsBySource"

	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(source, 'unknown') AS source, COUNT(*) AS count
		FROM leads
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
		GROUP BY source
		ORDER BY count DESC`,
		userID, start, end,
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to group leads by source", err).WithOp(op)
	}
	defer rows.Close()

	var out []CountBySource
	for rows.Next() {
		var item CountBySource
		if err := rows.Scan(&item.Source, &item.Count); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to scan source count", err).WithOp(op)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to iterate source counts", err).WithOp(op)
	}
	return out, nil
}

func (r *Repository) LeadsByStatus(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]CountByStatus, error) {
	const op = "reports.repository.LeadsByStatus"

	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*) AS count
		FROM leads
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
		GROUP BY status
		ORDER BY count DESC`,
		userID, start, end,
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to group leads by status", err).WithOp(op)
	}
	defer rows.Close()

	var out []CountByStatus
	for rows.Next() {
		var item CountByStatus
		if err := rows.Scan(&item.Status, &item.Count); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to scan status count", err).WithOp(op)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to iterate status counts", err).WithOp(op)
	}
	return out, nil
}

func (r *Repository) ListRecipients(ctx context.Context) ([]Recipient, error) {
	const op = "reports.repository.ListRecipients"

	rows, err := r.pool.Query(ctx, `SELECT id, email, first_name FROM users`)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list report recipients", err).WithOp(op)
	}
	defer rows.Close()

	var out []Recipient
	for rows.Next() {
		var rec Recipient
		if err := rows.Scan(&rec.ID, &rec.Email, &rec.FirstName); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to scan report recipient", err).WithOp(op)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to iterate report recipients", err).WithOp(op)
	}
	return out, nil
}

var _ Store = (*Repository)(nil)
