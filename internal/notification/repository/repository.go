// Package repository persists the notification delivery log.
package repository

import (
	"context"
	"time"

	"axentra_crm_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Statuses of a notification log entry. Every send attempt starts pending
// and ends sent or failed.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Log is one recorded notification attempt.
type Log struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Message      string
	Channel      string
	Recipient    string
	Status       string
	ErrorMessage *string
	SentAt       *time.Time
	CreatedAt    time.Time
}

// Store is the persistence boundary for notification logs.
type Store interface {
	CreateLog(ctx context.Context, userID uuid.UUID, message, channel, recipient string) (uuid.UUID, error)
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
}

// Repository is the PostgreSQL-backed notification log store.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a notification log repository backed by the given pool.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateLog records a pending notification attempt and returns its ID.
func (r *Repository) CreateLog(ctx context.Context, userID uuid.UUID, message, channel, recipient string) (uuid.UUID, error) {
	const op = "notification.repository.CreateLog"

	id := uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notification_logs (id, user_id, message, channel, recipient, status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, userID, message, channel, recipient, StatusPending,
	)
	if err != nil {
		return uuid.Nil, apperr.Wrap(apperr.KindInternal, "failed to create notification log", err).WithOp(op)
	}
	return id, nil
}

// MarkSent moves a pending log entry to sent with its delivery time.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	const op = "notification.repository.MarkSent"

	_, err := r.pool.Exec(ctx, `
		UPDATE notification_logs
		SET status = $2, sent_at = $3, error_message = NULL
		WHERE id = $1`,
		id, StatusSent, sentAt,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to mark notification sent", err).WithOp(op)
	}
	return nil
}

// MarkFailed moves a pending log entry to failed with the failure reason.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	const op = "notification.repository.MarkFailed"

	_, err := r.pool.Exec(ctx, `
		UPDATE notification_logs
		SET status = $2, error_message = $3
		WHERE id = $1`,
		id, StatusFailed, errorMessage,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to mark notification failed", err).WithOp(op)
	}
	return nil
}

var _ Store = (*Repository)(nil)
