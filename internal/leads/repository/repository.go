// Package repository implements lead persistence on PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"axentra_crm_backend/internal/leads/domain"
	"axentra_crm_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const leadColumns = "id, user_id, name, email, company, phone, source, status, score, last_activity, created_at, updated_at"

// Repository is the PostgreSQL-backed lead store.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a lead repository backed by the given pool.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanLead(row pgx.Row) (*domain.Lead, error) {
	var l domain.Lead
	var source *string
	err := row.Scan(
		&l.ID, &l.UserID, &l.Name, &l.Email, &l.Company, &l.Phone,
		&source, &l.Status, &l.Score, &l.LastActivity, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if source != nil {
		s := domain.Source(*source)
		l.Source = &s
	}
	return &l, nil
}

// CreateLead inserts a new lead owned by p.UserID. Status defaults to "new"
// and score to zero at the database level.
func (r *Repository) CreateLead(ctx context.Context, p CreateLeadParams) (*domain.Lead, error) {
	const op = "leads.repository.CreateLead"

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (id, user_id, name, email, company, phone, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+leadColumns,
		uuid.New(), p.UserID, p.Name, p.Email, p.Company, p.Phone, p.Source,
	)

	lead, err := scanLead(row)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create lead", err).WithOp(op)
	}
	return lead, nil
}

// GetLead fetches a single lead scoped to its owner.
func (r *Repository) GetLead(ctx context.Context, userID, leadID uuid.UUID) (*domain.Lead, error) {
	const op = "leads.repository.GetLead"

	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE id = $1 AND user_id = $2`,
		leadID, userID,
	)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("lead not found").WithOp(op)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to get lead", err).WithOp(op)
	}
	return lead, nil
}

// ListLeads returns one page of the owner's leads, newest first, plus the
// total count matching the filter.
func (r *Repository) ListLeads(ctx context.Context, userID uuid.UUID, f ListFilter) ([]domain.Lead, int, error) {
	const op = "leads.repository.ListLeads"

	where := []string{"user_id = $1"}
	args := []any{userID}

	if f.Status != nil {
		args = append(args, *f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Source != nil {
		args = append(args, *f.Source)
		where = append(where, fmt.Sprintf("source = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR company ILIKE $%d)", n, n, n))
	}

	whereClause := "WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM leads "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "failed to count leads", err).WithOp(op)
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	query := fmt.Sprintf(`
		SELECT %s
		FROM leads %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		leadColumns, whereClause, len(args)-1, len(args),
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "failed to list leads", err).WithOp(op)
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0, f.Limit)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, apperr.Wrap(apperr.KindInternal, "failed to scan lead", err).WithOp(op)
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "failed to iterate leads", err).WithOp(op)
	}
	return leads, total, nil
}

// UpdateLead applies a partial update to an owner-scoped lead. The update
// always bumps updated_at and last_activity.
func (r *Repository) UpdateLead(ctx context.Context, userID, leadID uuid.UUID, p UpdateLeadParams) (*domain.Lead, error) {
	const op = "leads.repository.UpdateLead"

	sets := []string{}
	args := []any{}

	appendSet := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Name != nil {
		appendSet("name", *p.Name)
	}
	if p.Email != nil {
		appendSet("email", *p.Email)
	}
	if p.Company != nil {
		appendSet("company", *p.Company)
	}
	if p.Phone != nil {
		appendSet("phone", *p.Phone)
	}
	if p.Source != nil {
		appendSet("source", *p.Source)
	}
	if p.Status != nil {
		appendSet("status", *p.Status)
	}
	sets = append(sets, "updated_at = now()", "last_activity = now()")

	args = append(args, leadID, userID)
	query := fmt.Sprintf(`
		UPDATE leads
		SET %s
		WHERE id = $%d AND user_id = $%d
		RETURNING %s`,
		strings.Join(sets, ", "), len(args)-1, len(args), leadColumns,
	)

	lead, err := scanLead(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("lead not found").WithOp(op)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to update lead", err).WithOp(op)
	}
	return lead, nil
}

// DeleteLead removes an owner-scoped lead and its dependent rows via cascade.
func (r *Repository) DeleteLead(ctx context.Context, userID, leadID uuid.UUID) error {
	const op = "leads.repository.DeleteLead"

	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1 AND user_id = $2`, leadID, userID)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to delete lead", err).WithOp(op)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lead not found").WithOp(op)
	}
	return nil
}

var _ Store = (*Repository)(nil)
