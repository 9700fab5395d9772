package repository

import (
	"context"

	"axentra_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// CreateLeadParams carries the fields needed to insert a new lead.
type CreateLeadParams struct {
	UserID  uuid.UUID
	Name    string
	Email   string
	Company *string
	Phone   *string
	Source  *domain.Source
}

// UpdateLeadParams carries a partial update. Nil fields are left untouched.
type UpdateLeadParams struct {
	Name    *string
	Email   *string
	Company *string
	Phone   *string
	Source  *domain.Source
	Status  *domain.Status
}

// ListFilter narrows and pages a lead listing. Zero values mean "no filter".
type ListFilter struct {
	Status *domain.Status
	Source *domain.Source
	Search string
	Page   int
	Limit  int
}

// Store is the persistence boundary for the leads module.
type Store interface {
	CreateLead(ctx context.Context, p CreateLeadParams) (*domain.Lead, error)
	GetLead(ctx context.Context, userID, leadID uuid.UUID) (*domain.Lead, error)
	ListLeads(ctx context.Context, userID uuid.UUID, f ListFilter) ([]domain.Lead, int, error)
	UpdateLead(ctx context.Context, userID, leadID uuid.UUID, p UpdateLeadParams) (*domain.Lead, error)
	DeleteLead(ctx context.Context, userID, leadID uuid.UUID) error
}
