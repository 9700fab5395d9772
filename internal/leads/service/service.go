// Package service holds the lead lifecycle business logic.
package service

import (
	"context"

	"axentra_crm_backend/internal/events"
	"axentra_crm_backend/internal/leads/domain"
	"axentra_crm_backend/internal/leads/repository"
	"axentra_crm_backend/platform/apperr"
	"axentra_crm_backend/platform/logger"
	"axentra_crm_backend/platform/phone"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service coordinates lead CRUD and emits domain events.
type Service struct {
	repo repository.Store
	bus  events.Bus
	log  *logger.Logger
}

// New creates a lead service.
func New(repo repository.Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// CreateInput carries the caller-supplied fields for a new lead.
type CreateInput struct {
	Name    string
	Email   string
	Company *string
	Phone   *string
	Source  *string
}

// Create inserts a lead owned by userID and publishes LeadCreated.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (*domain.Lead, error) {
	const op = "leads.service.Create"

	var source *domain.Source
	if in.Source != nil && *in.Source != "" {
		src := domain.Source(*in.Source)
		if !src.Valid() {
			return nil, apperr.Validation("invalid lead source").WithOp(op)
		}
		source = &src
	}

	phoneNumber := in.Phone
	if phoneNumber != nil && *phoneNumber != "" {
		normalized := phone.NormalizeE164(*phoneNumber)
		phoneNumber = &normalized
	}

	lead, err := s.repo.CreateLead(ctx, repository.CreateLeadParams{
		UserID:  userID,
		Name:    in.Name,
		Email:   in.Email,
		Company: in.Company,
		Phone:   phoneNumber,
		Source:  source,
	})
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		evt := events.LeadCreated{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			UserID:    lead.UserID,
			Name:      lead.Name,
			Email:     lead.Email,
		}
		if lead.Source != nil {
			evt.Source = string(*lead.Source)
		}
		s.bus.Publish(ctx, evt)
	}

	s.log.WithUserID(userID.String()).Info("lead created", "lead_id", lead.ID.String())
	return lead, nil
}

// Get fetches a single lead scoped to its owner.
func (s *Service) Get(ctx context.Context, userID, leadID uuid.UUID) (*domain.Lead, error) {
	return s.repo.GetLead(ctx, userID, leadID)
}

// ListInput narrows and pages a lead listing.
type ListInput struct {
	Status string
	Source string
	Search string
	Page   int
	Limit  int
}

// ListResult is one page of leads plus the total matching the filter.
type ListResult struct {
	Leads []domain.Lead
	Total int
	Page  int
	Limit int
}

// List returns one page of the user's leads, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, in ListInput) (*ListResult, error) {
	const op = "leads.service.List"

	filter := repository.ListFilter{
		Search: in.Search,
		Page:   in.Page,
		Limit:  in.Limit,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	if in.Status != "" {
		status := domain.Status(in.Status)
		if !status.Valid() {
			return nil, apperr.Validation("invalid lead status").WithOp(op)
		}
		filter.Status = &status
	}
	if in.Source != "" {
		source := domain.Source(in.Source)
		if !source.Valid() {
			return nil, apperr.Validation("invalid lead source").WithOp(op)
		}
		filter.Source = &source
	}

	leads, total, err := s.repo.ListLeads(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return &ListResult{Leads: leads, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// UpdateInput carries a partial lead update. Nil fields are left untouched.
type UpdateInput struct {
	Name    *string
	Email   *string
	Company *string
	Phone   *string
	Source  *string
	Status  *string
}

// Update applies a partial update to an owner-scoped lead.
func (s *Service) Update(ctx context.Context, userID, leadID uuid.UUID, in UpdateInput) (*domain.Lead, error) {
	const op = "leads.service.Update"

	params := repository.UpdateLeadParams{
		Name:    in.Name,
		Email:   in.Email,
		Company: in.Company,
	}

	if in.Phone != nil {
		phoneNumber := *in.Phone
		if phoneNumber != "" {
			phoneNumber = phone.NormalizeE164(phoneNumber)
		}
		params.Phone = &phoneNumber
	}
	if in.Source != nil {
		source := domain.Source(*in.Source)
		if !source.Valid() {
			return nil, apperr.Validation("invalid lead source").WithOp(op)
		}
		params.Source = &source
	}
	if in.Status != nil {
		status := domain.Status(*in.Status)
		if !status.Valid() {
			return nil, apperr.Validation("invalid lead status").WithOp(op)
		}
		params.Status = &status
	}

	return s.repo.UpdateLead(ctx, userID, leadID, params)
}

// Delete removes an owner-scoped lead.
func (s *Service) Delete(ctx context.Context, userID, leadID uuid.UUID) error {
	if err := s.repo.DeleteLead(ctx, userID, leadID); err != nil {
		return err
	}
	s.log.WithUserID(userID.String()).Info("lead deleted", "lead_id", leadID.String())
	return nil
}
