// Package transport defines the HTTP request and response shapes for leads.
package transport

import (
	"time"

	"axentra_crm_backend/internal/leads/domain"
)

// CreateLeadRequest is the payload for creating a lead.
type CreateLeadRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Email   string  `json:"email" validate:"required,email"`
	Company *string `json:"company,omitempty" validate:"omitempty,max=255"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Source  *string `json:"source,omitempty"`
}

// UpdateLeadRequest is the payload for partially updating a lead.
type UpdateLeadRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Company *string `json:"company,omitempty" validate:"omitempty,max=255"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Source  *string `json:"source,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// LeadResponse is the JSON shape of a lead.
type LeadResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Company      *string   `json:"company,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Source       *string   `json:"source,omitempty"`
	Status       string    `json:"status"`
	Score        int       `json:"score"`
	LastActivity time.Time `json:"lastActivity"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ListLeadsResponse is one page of leads plus pagination metadata.
type ListLeadsResponse struct {
	Leads []LeadResponse `json:"leads"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// FromDomain converts a domain lead to its JSON shape.
func FromDomain(l *domain.Lead) LeadResponse {
	resp := LeadResponse{
		ID:           l.ID.String(),
		UserID:       l.UserID.String(),
		Name:         l.Name,
		Email:        l.Email,
		Company:      l.Company,
		Phone:        l.Phone,
		Status:       string(l.Status),
		Score:        l.Score,
		LastActivity: l.LastActivity,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	if l.Source != nil {
		s := string(*l.Source)
		resp.Source = &s
	}
	return resp
}
