// Package domain defines the lead aggregate and its value types.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the pipeline stage of a lead.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusProposal  Status = "proposal"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"
)

// Valid reports whether s is a known pipeline stage.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusProposal, StatusWon, StatusLost:
		return true
	}
	return false
}

// Source is the acquisition channel of a lead.
type Source string

const (
	SourceWebsite  Source = "website"
	SourceReferral Source = "referral"
	SourceSocial   Source = "social"
	SourceEmail    Source = "email"
	SourcePhone    Source = "phone"
	SourceEvent    Source = "event"
	SourceOther    Source = "other"
)

// Valid reports whether s is a known acquisition channel.
func (s Source) Valid() bool {
	switch s {
	case SourceWebsite, SourceReferral, SourceSocial, SourceEmail, SourcePhone, SourceEvent, SourceOther:
		return true
	}
	return false
}

// Lead is a sales prospect owned by a single user.
type Lead struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Name         string
	Email        string
	Company      *string
	Phone        *string
	Source       *Source
	Status       Status
	Score        int
	LastActivity time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
