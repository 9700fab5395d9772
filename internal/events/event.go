// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"axentra_crm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created.
type LeadCreated struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Source string    `json:"source,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// =============================================================================
// Scoring Domain Events
// =============================================================================

// EngagementRecorded is published when an engagement event is appended to a
// lead's engagement history.
type EngagementRecorded struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	UserID     uuid.UUID `json:"userId"`
	EventType  string    `json:"eventType"`
	RecordedAt time.Time `json:"recordedAt"`
}

func (e EngagementRecorded) EventName() string { return "scoring.engagement.recorded" }

// =============================================================================
// Followup Domain Events
// =============================================================================

// FollowupGenerated is published when an automated follow-up message has been
// logged for an inactive lead. The notification module delivers it.
type FollowupGenerated struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	UserID    uuid.UUID `json:"userId"`
	LeadName  string    `json:"leadName"`
	LeadEmail string    `json:"leadEmail"`
	Message   string    `json:"message"`
}

func (e FollowupGenerated) EventName() string { return "followup.message.generated" }

// =============================================================================
// Reports Domain Events
// =============================================================================

// WeeklyReportReady is published when a user's weekly report has been
// generated and is ready for delivery.
type WeeklyReportReady struct {
	BaseEvent
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	Body      string    `json:"body"`
}

func (e WeeklyReportReady) EventName() string { return "reports.weekly.ready" }
