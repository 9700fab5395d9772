// Package service generates automated follow-up messages for leads that have
// gone quiet early in the pipeline.
package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"axentra_crm_backend/internal/events"
	"axentra_crm_backend/internal/followup/repository"
	"axentra_crm_backend/platform/logger"
)

// InactivityDays is how long a lead may sit without activity before an
// automated follow-up is generated.
const InactivityDays = 3

var messageTemplates = []string{
	"Hi %s, I wanted to follow up on our previous conversation. Are you still interested in learning more about our solution?",
	"Hello %s, I hope you're doing well. I wanted to check if you had any questions about our proposal.",
	"Hi %s, I noticed we haven't connected in a few days. Would you like to schedule a quick call to discuss your needs?",
}

// Service finds inactive leads and generates follow-up messages for them.
type Service struct {
	repo repository.Store
	bus  events.Bus
	log  *logger.Logger
	now  func() time.Time
	pick func(n int) int
}

// New creates a followup service.
func New(repo repository.Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo: repo,
		bus:  bus,
		log:  log,
		now:  time.Now,
		pick: rand.Intn,
	}
}

// Result summarizes one follow-up run.
type Result struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
}

// composeMessage picks a template and personalizes it with the lead's name,
// appending a company line when one is known.
func (s *Service) composeMessage(name string, company *string) string {
	message := fmt.Sprintf(messageTemplates[s.pick(len(messageTemplates))], name)
	if company != nil && *company != "" {
		message += fmt.Sprintf(" I believe our solution could be particularly valuable for %s.", *company)
	}
	return message
}

// ProcessInactiveLeads generates and logs a follow-up for every eligible
// lead. A failure on one lead is logged and skipped so the rest of the run
// proceeds. Each follow-up resets the lead's last activity, keeping the lead
// out of the next run's candidate set.
func (s *Service) ProcessInactiveLeads(ctx context.Context) (*Result, error) {
	started := s.now()
	cutoff := started.AddDate(0, 0, -InactivityDays)

	leads, err := s.repo.ListInactiveLeads(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	sent := 0
	for _, lead := range leads {
		message := s.composeMessage(lead.Name, lead.Company)

		if err := s.repo.InsertFollowupLog(ctx, lead.ID, message); err != nil {
			s.log.Error("followup skipped", "lead_id", lead.ID.String(), "error", err)
			continue
		}
		if err := s.repo.TouchLastActivity(ctx, lead.ID); err != nil {
			s.log.Error("followup activity update failed", "lead_id", lead.ID.String(), "error", err)
		}

		if s.bus != nil {
			s.bus.Publish(ctx, events.FollowupGenerated{
				BaseEvent: events.NewBaseEvent(),
				LeadID:    lead.ID,
				UserID:    lead.UserID,
				LeadName:  lead.Name,
				LeadEmail: lead.Email,
				Message:   message,
			})
		}
		sent++
	}

	s.log.JobRun("followup_process", sent, float64(time.Since(started).Milliseconds()))
	return &Result{Processed: len(leads), Sent: sent}, nil
}
