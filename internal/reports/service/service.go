// Package service builds per-user activity reports and drives the weekly
// report distribution.
package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"axentra_crm_backend/internal/events"
	"axentra_crm_backend/internal/reports/repository"
	"axentra_crm_backend/platform/logger"

	"github.com/google/uuid"
)

// reportPeriodDays is the default reporting window when none is given.
const reportPeriodDays = 7

// Period is the reporting window of a generated report.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Metrics are the headline numbers of a report.
type Metrics struct {
	LeadsCreated   int     `json:"leadsCreated"`
	FollowupsSent  int     `json:"followupsSent"`
	AverageScore   int     `json:"averageScore"`
	ConversionRate float64 `json:"conversionRate"`
}

// Report is a full per-user activity report.
type Report struct {
	Period        Period                     `json:"period"`
	Metrics       Metrics                    `json:"metrics"`
	LeadsBySource []repository.CountBySource `json:"leadsBySource"`
	LeadsByStatus []repository.CountByStatus `json:"leadsByStatus"`
}

// Service generates reports and distributes them on the weekly schedule.
type Service struct {
	repo repository.Store
	bus  events.Bus
	log  *logger.Logger
	now  func() time.Time
}

// New creates a reports service.
func New(repo repository.Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log, now: time.Now}
}

// Generate builds a report for userID over [start, end]. Zero times default
// to the trailing seven days ending now.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID, start, end time.Time) (*Report, error) {
	if end.IsZero() {
		end = s.now().UTC()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -reportPeriodDays)
	}

	leadsCreated, err := s.repo.CountLeadsCreated(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	followupsSent, err := s.repo.CountFollowupsSent(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	averageScore, err := s.repo.AverageScore(ctx, userID, end)
	if err != nil {
		return nil, err
	}
	total, won, err := s.repo.ConversionCounts(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	bySource, err := s.repo.LeadsBySource(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.LeadsByStatus(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	var conversionRate float64
	if total > 0 {
		conversionRate = float64(won) / float64(total) * 100
	}

	return &Report{
		Period: Period{Start: start, End: end},
		Metrics: Metrics{
			LeadsCreated:   leadsCreated,
			FollowupsSent:  followupsSent,
			AverageScore:   int(math.Round(averageScore)),
			ConversionRate: math.Round(conversionRate*100) / 100,
		},
		LeadsBySource: bySource,
		LeadsByStatus: byStatus,
	}, nil
}

// WeeklyResult summarizes one weekly distribution run.
type WeeklyResult struct {
	Sent int `json:"sent"`
}

// SendWeekly generates last week's report for every user and publishes a
// delivery event per user. A failure for one user is logged and skipped.
func (s *Service) SendWeekly(ctx context.Context) (*WeeklyResult, error) {
	started := s.now()

	users, err := s.repo.ListRecipients(ctx)
	if err != nil {
		return nil, err
	}

	sent := 0
	for _, user := range users {
		report, err := s.Generate(ctx, user.ID, time.Time{}, time.Time{})
		if err != nil {
			s.log.Error("weekly report skipped", "user_id", user.ID.String(), "error", err)
			continue
		}

		if s.bus != nil {
			s.bus.Publish(ctx, events.WeeklyReportReady{
				BaseEvent: events.NewBaseEvent(),
				UserID:    user.ID,
				Email:     user.Email,
				FirstName: user.FirstName,
				Body:      composeWeeklyBody(user.FirstName, report),
			})
		}
		sent++
	}

	s.log.JobRun("weekly_reports", sent, float64(time.Since(started).Milliseconds()))
	return &WeeklyResult{Sent: sent}, nil
}

func composeWeeklyBody(firstName string, report *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s,\n\n", firstName)
	b.WriteString("Here's your weekly CRM report:\n\n")
	b.WriteString("Metrics:\n")
	fmt.Fprintf(&b, "- Leads Created: %d\n", report.Metrics.LeadsCreated)
	fmt.Fprintf(&b, "- Follow-ups Sent: %d\n", report.Metrics.FollowupsSent)
	fmt.Fprintf(&b, "- Average Lead Score: %d\n", report.Metrics.AverageScore)
	fmt.Fprintf(&b, "- Conversion Rate: %.2f%%\n", report.Metrics.ConversionRate)

	if len(report.LeadsBySource) > 0 {
		b.WriteString("\nLeads by Source:\n")
		for _, item := range report.LeadsBySource {
			fmt.Fprintf(&b, "- %s: %d\n", item.Source, item.Count)
		}
	}
	if len(report.LeadsByStatus) > 0 {
		b.WriteString("\nLeads by Status:\n")
		for _, item := range report.LeadsByStatus {
			fmt.Fprintf(&b, "- %s: %d\n", item.Status, item.Count)
		}
	}

	fmt.Fprintf(&b, "\nPeriod: %s - %s\n",
		report.Period.Start.Format("Jan 2, 2006"),
		report.Period.End.Format("Jan 2, 2006"))
	b.WriteString("\nBest regards,\nAxentra CRM\n")

	return b.String()
}
