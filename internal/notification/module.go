// Package notification provides the multi-channel notification bounded
// context. Besides its HTTP surface it listens for follow-up and weekly
// report events and delivers them by email.
package notification

import (
	"context"
	"fmt"

	"axentra_crm_backend/internal/config"
	"axentra_crm_backend/internal/email"
	"axentra_crm_backend/internal/events"
	apphttp "axentra_crm_backend/internal/http"
	"axentra_crm_backend/internal/notification/handler"
	"axentra_crm_backend/internal/notification/repository"
	"axentra_crm_backend/internal/notification/service"
	"axentra_crm_backend/internal/sms"
	"axentra_crm_backend/internal/whatsapp"
	"axentra_crm_backend/platform/logger"
	"axentra_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the notification bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
	log     *logger.Logger
}

// NewModule creates and initializes the notification module with all its
// delivery channels.
func NewModule(pool *pgxpool.Pool, cfg *config.Config, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	emailSender := email.NewSender(cfg, log)
	waClient := whatsapp.NewClient(cfg, log)
	smsClient := sms.NewClient(log)

	// A nil *whatsapp.Client must stay a nil interface inside the service.
	var wa service.MessageSender
	if waClient != nil {
		wa = waClient
	}

	svc := service.New(repo, emailSender, wa, smsClient, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts notification routes on the authenticated route group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/notifications")
	group.POST("/send", m.handler.Send)
}

// SubscribeEvents wires the module to the domain events it delivers.
func (m *Module) SubscribeEvents(bus events.Bus) {
	bus.Subscribe(events.FollowupGenerated{}.EventName(), events.HandlerFunc(m.onFollowupGenerated))
	bus.Subscribe(events.WeeklyReportReady{}.EventName(), events.HandlerFunc(m.onWeeklyReportReady))
}

func (m *Module) onFollowupGenerated(ctx context.Context, evt events.Event) error {
	followup, ok := evt.(events.FollowupGenerated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", evt)
	}

	result, err := m.service.SendFollowup(ctx, followup.UserID, followup.LeadEmail, followup.LeadName, followup.Message)
	if err != nil {
		return err
	}
	m.log.Info("followup notification dispatched",
		"lead_id", followup.LeadID.String(), "status", result.Status)
	return nil
}

func (m *Module) onWeeklyReportReady(ctx context.Context, evt events.Event) error {
	report, ok := evt.(events.WeeklyReportReady)
	if !ok {
		return fmt.Errorf("unexpected event type %T", evt)
	}

	result, err := m.service.SendWeeklyReport(ctx, report.UserID, report.Email, report.FirstName, report.Body)
	if err != nil {
		return err
	}
	m.log.Info("weekly report notification dispatched",
		"user_id", report.UserID.String(), "status", result.Status)
	return nil
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
