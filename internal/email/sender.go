// Package email renders and delivers outbound HTML email.
package email

import (
	"context"

	"axentra_crm_backend/internal/config"
	"axentra_crm_backend/platform/logger"
)

// Sender delivers the application's outbound email.
type Sender interface {
	// SendNotificationEmail delivers a free-form notification message.
	SendNotificationEmail(ctx context.Context, toEmail, subject, message string) error
	// SendFollowupEmail delivers an automated follow-up to a lead.
	SendFollowupEmail(ctx context.Context, toEmail, leadName, message string) error
	// SendWeeklyReportEmail delivers a user's weekly activity report.
	SendWeeklyReportEmail(ctx context.Context, toEmail, firstName, body string) error
}

// NewSender picks an email sender based on configuration. Without SMTP
// credentials or with email disabled it returns a logging no-op sender so the
// rest of the system keeps working in development.
func NewSender(cfg *config.Config, log *logger.Logger) Sender {
	if !cfg.EmailEnabled || cfg.SMTPHost == "" {
		log.Info("email delivery disabled, using noop sender")
		return &NoopSender{log: log}
	}
	return NewSMTPSender(
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword,
		cfg.EmailFromAddress, cfg.EmailFromName,
	)
}

// NoopSender logs instead of sending. Used when SMTP is not configured.
type NoopSender struct {
	log *logger.Logger
}

func (n *NoopSender) SendNotificationEmail(_ context.Context, toEmail, subject, _ string) error {
	n.log.Info("email skipped", "to", toEmail, "subject", subject)
	return nil
}

func (n *NoopSender) SendFollowupEmail(_ context.Context, toEmail, leadName, _ string) error {
	n.log.Info("followup email skipped", "to", toEmail, "lead", leadName)
	return nil
}

func (n *NoopSender) SendWeeklyReportEmail(_ context.Context, toEmail, _, _ string) error {
	n.log.Info("weekly report email skipped", "to", toEmail)
	return nil
}

var (
	_ Sender = (*NoopSender)(nil)
	_ Sender = (*SMTPSender)(nil)
)
