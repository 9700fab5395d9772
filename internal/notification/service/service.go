// Package service dispatches notifications across delivery channels and
// records every attempt in the notification log.
package service

import (
	"context"
	"time"

	"axentra_crm_backend/internal/email"
	"axentra_crm_backend/internal/notification/repository"
	"axentra_crm_backend/platform/apperr"
	"axentra_crm_backend/platform/logger"

	"github.com/google/uuid"
)

// Channels a notification can be delivered over.
const (
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
	ChannelSMS      = "sms"
)

// MessageSender delivers a plain text message to a phone number. Both the
// WhatsApp gateway client and the SMS client satisfy it.
type MessageSender interface {
	SendMessage(ctx context.Context, phoneNumber string, message string) error
}

// Service routes notifications to their channel and tracks delivery state.
type Service struct {
	repo     repository.Store
	email    email.Sender
	whatsapp MessageSender
	sms      MessageSender
	log      *logger.Logger
	now      func() time.Time
}

// New creates a notification service. whatsapp may be nil when no gateway is
// configured; sends on that channel then fail and are logged as such.
func New(repo repository.Store, emailSender email.Sender, whatsapp, sms MessageSender, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		email:    emailSender,
		whatsapp: whatsapp,
		sms:      sms,
		log:      log,
		now:      time.Now,
	}
}

// SendInput describes one notification to deliver.
type SendInput struct {
	UserID    uuid.UUID
	Message   string
	Channel   string
	Recipient string
	Subject   string
}

// SendResult reports the log entry and final status of a send.
type SendResult struct {
	ID     uuid.UUID
	Status string
}

// Send logs the attempt, delivers over the requested channel, and records
// the outcome. An unknown channel fails the log entry and returns a bad
// request error.
func (s *Service) Send(ctx context.Context, in SendInput) (*SendResult, error) {
	const op = "notification.service.Send"

	logID, err := s.repo.CreateLog(ctx, in.UserID, in.Message, in.Channel, in.Recipient)
	if err != nil {
		return nil, err
	}

	var sendErr error
	switch in.Channel {
	case ChannelEmail:
		sendErr = s.email.SendNotificationEmail(ctx, in.Recipient, in.Subject, in.Message)
	case ChannelWhatsApp:
		if s.whatsapp == nil {
			sendErr = apperr.Internal("whatsapp gateway not configured")
		} else {
			sendErr = s.whatsapp.SendMessage(ctx, in.Recipient, in.Message)
		}
	case ChannelSMS:
		sendErr = s.sms.SendMessage(ctx, in.Recipient, in.Message)
	default:
		if markErr := s.repo.MarkFailed(ctx, logID, "unsupported notification channel"); markErr != nil {
			s.log.DatabaseError("notification.mark_failed", markErr)
		}
		return nil, apperr.BadRequest("unsupported notification channel").WithOp(op)
	}

	return s.finish(ctx, logID, in.Channel, sendErr), nil
}

// SendFollowup delivers an automated follow-up to a lead through the
// dedicated follow-up email template, logged like any other notification.
func (s *Service) SendFollowup(ctx context.Context, userID uuid.UUID, leadEmail, leadName, message string) (*SendResult, error) {
	logID, err := s.repo.CreateLog(ctx, userID, message, ChannelEmail, leadEmail)
	if err != nil {
		return nil, err
	}

	sendErr := s.email.SendFollowupEmail(ctx, leadEmail, leadName, message)
	return s.finish(ctx, logID, ChannelEmail, sendErr), nil
}

// SendWeeklyReport delivers a user's weekly report through the dedicated
// report email template, logged like any other notification.
func (s *Service) SendWeeklyReport(ctx context.Context, userID uuid.UUID, email, firstName, body string) (*SendResult, error) {
	logID, err := s.repo.CreateLog(ctx, userID, body, ChannelEmail, email)
	if err != nil {
		return nil, err
	}

	sendErr := s.email.SendWeeklyReportEmail(ctx, email, firstName, body)
	return s.finish(ctx, logID, ChannelEmail, sendErr), nil
}

// finish records the delivery outcome on the log entry.
func (s *Service) finish(ctx context.Context, logID uuid.UUID, channel string, sendErr error) *SendResult {
	if sendErr != nil {
		s.log.Error("notification delivery failed",
			"channel", channel, "log_id", logID.String(), "error", sendErr)
		if markErr := s.repo.MarkFailed(ctx, logID, sendErr.Error()); markErr != nil {
			s.log.DatabaseError("notification.mark_failed", markErr)
		}
		return &SendResult{ID: logID, Status: repository.StatusFailed}
	}

	if err := s.repo.MarkSent(ctx, logID, s.now().UTC()); err != nil {
		s.log.DatabaseError("notification.mark_sent", err)
	}
	return &SendResult{ID: logID, Status: repository.StatusSent}
}
