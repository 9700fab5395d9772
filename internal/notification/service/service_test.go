package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"axentra_crm_backend/internal/notification/repository"
	"axentra_crm_backend/platform/apperr"
	"axentra_crm_backend/platform/logger"

	"github.com/google/uuid"
)

type logEntry struct {
	status       string
	errorMessage string
	sentAt       *time.Time
}

type fakeStore struct {
	mu   sync.Mutex
	logs map[uuid.UUID]*logEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{logs: make(map[uuid.UUID]*logEntry)}
}

func (f *fakeStore) CreateLog(_ context.Context, _ uuid.UUID, _, _, _ string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.logs[id] = &logEntry{status: repository.StatusPending}
	return id, nil
}

func (f *fakeStore) MarkSent(_ context.Context, id uuid.UUID, sentAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs[id].status = repository.StatusSent
	f.logs[id].sentAt = &sentAt
	return nil
}

func (f *fakeStore) MarkFailed(_ context.Context, id uuid.UUID, errorMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs[id].status = repository.StatusFailed
	f.logs[id].errorMessage = errorMessage
	return nil
}

type fakeEmail struct {
	err error

	notificationCalls int
	followupCalls     int
	reportCalls       int
}

func (f *fakeEmail) SendNotificationEmail(context.Context, string, string, string) error {
	f.notificationCalls++
	return f.err
}

func (f *fakeEmail) SendFollowupEmail(context.Context, string, string, string) error {
	f.followupCalls++
	return f.err
}

func (f *fakeEmail) SendWeeklyReportEmail(context.Context, string, string, string) error {
	f.reportCalls++
	return f.err
}

type fakeMessenger struct {
	err   error
	calls int
}

func (f *fakeMessenger) SendMessage(context.Context, string, string) error {
	f.calls++
	return f.err
}

func newTestService(store *fakeStore, mail *fakeEmail, wa, smsClient MessageSender) *Service {
	svc := New(store, mail, wa, smsClient, logger.New("test"))
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestSend_EmailSuccessMarksSent(t *testing.T) {
	store := newFakeStore()
	mail := &fakeEmail{}
	svc := newTestService(store, mail, nil, &fakeMessenger{})

	result, err := svc.Send(context.Background(), SendInput{
		UserID:    uuid.New(),
		Message:   "hello",
		Channel:   ChannelEmail,
		Recipient: "lead@example.com",
		Subject:   "Hi",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if result.Status != repository.StatusSent {
		t.Fatalf("status = %q, want sent", result.Status)
	}
	if mail.notificationCalls != 1 {
		t.Fatalf("email calls = %d, want 1", mail.notificationCalls)
	}

	entry := store.logs[result.ID]
	if entry.status != repository.StatusSent || entry.sentAt == nil {
		t.Fatalf("log entry = %+v, want sent with timestamp", entry)
	}
}

func TestSend_DeliveryFailureMarksFailedWithoutError(t *testing.T) {
	store := newFakeStore()
	mail := &fakeEmail{err: errors.New("smtp connection refused")}
	svc := newTestService(store, mail, nil, &fakeMessenger{})

	result, err := svc.Send(context.Background(), SendInput{
		UserID:    uuid.New(),
		Message:   "hello",
		Channel:   ChannelEmail,
		Recipient: "lead@example.com",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if result.Status != repository.StatusFailed {
		t.Fatalf("status = %q, want failed", result.Status)
	}

	entry := store.logs[result.ID]
	if entry.status != repository.StatusFailed || entry.errorMessage != "smtp connection refused" {
		t.Fatalf("log entry = %+v, want failed with reason", entry)
	}
}

func TestSend_UnknownChannelRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeEmail{}, nil, &fakeMessenger{})

	_, err := svc.Send(context.Background(), SendInput{
		UserID:    uuid.New(),
		Message:   "hello",
		Channel:   "pager",
		Recipient: "555-1234",
	})
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Fatalf("kind = %v, want bad request", apperr.GetKind(err))
	}

	// The attempt is still recorded as failed.
	if len(store.logs) != 1 {
		t.Fatalf("log count = %d, want 1", len(store.logs))
	}
	for _, entry := range store.logs {
		if entry.status != repository.StatusFailed {
			t.Fatalf("log status = %q, want failed", entry.status)
		}
	}
}

func TestSend_WhatsAppWithoutGatewayFails(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeEmail{}, nil, &fakeMessenger{})

	result, err := svc.Send(context.Background(), SendInput{
		UserID:    uuid.New(),
		Message:   "hello",
		Channel:   ChannelWhatsApp,
		Recipient: "+14155552671",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if result.Status != repository.StatusFailed {
		t.Fatalf("status = %q, want failed", result.Status)
	}
}

func TestSend_SMSUsesStubChannel(t *testing.T) {
	store := newFakeStore()
	smsClient := &fakeMessenger{}
	svc := newTestService(store, &fakeEmail{}, nil, smsClient)

	result, err := svc.Send(context.Background(), SendInput{
		UserID:    uuid.New(),
		Message:   "hello",
		Channel:   ChannelSMS,
		Recipient: "+14155552671",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if result.Status != repository.StatusSent || smsClient.calls != 1 {
		t.Fatalf("status = %q calls = %d, want sent and 1 call", result.Status, smsClient.calls)
	}
}

func TestSendFollowup_UsesFollowupTemplate(t *testing.T) {
	store := newFakeStore()
	mail := &fakeEmail{}
	svc := newTestService(store, mail, nil, &fakeMessenger{})

	result, err := svc.SendFollowup(context.Background(), uuid.New(), "lead@example.com", "Ada", "checking in")
	if err != nil {
		t.Fatalf("SendFollowup: %v", err)
	}
	if result.Status != repository.StatusSent {
		t.Fatalf("status = %q, want sent", result.Status)
	}
	if mail.followupCalls != 1 || mail.notificationCalls != 0 {
		t.Fatalf("followup calls = %d notification calls = %d, want 1 and 0",
			mail.followupCalls, mail.notificationCalls)
	}

	entry := store.logs[result.ID]
	if entry.status != repository.StatusSent || entry.sentAt == nil {
		t.Fatalf("log entry = %+v, want sent with timestamp", entry)
	}
}

func TestSendFollowup_FailureMarkedFailed(t *testing.T) {
	store := newFakeStore()
	mail := &fakeEmail{err: errors.New("smtp timeout")}
	svc := newTestService(store, mail, nil, &fakeMessenger{})

	result, err := svc.SendFollowup(context.Background(), uuid.New(), "lead@example.com", "Ada", "checking in")
	if err != nil {
		t.Fatalf("SendFollowup: %v", err)
	}
	if result.Status != repository.StatusFailed {
		t.Fatalf("status = %q, want failed", result.Status)
	}
	if store.logs[result.ID].errorMessage != "smtp timeout" {
		t.Fatalf("log entry = %+v, want failure reason recorded", store.logs[result.ID])
	}
}

func TestSendWeeklyReport_UsesReportTemplate(t *testing.T) {
	store := newFakeStore()
	mail := &fakeEmail{}
	svc := newTestService(store, mail, nil, &fakeMessenger{})

	result, err := svc.SendWeeklyReport(context.Background(), uuid.New(), "ada@example.com", "Ada", "Hi Ada, here are your numbers")
	if err != nil {
		t.Fatalf("SendWeeklyReport: %v", err)
	}
	if result.Status != repository.StatusSent {
		t.Fatalf("status = %q, want sent", result.Status)
	}
	if mail.reportCalls != 1 || mail.notificationCalls != 0 {
		t.Fatalf("report calls = %d notification calls = %d, want 1 and 0",
			mail.reportCalls, mail.notificationCalls)
	}
}
