package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"axentra_crm_backend/internal/events"
	"axentra_crm_backend/internal/reports/repository"
	"axentra_crm_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	mu sync.Mutex

	leadsCreated  int
	followupsSent int
	avgScore      float64
	total, won    int
	bySource      []repository.CountBySource
	byStatus      []repository.CountByStatus
	recipients    []repository.Recipient

	recipientsErr error
	createdErrFor map[uuid.UUID]error

	gotStart, gotEnd time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{createdErrFor: make(map[uuid.UUID]error)}
}

func (f *fakeStore) CountLeadsCreated(_ context.Context, userID uuid.UUID, start, end time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotStart, f.gotEnd = start, end
	if err := f.createdErrFor[userID]; err != nil {
		return 0, err
	}
	return f.leadsCreated, nil
}

func (f *fakeStore) CountFollowupsSent(context.Context, uuid.UUID, time.Time, time.Time) (int, error) {
	return f.followupsSent, nil
}

func (f *fakeStore) AverageScore(context.Context, uuid.UUID, time.Time) (float64, error) {
	return f.avgScore, nil
}

func (f *fakeStore) ConversionCounts(context.Context, uuid.UUID, time.Time, time.Time) (int, int, error) {
	return f.total, f.won, nil
}

func (f *fakeStore) LeadsBySource(context.Context, uuid.UUID, time.Time, time.Time) ([]repository.CountBySource, error) {
	return f.bySource, nil
}

func (f *fakeStore) LeadsByStatus(context.Context, uuid.UUID, time.Time, time.Time) ([]repository.CountByStatus, error) {
	return f.byStatus, nil
}

func (f *fakeStore) ListRecipients(context.Context) ([]repository.Recipient, error) {
	if f.recipientsErr != nil {
		return nil, f.recipientsErr
	}
	return f.recipients, nil
}

type captureBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *captureBus) Publish(_ context.Context, evt events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
}

func (b *captureBus) PublishSync(ctx context.Context, evt events.Event) error {
	b.Publish(ctx, evt)
	return nil
}

func (b *captureBus) Subscribe(string, events.Handler) {}

var fixedNow = time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

func newTestService(store *fakeStore, bus events.Bus) *Service {
	svc := New(store, bus, logger.New("test"))
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestGenerate_DefaultsToTrailingWeek(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)

	report, err := svc.Generate(context.Background(), uuid.New(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !report.Period.End.Equal(fixedNow) {
		t.Fatalf("end = %v, want %v", report.Period.End, fixedNow)
	}
	wantStart := fixedNow.AddDate(0, 0, -7)
	if !report.Period.Start.Equal(wantStart) {
		t.Fatalf("start = %v, want %v", report.Period.Start, wantStart)
	}
	if !store.gotStart.Equal(wantStart) || !store.gotEnd.Equal(fixedNow) {
		t.Fatalf("queried window = [%v, %v], want [%v, %v]", store.gotStart, store.gotEnd, wantStart, fixedNow)
	}
}

func TestGenerate_RoundsMetrics(t *testing.T) {
	store := newFakeStore()
	store.leadsCreated = 12
	store.followupsSent = 5
	store.avgScore = 17.5
	store.total = 3
	store.won = 1
	svc := newTestService(store, nil)

	report, err := svc.Generate(context.Background(), uuid.New(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if report.Metrics.AverageScore != 18 {
		t.Fatalf("average score = %d, want 18", report.Metrics.AverageScore)
	}
	// 1/3 = 33.333...%, kept to two decimals.
	if report.Metrics.ConversionRate != 33.33 {
		t.Fatalf("conversion rate = %v, want 33.33", report.Metrics.ConversionRate)
	}
}

func TestGenerate_NoLeadsZeroConversion(t *testing.T) {
	svc := newTestService(newFakeStore(), nil)

	report, err := svc.Generate(context.Background(), uuid.New(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if report.Metrics.ConversionRate != 0 {
		t.Fatalf("conversion rate = %v, want 0", report.Metrics.ConversionRate)
	}
}

func TestSendWeekly_PublishesPerUser(t *testing.T) {
	store := newFakeStore()
	store.leadsCreated = 2
	store.bySource = []repository.CountBySource{{Source: "referral", Count: 2}}
	store.byStatus = []repository.CountByStatus{{Status: "new", Count: 2}}
	store.recipients = []repository.Recipient{
		{ID: uuid.New(), Email: "ada@example.com", FirstName: "Ada"},
		{ID: uuid.New(), Email: "bob@example.com", FirstName: "Bob"},
	}
	bus := &captureBus{}
	svc := newTestService(store, bus)

	result, err := svc.SendWeekly(context.Background())
	if err != nil {
		t.Fatalf("SendWeekly: %v", err)
	}
	if result.Sent != 2 {
		t.Fatalf("sent = %d, want 2", result.Sent)
	}
	if len(bus.events) != 2 {
		t.Fatalf("published %d events, want 2", len(bus.events))
	}

	evt, ok := bus.events[0].(events.WeeklyReportReady)
	if !ok {
		t.Fatalf("event type = %T, want WeeklyReportReady", bus.events[0])
	}
	if evt.Email != "ada@example.com" || evt.FirstName != "Ada" {
		t.Fatalf("recipient = %q/%q, want ada@example.com/Ada", evt.Email, evt.FirstName)
	}
	for _, fragment := range []string{"Hi Ada,", "Leads Created: 2", "referral: 2", "new: 2"} {
		if !strings.Contains(evt.Body, fragment) {
			t.Fatalf("body missing %q:\n%s", fragment, evt.Body)
		}
	}
}

func TestSendWeekly_FailedUserSkipped(t *testing.T) {
	store := newFakeStore()
	broken := repository.Recipient{ID: uuid.New(), Email: "x@example.com", FirstName: "X"}
	healthy := repository.Recipient{ID: uuid.New(), Email: "y@example.com", FirstName: "Y"}
	store.recipients = []repository.Recipient{broken, healthy}
	store.createdErrFor[broken.ID] = errors.New("query failed")
	bus := &captureBus{}
	svc := newTestService(store, bus)

	result, err := svc.SendWeekly(context.Background())
	if err != nil {
		t.Fatalf("SendWeekly: %v", err)
	}
	if result.Sent != 1 || len(bus.events) != 1 {
		t.Fatalf("sent = %d events = %d, want 1 and 1", result.Sent, len(bus.events))
	}
}

func TestSendWeekly_EnumerationFailureAborts(t *testing.T) {
	store := newFakeStore()
	store.recipientsErr = errors.New("db down")
	svc := newTestService(store, nil)

	if _, err := svc.SendWeekly(context.Background()); err == nil {
		t.Fatal("expected error when recipient enumeration fails")
	}
}
