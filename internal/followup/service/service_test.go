package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"axentra_crm_backend/internal/events"
	"axentra_crm_backend/internal/followup/repository"
	"axentra_crm_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	mu       sync.Mutex
	inactive []repository.InactiveLead
	listErr  error

	insertErrFor map[uuid.UUID]error
	logged       map[uuid.UUID]string
	touched      map[uuid.UUID]int

	gotCutoff time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		insertErrFor: make(map[uuid.UUID]error),
		logged:       make(map[uuid.UUID]string),
		touched:      make(map[uuid.UUID]int),
	}
}

func (f *fakeStore) ListInactiveLeads(_ context.Context, cutoff time.Time) ([]repository.InactiveLead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotCutoff = cutoff
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.inactive, nil
}

func (f *fakeStore) InsertFollowupLog(_ context.Context, leadID uuid.UUID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.insertErrFor[leadID]; err != nil {
		return err
	}
	f.logged[leadID] = message
	return nil
}

func (f *fakeStore) TouchLastActivity(_ context.Context, leadID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched[leadID]++
	return nil
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

func (b *captureBus) PublishSync(_ context.Context, evt events.Event) error {
	b.Publish(context.Background(), evt)
	return nil
}

func (b *captureBus) Subscribe(string, events.Handler) {}

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestService(store *fakeStore, bus events.Bus) *Service {
	svc := New(store, bus, logger.New("test"))
	svc.now = func() time.Time { return fixedNow }
	svc.pick = func(int) int { return 0 }
	return svc
}

func strPtr(s string) *string { return &s }

func inactiveLead(name string, company *string) repository.InactiveLead {
	return repository.InactiveLead{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Name:    name,
		Email:   strings.ToLower(name) + "@example.com",
		Company: company,
	}
}

func TestProcessInactiveLeads_UsesThreeDayCutoff(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)

	if _, err := svc.ProcessInactiveLeads(context.Background()); err != nil {
		t.Fatalf("ProcessInactiveLeads: %v", err)
	}

	want := fixedNow.AddDate(0, 0, -3)
	if !store.gotCutoff.Equal(want) {
		t.Fatalf("cutoff = %v, want %v", store.gotCutoff, want)
	}
}

func TestProcessInactiveLeads_LogsAndPublishes(t *testing.T) {
	store := newFakeStore()
	lead := inactiveLead("Ada", strPtr("Initech"))
	store.inactive = []repository.InactiveLead{lead}
	bus := &captureBus{}
	svc := newTestService(store, bus)

	result, err := svc.ProcessInactiveLeads(context.Background())
	if err != nil {
		t.Fatalf("ProcessInactiveLeads: %v", err)
	}
	if result.Processed != 1 || result.Sent != 1 {
		t.Fatalf("result = %+v, want processed 1 sent 1", result)
	}

	message := store.logged[lead.ID]
	if !strings.Contains(message, "Hi Ada,") {
		t.Fatalf("message not personalized: %q", message)
	}
	if !strings.Contains(message, "particularly valuable for Initech") {
		t.Fatalf("message missing company line: %q", message)
	}
	if store.touched[lead.ID] != 1 {
		t.Fatalf("last activity touched %d times, want 1", store.touched[lead.ID])
	}

	if len(bus.events) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.events))
	}
	evt, ok := bus.events[0].(events.FollowupGenerated)
	if !ok {
		t.Fatalf("event type = %T, want FollowupGenerated", bus.events[0])
	}
	if evt.LeadID != lead.ID || evt.Message != message {
		t.Fatalf("unexpected event payload: %+v", evt)
	}
}

func TestProcessInactiveLeads_NoCompanyOmitsCompanyLine(t *testing.T) {
	store := newFakeStore()
	lead := inactiveLead("Bob", nil)
	store.inactive = []repository.InactiveLead{lead}
	svc := newTestService(store, nil)

	if _, err := svc.ProcessInactiveLeads(context.Background()); err != nil {
		t.Fatalf("ProcessInactiveLeads: %v", err)
	}
	if strings.Contains(store.logged[lead.ID], "particularly valuable") {
		t.Fatalf("unexpected company line: %q", store.logged[lead.ID])
	}
}

func TestProcessInactiveLeads_FailedLeadSkipped(t *testing.T) {
	store := newFakeStore()
	broken := inactiveLead("Carol", nil)
	healthy := inactiveLead("Dan", nil)
	store.inactive = []repository.InactiveLead{broken, healthy}
	store.insertErrFor[broken.ID] = errors.New("insert failed")
	svc := newTestService(store, nil)

	result, err := svc.ProcessInactiveLeads(context.Background())
	if err != nil {
		t.Fatalf("ProcessInactiveLeads: %v", err)
	}
	if result.Processed != 2 || result.Sent != 1 {
		t.Fatalf("result = %+v, want processed 2 sent 1", result)
	}
	if _, ok := store.logged[healthy.ID]; !ok {
		t.Fatal("healthy lead was not processed")
	}
	if store.touched[broken.ID] != 0 {
		t.Fatal("failed lead should not have activity touched")
	}
}

func TestProcessInactiveLeads_ListFailureAborts(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("db down")
	svc := newTestService(store, nil)

	if _, err := svc.ProcessInactiveLeads(context.Background()); err == nil {
		t.Fatal("expected error when enumeration fails")
	}
}
