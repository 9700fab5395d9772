package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"axentra_crm_backend/internal/scoring/repository"
	"axentra_crm_backend/platform/apperr"
	"axentra_crm_backend/platform/logger"

	"github.com/google/uuid"
)

var fixedNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

// fakeStore is an in-memory Repository for exercising the recorder and the
// batch recalculator without a database.
type fakeStore struct {
	mu sync.Mutex

	owners       map[uuid.UUID]uuid.UUID
	events       map[uuid.UUID][]repository.Engagement
	scores       map[uuid.UUID]int
	lastActivity map[uuid.UUID]time.Time

	listErr       error
	fetchErrFor   map[uuid.UUID]error
	updateErrFor  map[uuid.UUID]error
	fetchCountFor map[uuid.UUID]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		owners:        make(map[uuid.UUID]uuid.UUID),
		events:        make(map[uuid.UUID][]repository.Engagement),
		scores:        make(map[uuid.UUID]int),
		lastActivity:  make(map[uuid.UUID]time.Time),
		fetchErrFor:   make(map[uuid.UUID]error),
		updateErrFor:  make(map[uuid.UUID]error),
		fetchCountFor: make(map[uuid.UUID]int),
	}
}

func (f *fakeStore) addLead(userID uuid.UUID) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	leadID := uuid.New()
	f.owners[leadID] = userID
	return leadID
}

func (f *fakeStore) addEvent(leadID uuid.UUID, eventType string, occurredAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[leadID] = append(f.events[leadID], repository.Engagement{
		EventType:  eventType,
		OccurredAt: occurredAt,
	})
}

func (f *fakeStore) InsertEvent(_ context.Context, params repository.InsertEventParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[params.LeadID] = append(f.events[params.LeadID], repository.Engagement{
		EventType:  params.EventType,
		OccurredAt: params.OccurredAt,
	})
	return nil
}

func (f *fakeStore) FetchEvents(_ context.Context, leadID uuid.UUID) ([]repository.Engagement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCountFor[leadID]++
	if err := f.fetchErrFor[leadID]; err != nil {
		return nil, err
	}
	return append([]repository.Engagement(nil), f.events[leadID]...), nil
}

func (f *fakeStore) LeadOwnedBy(_ context.Context, leadID, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owner, ok := f.owners[leadID]
	return ok && owner == userID, nil
}

func (f *fakeStore) TouchLastActivity(_ context.Context, leadID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.owners[leadID]; !ok {
		return apperr.NotFound("lead not found")
	}
	f.lastActivity[leadID] = time.Now()
	return nil
}

func (f *fakeStore) ListLeadIDs(_ context.Context) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	ids := make([]uuid.UUID, 0, len(f.owners))
	for id := range f.owners {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeStore) UpdateLeadScore(_ context.Context, leadID uuid.UUID, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.updateErrFor[leadID]; err != nil {
		return err
	}
	f.scores[leadID] = score
	return nil
}

func (f *fakeStore) scoreOf(leadID uuid.UUID) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	score, ok := f.scores[leadID]
	return score, ok
}

func newTestRecalculator(store *fakeStore) *Recalculator {
	r := NewRecalculator(store, logger.New("development"), 4)
	r.now = func() time.Time { return fixedNow }
	return r
}

func TestRecomputeAll_LeadWithoutEventsScoresZero(t *testing.T) {
	store := newFakeStore()
	leadID := store.addLead(uuid.New())

	result, err := newTestRecalculator(store).RecomputeAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Updated != 1 {
		t.Fatalf("expected 1 updated lead, got %d", result.Updated)
	}

	score, ok := store.scoreOf(leadID)
	if !ok || score != 0 {
		t.Fatalf("expected score 0 written, got %d (written=%v)", score, ok)
	}
}

func TestRecomputeAll_WritesDecayedScores(t *testing.T) {
	store := newFakeStore()
	leadID := store.addLead(uuid.New())
	store.addEvent(leadID, "email_click", fixedNow.AddDate(0, 0, -3))
	store.addEvent(leadID, "email_reply", fixedNow.AddDate(0, 0, -29))
	store.addEvent(leadID, "meeting_scheduled", fixedNow.AddDate(0, 0, -45))

	if _, err := newTestRecalculator(store).RecomputeAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 3*0.9 + 10*0.1 = 3.7 -> 4; the 45-day-old meeting is outside the window.
	if score, _ := store.scoreOf(leadID); score != 4 {
		t.Fatalf("expected score 4, got %d", score)
	}
}

func TestRecomputeAll_FailedLeadDoesNotBlockOthers(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	healthy := store.addLead(userID)
	broken := store.addLead(userID)
	store.addEvent(healthy, "meeting_scheduled", fixedNow)
	store.fetchErrFor[broken] = errors.New("storage unavailable")

	result, err := newTestRecalculator(store).RecomputeAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Updated != 1 {
		t.Fatalf("expected updated count 1 excluding the failed lead, got %d", result.Updated)
	}

	if score, _ := store.scoreOf(healthy); score != 25 {
		t.Fatalf("expected healthy lead score 25, got %d", score)
	}
	if _, ok := store.scoreOf(broken); ok {
		t.Fatalf("expected no score written for the failed lead")
	}
}

func TestRecomputeAll_FailedWriteExcludedFromCount(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	healthy := store.addLead(userID)
	broken := store.addLead(userID)
	_ = healthy
	store.updateErrFor[broken] = errors.New("write refused")

	result, err := newTestRecalculator(store).RecomputeAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Updated != 1 {
		t.Fatalf("expected updated count 1, got %d", result.Updated)
	}
}

func TestRecomputeAll_EnumerationFailureAbortsRun(t *testing.T) {
	store := newFakeStore()
	leadID := store.addLead(uuid.New())
	store.listErr = errors.New("leads table unavailable")

	_, err := newTestRecalculator(store).RecomputeAll(context.Background())
	if err == nil {
		t.Fatalf("expected run-level error when enumeration fails")
	}
	if store.fetchCountFor[leadID] != 0 {
		t.Fatalf("expected no leads processed after enumeration failure")
	}
}

func TestRecomputeAll_Idempotent(t *testing.T) {
	store := newFakeStore()
	leadID := store.addLead(uuid.New())
	store.addEvent(leadID, "email_open", fixedNow.AddDate(0, 0, -15))
	store.addEvent(leadID, "call_answered", fixedNow.AddDate(0, 0, -1))

	recalc := newTestRecalculator(store)

	if _, err := recalc.RecomputeAll(context.Background()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	first, _ := store.scoreOf(leadID)

	if _, err := recalc.RecomputeAll(context.Background()); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	second, _ := store.scoreOf(leadID)

	if first != second {
		t.Fatalf("recompute not idempotent: %d then %d", first, second)
	}
}

func TestRecordEngagement_RejectsForeignLead(t *testing.T) {
	store := newFakeStore()
	leadID := store.addLead(uuid.New())

	recorder := NewRecorder(store, nil)
	err := recorder.RecordEngagement(context.Background(), uuid.New(), leadID, "email_open", nil)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected NotFound for foreign lead, got %v", err)
	}

	if len(store.events[leadID]) != 0 {
		t.Fatalf("expected no event written for rejected request")
	}
}

func TestRecordEngagement_AcceptsUnknownEventType(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	leadID := store.addLead(userID)

	recorder := NewRecorder(store, nil)
	err := recorder.RecordEngagement(context.Background(), userID, leadID, "carrier_pigeon", json.RawMessage(`{"note":"?"}`))
	if err != nil {
		t.Fatalf("unexpected error for unknown event type: %v", err)
	}

	if len(store.events[leadID]) != 1 || store.events[leadID][0].EventType != "carrier_pigeon" {
		t.Fatalf("expected unknown event type stored as-is")
	}
	if _, ok := store.lastActivity[leadID]; !ok {
		t.Fatalf("expected last activity refreshed")
	}
}
