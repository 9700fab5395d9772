// Package engine implements the lead engagement scoring algorithm: a
// weighted, time-decayed aggregation of engagement events. It is pure
// computation with no I/O; the score is fully determined by the event
// history and the reference time passed in.
package engine

import (
	"math"
	"time"
)

// EventType identifies a tracked engagement interaction.
type EventType string

const (
	EventEmailOpen        EventType = "email_open"
	EventEmailClick       EventType = "email_click"
	EventEmailReply       EventType = "email_reply"
	EventCallAnswered     EventType = "call_answered"
	EventMeetingScheduled EventType = "meeting_scheduled"
)

const (
	// WindowDays bounds the relevance window: events older than this many
	// days contribute nothing, regardless of weight.
	WindowDays = 30

	// decayFloor keeps events near the window edge from decaying to zero,
	// so a lead idle for almost 30 days still retains some signal.
	decayFloor = 0.1
)

// Engagement is a single scored interaction.
type Engagement struct {
	Type       EventType
	OccurredAt time.Time
}

// Weight returns the base score contribution for an event type. Event types
// outside the known set score zero; ingestion is permissive so new types can
// be recorded before the scoring model learns about them.
func (t EventType) Weight() float64 {
	switch t {
	case EventEmailOpen:
		return 1
	case EventEmailClick:
		return 3
	case EventEmailReply:
		return 10
	case EventCallAnswered:
		return 15
	case EventMeetingScheduled:
		return 25
	default:
		return 0
	}
}

// DecayFactor returns the linear decay applied to an event that occurred the
// given number of whole days ago. Same-day events are undecayed (1.0) and the
// factor never drops below the floor inside the window.
func DecayFactor(daysSince int) float64 {
	if daysSince < 0 {
		daysSince = 0
	}
	decay := 1 - float64(daysSince)/WindowDays
	if decay < decayFloor {
		decay = decayFloor
	}
	return decay
}

// Score computes the decayed engagement score for a lead's event history,
// evaluated at the given reference time. Events outside the relevance window
// are excluded entirely; the rest contribute weight multiplied by decay over
// whole days elapsed. The accumulated sum is rounded half-up to an integer,
// so the result is always >= 0.
//
// The events may arrive in any order; insertion order is never trusted.
func Score(history []Engagement, now time.Time) int {
	cutoff := now.AddDate(0, 0, -WindowDays)

	var total float64
	for _, e := range history {
		if !e.OccurredAt.After(cutoff) {
			continue
		}

		daysSince := int(math.Floor(now.Sub(e.OccurredAt).Hours() / 24))
		total += e.Type.Weight() * DecayFactor(daysSince)
	}

	return int(math.Round(total))
}
