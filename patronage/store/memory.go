package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/commonshare/lib-patronage/patronage"
	"github.com/commonshare/lib-patronage/patronage/event"
)

// Memory is an in-memory event log. It is safe for concurrent use and is
// the default backend for tests and callers that pre-fetch events
// themselves.
type Memory struct {
	mu     sync.RWMutex
	events []event.Envelope
	seen   map[uuid.UUID]struct{}
}

// NewMemory creates an empty in-memory event log.
func NewMemory() *Memory {
	return &Memory{seen: make(map[uuid.UUID]struct{})}
}

// Append stores new events, rejecting duplicates by event id.
func (m *Memory) Append(_ context.Context, events ...event.Envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	inBatch := make(map[uuid.UUID]struct{}, len(events))

	for _, e := range events {
		if e.EventID == uuid.Nil {
			return patronage.NewDomainError(patronage.ErrorInvalidInput, "eventId", "event id is required")
		}

		if _, dup := m.seen[e.EventID]; dup {
			return patronage.NewDomainError(patronage.ErrorDataCorruption, "eventId",
				"event "+e.EventID.String()+" was already appended; upstream deduplication is broken")
		}

		if _, dup := inBatch[e.EventID]; dup {
			return patronage.NewDomainError(patronage.ErrorDataCorruption, "eventId",
				"event "+e.EventID.String()+" appears twice in one append")
		}

		inBatch[e.EventID] = struct{}{}

		if strings.TrimSpace(e.MemberID) == "" {
			return patronage.NewDomainError(patronage.ErrorInvalidInput, "memberId", "member id is required")
		}
	}

	for _, e := range events {
		m.seen[e.EventID] = struct{}{}
		m.events = append(m.events, e)
	}

	return nil
}

// AllEvents returns every stored event in replay order.
func (m *Memory) AllEvents(_ context.Context) ([]event.Envelope, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return event.Sort(m.events), nil
}

// EventsByMember returns a member's events in replay order.
func (m *Memory) EventsByMember(_ context.Context, memberID string) ([]event.Envelope, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return event.Sort(event.FilterByMember(m.events, memberID)), nil
}

// EventsInRange returns events with from ≤ timestamp ≤ to in replay order.
func (m *Memory) EventsInRange(_ context.Context, from, to time.Time) ([]event.Envelope, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []event.Envelope

	for _, e := range m.events {
		if !e.Timestamp.Before(from) && !e.Timestamp.After(to) {
			matched = append(matched, e)
		}
	}

	return event.Sort(matched), nil
}
