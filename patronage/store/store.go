package store

import (
	"context"
	"time"

	"github.com/commonshare/lib-patronage/patronage/event"
)

// Repository is the append-only event log surface. The backend is chosen
// once at construction (Memory or Postgres), never re-detected per call.
// There is deliberately no update or delete: events are immutable.
type Repository interface {
	// Append stores new events. Appending an event id that already exists
	// is rejected: deduplication belongs to the upstream bus consumer, and
	// a duplicate reaching the log is a correctness bug there.
	Append(ctx context.Context, events ...event.Envelope) error

	// AllEvents returns every stored event in replay order.
	AllEvents(ctx context.Context) ([]event.Envelope, error)

	// EventsByMember returns a member's events in replay order.
	EventsByMember(ctx context.Context, memberID string) ([]event.Envelope, error)

	// EventsInRange returns events with from ≤ timestamp ≤ to in replay order.
	EventsInRange(ctx context.Context, from, to time.Time) ([]event.Envelope, error)
}
