package event

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/commonshare/lib-patronage/patronage"
)

// Type identifies the kind of domain event recorded in the log.
type Type string

const (
	// TypeCapitalContribution records a member paying capital in.
	TypeCapitalContribution Type = "CAPITAL_CONTRIBUTION"
	// TypeAllocationApproved records a patronage allocation approved for a member.
	TypeAllocationApproved Type = "ALLOCATION_APPROVED"
	// TypeDistributionCompleted records a cash distribution paid out.
	TypeDistributionCompleted Type = "DISTRIBUTION_COMPLETED"
	// TypeCapitalWithdrawal records a member withdrawing contributed capital.
	TypeCapitalWithdrawal Type = "CAPITAL_WITHDRAWAL"
)

// Envelope is an immutable domain event. Events are created once by
// upstream domain actions and never mutated or deleted; they are the sole
// mutation source for every derived balance.
type Envelope struct {
	EventID   uuid.UUID       `json:"eventId"`
	Type      Type            `json:"eventType"`
	Timestamp time.Time       `json:"timestamp"`
	MemberID  string          `json:"memberId"`
	Amount    decimal.Decimal `json:"amount"`
	Metadata  map[string]any  `json:"metadata,omitempty"`
}

// New creates a validated event envelope with a fresh event id.
func New(eventType Type, memberID string, amount decimal.Decimal, at time.Time, metadata map[string]any) (Envelope, error) {
	return NewWithID(uuid.New(), eventType, memberID, amount, at, metadata)
}

// NewWithID creates a validated event envelope with a caller-provided id.
// Upstream consumers that deduplicate under at-least-once delivery supply
// their own ids so replays of the same delivery collapse.
func NewWithID(eventID uuid.UUID, eventType Type, memberID string, amount decimal.Decimal, at time.Time, metadata map[string]any) (Envelope, error) {
	if eventID == uuid.Nil {
		return Envelope{}, patronage.NewDomainError(patronage.ErrorInvalidInput, "eventId", "event id is required")
	}

	if strings.TrimSpace(string(eventType)) == "" {
		return Envelope{}, patronage.NewDomainError(patronage.ErrorInvalidInput, "eventType", "event type is required")
	}

	if strings.TrimSpace(memberID) == "" {
		return Envelope{}, patronage.NewDomainError(patronage.ErrorInvalidInput, "memberId", "member id is required")
	}

	if amount.IsNegative() {
		return Envelope{}, patronage.NewDomainError(patronage.ErrorInvalidInput, "amount", "amount must not be negative")
	}

	if at.IsZero() {
		return Envelope{}, patronage.NewDomainError(patronage.ErrorInvalidInput, "timestamp", "timestamp is required")
	}

	return Envelope{
		EventID:   eventID,
		Type:      eventType,
		Timestamp: at.UTC(),
		MemberID:  memberID,
		Amount:    amount,
		Metadata:  metadata,
	}, nil
}

// Sort orders events for replay: by timestamp, then event id as the
// tiebreaker so replay order is total. The upstream feed does not guarantee
// order, so every fold re-sorts. The input slice is not modified; a sorted
// copy is returned.
func Sort(events []Envelope) []Envelope {
	sorted := make([]Envelope, len(events))
	copy(sorted, events)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].EventID.String() < sorted[j].EventID.String()
		}

		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	return sorted
}

// FilterUpTo returns the events with a timestamp at or before cutoff.
func FilterUpTo(events []Envelope, cutoff time.Time) []Envelope {
	var filtered []Envelope

	for _, e := range events {
		if !e.Timestamp.After(cutoff) {
			filtered = append(filtered, e)
		}
	}

	return filtered
}

// FilterByMember returns the events belonging to the given member.
func FilterByMember(events []Envelope, memberID string) []Envelope {
	var filtered []Envelope

	for _, e := range events {
		if e.MemberID == memberID {
			filtered = append(filtered, e)
		}
	}

	return filtered
}

// PartitionByMember groups events by member id. Folds over the partitions
// are independent; there is no cross-member coupling.
func PartitionByMember(events []Envelope) map[string][]Envelope {
	partitions := make(map[string][]Envelope)

	for _, e := range events {
		partitions[e.MemberID] = append(partitions[e.MemberID], e)
	}

	return partitions
}
