package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commonshare/lib-patronage/patronage"
	"github.com/commonshare/lib-patronage/patronage/event"
)

var storeTime = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

func mustEvent(t *testing.T, memberID string, amount int64, at time.Time) event.Envelope {
	t.Helper()

	e, err := event.New(event.TypeCapitalContribution, memberID, decimal.NewFromInt(amount), at, nil)
	require.NoError(t, err)

	return e
}

// ---------------------------------------------------------------------------
// Append
// ---------------------------------------------------------------------------

func TestMemoryAppend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := NewMemory()

	require.NoError(t, mem.Append(ctx, mustEvent(t, "alice", 500, storeTime)))
	require.NoError(t, mem.Append(ctx, mustEvent(t, "bob", 300, storeTime.Add(time.Hour))))

	events, err := mem.AllEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestMemoryAppendRejectsDuplicates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := NewMemory()

	e := mustEvent(t, "alice", 500, storeTime)
	require.NoError(t, mem.Append(ctx, e))

	err := mem.Append(ctx, e)
	require.Error(t, err)

	var domainErr patronage.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, patronage.ErrorDataCorruption, domainErr.Code)
}

func TestMemoryAppendRejectsDuplicateWithinBatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := NewMemory()

	e := mustEvent(t, "alice", 500, storeTime)

	err := mem.Append(ctx, e, e)
	require.Error(t, err)

	events, err := mem.AllEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, events, "a rejected batch applies nothing")
}

func TestMemoryAppendValidatesBeforeApplying(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := NewMemory()

	good := mustEvent(t, "alice", 500, storeTime)
	bad := good
	bad.EventID = uuid.Nil

	err := mem.Append(ctx, good, bad)
	require.Error(t, err)

	events, err := mem.AllEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestMemoryAppendRejectsBlankMember(t *testing.T) {
	t.Parallel()

	e := mustEvent(t, "alice", 500, storeTime)
	e.MemberID = " "

	err := NewMemory().Append(context.Background(), e)
	require.Error(t, err)

	var domainErr patronage.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, patronage.ErrorInvalidInput, domainErr.Code)
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func TestMemoryQueriesReturnReplayOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := NewMemory()

	third := mustEvent(t, "alice", 1, storeTime.Add(2*time.Hour))
	first := mustEvent(t, "alice", 2, storeTime)
	second := mustEvent(t, "bob", 3, storeTime.Add(time.Hour))

	// Inserted out of order on purpose.
	require.NoError(t, mem.Append(ctx, third, first, second))

	all, err := mem.AllEvents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, first.EventID, all[0].EventID)
	assert.Equal(t, second.EventID, all[1].EventID)
	assert.Equal(t, third.EventID, all[2].EventID)

	byMember, err := mem.EventsByMember(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, byMember, 2)
	assert.Equal(t, first.EventID, byMember[0].EventID)
	assert.Equal(t, third.EventID, byMember[1].EventID)
}

func TestMemoryEventsInRange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := NewMemory()

	early := mustEvent(t, "alice", 1, storeTime)
	mid := mustEvent(t, "alice", 2, storeTime.Add(time.Hour))
	late := mustEvent(t, "alice", 3, storeTime.Add(2*time.Hour))

	require.NoError(t, mem.Append(ctx, early, mid, late))

	// Bounds are inclusive on both sides.
	ranged, err := mem.EventsInRange(ctx, storeTime.Add(time.Hour), storeTime.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.Equal(t, mid.EventID, ranged[0].EventID)
	assert.Equal(t, late.EventID, ranged[1].EventID)

	empty, err := mem.EventsInRange(ctx, storeTime.Add(-2*time.Hour), storeTime.Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryConcurrentAppends(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := NewMemory()

	events := make([]event.Envelope, 8)
	for i := range events {
		events[i] = mustEvent(t, "alice", 1, storeTime)
	}

	done := make(chan error, len(events))

	for _, e := range events {
		go func(e event.Envelope) {
			done <- mem.Append(ctx, e)
		}(e)
	}

	for range events {
		require.NoError(t, <-done)
	}

	stored, err := mem.AllEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, len(events))
}
