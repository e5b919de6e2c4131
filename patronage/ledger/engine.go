package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/commonshare/lib-patronage/patronage"
	"github.com/commonshare/lib-patronage/patronage/errgroup"
	"github.com/commonshare/lib-patronage/patronage/event"
	libLog "github.com/commonshare/lib-patronage/patronage/log"
	"github.com/commonshare/lib-patronage/patronage/report"
)

// WarnUnknownEvent is the warning code emitted when the fold skips an event
// type with no registered applier.
const WarnUnknownEvent = "WRN-UNKNOWN-EVENT"

const defaultWorkers = 8

// Engine replays domain events into capital account balances.
//
// Every query is the same pure fold with a different cutoff; the engine
// holds no mutable state between calls. Replaying identical inputs always
// yields identical balances; that is the audit contract.
type Engine struct {
	registry *Registry
	logger   libLog.Logger
	workers  int
}

// NewEngine creates a balance computation engine. A nil registry gets the
// built-in appliers; a nil logger is replaced with a no-op logger.
func NewEngine(registry *Registry, logger libLog.Logger) *Engine {
	if registry == nil {
		registry = NewRegistry()
	}

	if logger == nil {
		logger = libLog.NewNop()
	}

	return &Engine{registry: registry, logger: logger, workers: defaultWorkers}
}

// SetWorkers caps the parallelism of ComputeAllBalances.
func (eng *Engine) SetWorkers(n int) {
	if n > 0 {
		eng.workers = n
	}
}

// ComputeBalance folds the member's events up to asOf into a balance.
//
// Events are filtered to the member and cutoff, re-sorted into replay order,
// and folded sequentially through the registered appliers. Events with no
// registered applier are reported as warnings and skipped; the caller
// decides whether skipped events fail an audit.
func (eng *Engine) ComputeBalance(ctx context.Context, memberID string, events []event.Envelope, asOf time.Time) (CapitalAccountBalance, report.Report, error) {
	if strings.TrimSpace(memberID) == "" {
		return CapitalAccountBalance{}, report.Report{}, patronage.NewDomainError(patronage.ErrorInvalidInput, "memberId", "member id is required")
	}

	if asOf.IsZero() {
		return CapitalAccountBalance{}, report.Report{}, patronage.NewDomainError(patronage.ErrorInvalidInput, "asOfDate", "as-of date is required")
	}

	scoped := event.FilterUpTo(event.FilterByMember(events, memberID), asOf)

	return eng.fold(ctx, ZeroBalance(memberID, asOf), scoped, asOf)
}

// ComputeAllBalances partitions events by member and folds each partition
// independently. Partitions have no cross-member coupling, so the folds run
// in parallel up to the worker limit.
func (eng *Engine) ComputeAllBalances(ctx context.Context, events []event.Envelope, asOf time.Time) (map[string]CapitalAccountBalance, report.Report, error) {
	if asOf.IsZero() {
		return nil, report.Report{}, patronage.NewDomainError(patronage.ErrorInvalidInput, "asOfDate", "as-of date is required")
	}

	partitions := event.PartitionByMember(event.FilterUpTo(events, asOf))

	var (
		mu       sync.Mutex
		balances = make(map[string]CapitalAccountBalance, len(partitions))
		combined report.Report
	)

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(eng.workers)
	grp.SetLogger(eng.logger)

	for memberID, memberEvents := range partitions {
		grp.Go(func() error {
			balance, rpt, err := eng.fold(grpCtx, ZeroBalance(memberID, asOf), memberEvents, asOf)
			if err != nil {
				return fmt.Errorf("member %s: %w", memberID, err)
			}

			mu.Lock()
			defer mu.Unlock()

			balances[memberID] = balance
			combined.Merge(rpt)

			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, report.Report{}, err
	}

	sortWarnings(&combined)

	return balances, combined, nil
}

// IncrementalRefresh folds newEvents on top of existing balances and is
// equivalent to a full replay from genesis over the union of both inputs.
// The built-in appliers are additive, so folding a late-arriving event onto
// a snapshot yields the same balance as replaying it in timestamp order.
func (eng *Engine) IncrementalRefresh(ctx context.Context, current map[string]CapitalAccountBalance, newEvents []event.Envelope) (map[string]CapitalAccountBalance, report.Report, error) {
	refreshed := make(map[string]CapitalAccountBalance, len(current))
	for memberID, balance := range current {
		refreshed[memberID] = balance
	}

	var combined report.Report

	for memberID, memberEvents := range event.PartitionByMember(newEvents) {
		base, ok := refreshed[memberID]
		if !ok {
			base = ZeroBalance(memberID, time.Time{})
		}

		asOf := base.AsOfDate
		for _, e := range memberEvents {
			if e.Timestamp.After(asOf) {
				asOf = e.Timestamp
			}
		}

		balance, rpt, err := eng.fold(ctx, base, memberEvents, asOf)
		if err != nil {
			return nil, report.Report{}, fmt.Errorf("member %s: %w", memberID, err)
		}

		refreshed[memberID] = balance

		combined.Merge(rpt)
	}

	sortWarnings(&combined)

	return refreshed, combined, nil
}

// BalanceHistory computes the member's balance at each of the given dates.
// Each point reuses the same fold with a different cutoff.
func (eng *Engine) BalanceHistory(ctx context.Context, memberID string, events []event.Envelope, dates []time.Time) ([]CapitalAccountBalance, report.Report, error) {
	history := make([]CapitalAccountBalance, 0, len(dates))

	var combined report.Report

	for _, asOf := range dates {
		balance, rpt, err := eng.ComputeBalance(ctx, memberID, events, asOf)
		if err != nil {
			return nil, report.Report{}, err
		}

		history = append(history, balance)

		combined.Merge(rpt)
	}

	return history, combined, nil
}

// BalanceDelta computes the field-wise movement of a member's balance
// between two dates.
func (eng *Engine) BalanceDelta(ctx context.Context, memberID string, events []event.Envelope, from, to time.Time) (BalanceDelta, error) {
	if to.Before(from) {
		return BalanceDelta{}, patronage.NewDomainError(patronage.ErrorInvalidInput, "to", "to date must not precede from date")
	}

	opening, _, err := eng.ComputeBalance(ctx, memberID, events, from)
	if err != nil {
		return BalanceDelta{}, err
	}

	closing, _, err := eng.ComputeBalance(ctx, memberID, events, to)
	if err != nil {
		return BalanceDelta{}, err
	}

	return deltaBetween(opening, closing), nil
}

// fold applies the events to the starting balance in replay order.
func (eng *Engine) fold(ctx context.Context, start CapitalAccountBalance, events []event.Envelope, asOf time.Time) (CapitalAccountBalance, report.Report, error) {
	balance := start
	balance.AsOfDate = asOf

	var rpt report.Report

	for _, e := range event.Sort(events) {
		applier, ok := eng.registry.applier(e.Type)
		if !ok {
			eng.logger.Log(ctx, libLog.LevelWarn, "skipping event with no registered applier",
				libLog.String("eventId", e.EventID.String()),
				libLog.String("eventType", string(e.Type)),
				libLog.String("memberId", e.MemberID))

			rpt.AddWarning(report.Warning{
				Code:    WarnUnknownEvent,
				Field:   "eventType",
				Message: fmt.Sprintf("event %s has unknown type %s; skipped during replay", e.EventID, e.Type),
			})

			continue
		}

		next, err := applier(balance, e)
		if err != nil {
			return CapitalAccountBalance{}, report.Report{}, fmt.Errorf("apply event %s: %w", e.EventID, err)
		}

		balance = next
	}

	return balance, rpt, nil
}

// sortWarnings orders warnings by message so parallel folds produce a
// deterministic report.
func sortWarnings(rpt *report.Report) {
	sort.Slice(rpt.Warnings, func(i, j int) bool {
		return rpt.Warnings[i].Message < rpt.Warnings[j].Message
	})
}
