package allocation

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/commonshare/lib-patronage/patronage"
)

// MultiPeriodAccumulator aggregates per-period patronage maps into
// cumulative totals per member. It follows the same determinism contract as
// the balance engine: identical period sequences produce identical totals,
// and materialized views iterate members in sorted order.
type MultiPeriodAccumulator struct {
	totals  map[string]decimal.Decimal
	periods []string
}

// NewMultiPeriodAccumulator creates an empty accumulator.
func NewMultiPeriodAccumulator() *MultiPeriodAccumulator {
	return &MultiPeriodAccumulator{totals: make(map[string]decimal.Decimal)}
}

// AddPeriod folds one period's patronage map into the cumulative totals.
// Periods are identified by id and may be added only once; feeding the same
// closed period twice is an upstream correctness bug, not something the
// accumulator masks.
func (acc *MultiPeriodAccumulator) AddPeriod(periodID string, patronageByMember map[string]decimal.Decimal) error {
	if strings.TrimSpace(periodID) == "" {
		return patronage.NewDomainError(patronage.ErrorInvalidInput, "periodId", "period id is required")
	}

	for _, seen := range acc.periods {
		if seen == periodID {
			return patronage.NewDomainError(patronage.ErrorInvalidInput, "periodId", "period "+periodID+" was already accumulated")
		}
	}

	for memberID, weighted := range patronageByMember {
		if weighted.IsNegative() {
			return patronage.NewDomainError(patronage.ErrorInvalidInput, "patronageByMember."+memberID, "weighted patronage must not be negative")
		}
	}

	for memberID, weighted := range patronageByMember {
		acc.totals[memberID] = acc.totals[memberID].Add(weighted)
	}

	acc.periods = append(acc.periods, periodID)

	return nil
}

// CumulativeTotals returns a copy of the member totals across all
// accumulated periods.
func (acc *MultiPeriodAccumulator) CumulativeTotals() map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal, len(acc.totals))
	for memberID, total := range acc.totals {
		totals[memberID] = total
	}

	return totals
}

// Members returns the member ids seen so far, sorted.
func (acc *MultiPeriodAccumulator) Members() []string {
	members := make([]string, 0, len(acc.totals))
	for memberID := range acc.totals {
		members = append(members, memberID)
	}

	sort.Strings(members)

	return members
}

// Periods returns the accumulated period ids in insertion order.
func (acc *MultiPeriodAccumulator) Periods() []string {
	periods := make([]string, len(acc.periods))
	copy(periods, acc.periods)

	return periods
}
