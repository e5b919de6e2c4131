package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/commonshare/lib-patronage/patronage/safe"
)

// reconciliationTolerance is the maximum drift allowed between the book
// balance and its additive components. Kept at one cent to match the
// tolerance used by upstream feeds that still carry float-derived values.
var reconciliationTolerance = decimal.NewFromFloat(0.01)

// CapitalAccountBalance is the derived state of a member's capital account
// at a point in time. It is a materialized view: always recomputable from
// the event log, never the primary source of truth, never hand-edited.
type CapitalAccountBalance struct {
	MemberID             string          `json:"memberId"`
	BookBalance          decimal.Decimal `json:"bookBalance"`
	TaxBalance           decimal.Decimal `json:"taxBalance"`
	ContributedCapital   decimal.Decimal `json:"contributedCapital"`
	RetainedPatronage    decimal.Decimal `json:"retainedPatronage"`
	DistributedPatronage decimal.Decimal `json:"distributedPatronage"`
	AsOfDate             time.Time       `json:"asOfDate"`
}

// ZeroBalance returns the genesis balance for a member.
func ZeroBalance(memberID string, asOf time.Time) CapitalAccountBalance {
	return CapitalAccountBalance{
		MemberID:             memberID,
		BookBalance:          decimal.Zero,
		TaxBalance:           decimal.Zero,
		ContributedCapital:   decimal.Zero,
		RetainedPatronage:    decimal.Zero,
		DistributedPatronage: decimal.Zero,
		AsOfDate:             asOf,
	}
}

// Reconciles reports whether the additive-ledger invariant holds:
// bookBalance = contributedCapital + retainedPatronage − distributedPatronage
// within one cent.
func (b CapitalAccountBalance) Reconciles() bool {
	expected := b.ContributedCapital.Add(b.RetainedPatronage).Sub(b.DistributedPatronage)
	return safe.WithinTolerance(b.BookBalance, expected, reconciliationTolerance)
}

// BalanceDelta is the field-wise difference between two balances of the
// same member at different dates.
type BalanceDelta struct {
	MemberID             string          `json:"memberId"`
	From                 time.Time       `json:"from"`
	To                   time.Time       `json:"to"`
	BookBalance          decimal.Decimal `json:"bookBalance"`
	TaxBalance           decimal.Decimal `json:"taxBalance"`
	ContributedCapital   decimal.Decimal `json:"contributedCapital"`
	RetainedPatronage    decimal.Decimal `json:"retainedPatronage"`
	DistributedPatronage decimal.Decimal `json:"distributedPatronage"`
}

func deltaBetween(from, to CapitalAccountBalance) BalanceDelta {
	return BalanceDelta{
		MemberID:             to.MemberID,
		From:                 from.AsOfDate,
		To:                   to.AsOfDate,
		BookBalance:          to.BookBalance.Sub(from.BookBalance),
		TaxBalance:           to.TaxBalance.Sub(from.TaxBalance),
		ContributedCapital:   to.ContributedCapital.Sub(from.ContributedCapital),
		RetainedPatronage:    to.RetainedPatronage.Sub(from.RetainedPatronage),
		DistributedPatronage: to.DistributedPatronage.Sub(from.DistributedPatronage),
	}
}
