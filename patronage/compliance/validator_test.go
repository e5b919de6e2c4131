package compliance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commonshare/lib-patronage/patronage/ledger"
	"github.com/commonshare/lib-patronage/patronage/report"
)

var asOf = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

// snapshot builds a reconciling account: book = contributed + retained − distributed.
func snapshot(memberID string, contributed, retained, distributed int64) CapitalSnapshot {
	c := decimal.NewFromInt(contributed)
	r := decimal.NewFromInt(retained)
	d := decimal.NewFromInt(distributed)
	book := c.Add(r).Sub(d)

	return CapitalSnapshot{
		Balance: ledger.CapitalAccountBalance{
			MemberID:             memberID,
			BookBalance:          book,
			TaxBalance:           book,
			ContributedCapital:   c,
			RetainedPatronage:    r,
			DistributedPatronage: d,
			AsOfDate:             asOf,
		},
		HasDRO: true,
	}
}

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

func TestValidateCompliantMembers(t *testing.T) {
	t.Parallel()

	res := Validate([]CapitalSnapshot{
		snapshot("alice", 500, 300, 100),
		snapshot("bob", 1000, 0, 0),
	})

	assert.True(t, res.Compliant)
	assert.True(t, res.PrimaryPassed)
	assert.True(t, res.SafeHarborPassed)
	assert.False(t, res.AlternatePassed, "alternate is not evaluated when the primary test passes")
	assert.True(t, res.Report.Valid())
	require.Len(t, res.Report.TestResults, 3)
}

func TestValidateNegativeBalanceWithoutProvisions(t *testing.T) {
	t.Parallel()

	// No DRO, no QIO, negative tax capital.
	s := snapshot("alice", 100, 0, 400)
	s.HasDRO = false
	s.HasQIO = false

	res := Validate([]CapitalSnapshot{s})

	assert.False(t, res.Compliant)
	assert.False(t, res.PrimaryPassed)
	assert.False(t, res.AlternatePassed)
	assert.True(t, res.SafeHarborPassed)

	assert.True(t, res.Report.HasCode(CodeMissingDROQIO))
	assert.True(t, res.Report.HasCode(CodeNegativeWithoutDRO))
	assert.True(t, res.Report.HasCode(CodeNegativeBalance))

	for _, v := range res.Report.Violations {
		assert.Equal(t, report.SeverityCompliance, v.Severity)
		assert.NotEmpty(t, v.Citation)
	}
}

func TestValidateQIOWithoutDRO(t *testing.T) {
	t.Parallel()

	t.Run("non-negative balance passes primary", func(t *testing.T) {
		t.Parallel()

		s := snapshot("alice", 500, 0, 0)
		s.HasDRO = false
		s.HasQIO = true

		res := Validate([]CapitalSnapshot{s})

		assert.True(t, res.Compliant)
		assert.True(t, res.PrimaryPassed)
	})

	t.Run("negative tax balance still needs a DRO", func(t *testing.T) {
		t.Parallel()

		s := snapshot("alice", 100, 0, 400)
		s.HasDRO = false
		s.HasQIO = true

		res := Validate([]CapitalSnapshot{s})

		assert.False(t, res.PrimaryPassed)
		assert.True(t, res.Report.HasCode(CodeNegativeWithoutDRO))
		assert.False(t, res.Report.HasCode(CodeMissingDROQIO))
	})
}

func TestValidateAlternateRescuesPrimaryFailure(t *testing.T) {
	t.Parallel()

	// Non-negative balances but no DRO/QIO: primary fails on the missing
	// provisions, alternate passes on the balances alone.
	s := snapshot("alice", 500, 100, 0)
	s.HasDRO = false
	s.HasQIO = false

	res := Validate([]CapitalSnapshot{s})

	assert.False(t, res.PrimaryPassed)
	assert.True(t, res.AlternatePassed)
	assert.True(t, res.Compliant)
}

func TestValidateUnpopulatedSnapshot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*CapitalSnapshot)
	}{
		{
			name:   "missing member id",
			mutate: func(s *CapitalSnapshot) { s.Balance.MemberID = "" },
		},
		{
			name:   "zero as-of date",
			mutate: func(s *CapitalSnapshot) { s.Balance.AsOfDate = time.Time{} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := snapshot("alice", 500, 0, 0)
			tt.mutate(&s)

			res := Validate([]CapitalSnapshot{s})

			assert.False(t, res.PrimaryPassed)
			assert.True(t, res.Report.HasCode(CodeUnpopulatedAccount))
		})
	}
}

func TestValidateSafeHarborFailure(t *testing.T) {
	t.Parallel()

	// A drifted materialized view: book no longer equals the additive sum.
	s := snapshot("alice", 500, 300, 100)
	s.Balance.BookBalance = s.Balance.BookBalance.Add(decimal.NewFromInt(50))
	s.Balance.TaxBalance = s.Balance.BookBalance

	res := Validate([]CapitalSnapshot{s})

	assert.False(t, res.Compliant)
	assert.True(t, res.PrimaryPassed, "the economic-effect tests look at provisions, not reconciliation")
	assert.False(t, res.SafeHarborPassed)
	assert.True(t, res.Report.HasCode(CodeSafeHarborFailure))
}

func TestValidateTaxBookDivergenceWarns(t *testing.T) {
	t.Parallel()

	// §704(c) contributed-property basis differences show up as tax ≠ book.
	s := snapshot("alice", 500, 0, 0)
	s.Balance.TaxBalance = s.Balance.TaxBalance.Sub(decimal.NewFromInt(80))

	res := Validate([]CapitalSnapshot{s})

	assert.True(t, res.Compliant, "divergence alone never blocks")
	require.Len(t, res.Report.Warnings, 1)
	assert.Equal(t, WarnTaxBookDivergence, res.Report.Warnings[0].Code)
}

func TestValidateEmptyBatch(t *testing.T) {
	t.Parallel()

	res := Validate(nil)

	assert.True(t, res.Compliant)
	assert.True(t, res.Report.Valid())
}
