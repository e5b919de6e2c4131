package allocation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiPeriodAccumulator(t *testing.T) {
	t.Parallel()

	acc := NewMultiPeriodAccumulator()

	require.NoError(t, acc.AddPeriod("2025-Q1", map[string]decimal.Decimal{
		"alice": decimal.NewFromInt(100),
		"bob":   decimal.NewFromInt(50),
	}))
	require.NoError(t, acc.AddPeriod("2025-Q2", map[string]decimal.Decimal{
		"alice": decimal.NewFromInt(40),
		"carol": decimal.NewFromInt(75),
	}))

	totals := acc.CumulativeTotals()
	require.Len(t, totals, 3)

	assert.True(t, decimal.NewFromInt(140).Equal(totals["alice"]))
	assert.True(t, decimal.NewFromInt(50).Equal(totals["bob"]))
	assert.True(t, decimal.NewFromInt(75).Equal(totals["carol"]))

	assert.Equal(t, []string{"alice", "bob", "carol"}, acc.Members())
	assert.Equal(t, []string{"2025-Q1", "2025-Q2"}, acc.Periods())
}

func TestMultiPeriodAccumulatorRejectsDuplicatePeriod(t *testing.T) {
	t.Parallel()

	acc := NewMultiPeriodAccumulator()

	require.NoError(t, acc.AddPeriod("2025-Q1", map[string]decimal.Decimal{"alice": decimal.NewFromInt(10)}))

	err := acc.AddPeriod("2025-Q1", map[string]decimal.Decimal{"alice": decimal.NewFromInt(10)})
	require.Error(t, err, "re-feeding a closed period is an upstream bug, never masked")

	totals := acc.CumulativeTotals()
	assert.True(t, decimal.NewFromInt(10).Equal(totals["alice"]), "rejected period must not partially apply")
}

func TestMultiPeriodAccumulatorRejectsBadInput(t *testing.T) {
	t.Parallel()

	acc := NewMultiPeriodAccumulator()

	require.Error(t, acc.AddPeriod("  ", map[string]decimal.Decimal{"alice": decimal.NewFromInt(10)}))
	require.Error(t, acc.AddPeriod("2025-Q1", map[string]decimal.Decimal{"alice": decimal.NewFromInt(-10)}))

	assert.Empty(t, acc.Periods())
}

func TestMultiPeriodAccumulatorCopiesTotals(t *testing.T) {
	t.Parallel()

	acc := NewMultiPeriodAccumulator()
	require.NoError(t, acc.AddPeriod("2025-Q1", map[string]decimal.Decimal{"alice": decimal.NewFromInt(10)}))

	totals := acc.CumulativeTotals()
	totals["alice"] = decimal.NewFromInt(999)

	fresh := acc.CumulativeTotals()
	assert.True(t, decimal.NewFromInt(10).Equal(fresh["alice"]), "returned map is a copy")
}
