package safe

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDivide(t *testing.T) {
	t.Parallel()

	result, err := Divide(decimal.NewFromInt(200), decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.True(t, result.Equal(decimal.NewFromFloat(0.4)))

	_, err = Divide(decimal.NewFromInt(1), decimal.Zero)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestDivideOrZero(t *testing.T) {
	t.Parallel()

	assert.True(t, DivideOrZero(decimal.NewFromInt(10), decimal.NewFromInt(4)).Equal(decimal.NewFromFloat(2.5)))
	assert.True(t, DivideOrZero(decimal.NewFromInt(10), decimal.Zero).IsZero())
}

func TestWithinTolerance(t *testing.T) {
	t.Parallel()

	tol := decimal.NewFromFloat(0.01)

	tests := []struct {
		name string
		a, b decimal.Decimal
		want bool
	}{
		{"equal", decimal.NewFromInt(100), decimal.NewFromInt(100), true},
		{"inside", decimal.NewFromFloat(100.005), decimal.NewFromInt(100), true},
		{"exactly at tolerance", decimal.NewFromFloat(100.01), decimal.NewFromInt(100), true},
		{"outside", decimal.NewFromFloat(100.011), decimal.NewFromInt(100), false},
		{"symmetric", decimal.NewFromInt(100), decimal.NewFromFloat(100.011), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, WithinTolerance(tt.a, tt.b, tol))
		})
	}
}

func TestSumPositive(t *testing.T) {
	t.Parallel()

	assert.True(t, SumPositive([]decimal.Decimal{decimal.NewFromInt(1), decimal.Zero}))
	assert.False(t, SumPositive([]decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(-1)}))
	assert.True(t, SumPositive(nil))
}

func TestSum(t *testing.T) {
	t.Parallel()

	values := []decimal.Decimal{
		decimal.NewFromFloat(0.1),
		decimal.NewFromFloat(0.2),
		decimal.NewFromFloat(0.3),
	}

	assert.True(t, Sum(values).Equal(decimal.NewFromFloat(0.6)), "decimal addition is exact")
	assert.True(t, Sum(nil).IsZero())
}
