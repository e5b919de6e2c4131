package log

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "unknown", Level(42).String())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{input: "error", want: LevelError},
		{input: "WARN", want: LevelWarn},
		{input: "warning", want: LevelWarn},
		{input: "Info", want: LevelInfo},
		{input: "debug", want: LevelDebug},
		{input: "verbose", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			level, err := ParseLevel(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
		})
	}
}

func TestFieldConstructors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Field{Key: "memberId", Value: "alice"}, String("memberId", "alice"))
	assert.Equal(t, Field{Key: "count", Value: 3}, Int("count", 3))
	assert.Equal(t, Field{Key: "dryRun", Value: true}, Bool("dryRun", true))

	err := errors.New("boom")
	assert.Equal(t, Field{Key: "error", Value: err}, Err(err))
	assert.Equal(t, Field{Key: "payload", Value: []int{1}}, Any("payload", []int{1}))
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	logger := NewNop()

	logger.Log(context.Background(), LevelError, "dropped", String("k", "v"))

	assert.False(t, logger.Enabled(LevelError))
	assert.NoError(t, logger.Sync(context.Background()))
	assert.Same(t, logger, logger.With(String("k", "v")))
}
