package zap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	logpkg "github.com/commonshare/lib-patronage/patronage/log"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "production",
			cfg:  Config{Environment: EnvironmentProduction, Level: "info", OTelLibraryName: "lib-patronage"},
		},
		{
			name: "local with default level",
			cfg:  Config{Environment: EnvironmentLocal, OTelLibraryName: "lib-patronage"},
		},
		{
			name:    "missing otel library name",
			cfg:     Config{Environment: EnvironmentProduction, Level: "info"},
			wantErr: true,
		},
		{
			name:    "unknown environment",
			cfg:     Config{Environment: "qa", Level: "info", OTelLibraryName: "lib-patronage"},
			wantErr: true,
		},
		{
			name:    "invalid level",
			cfg:     Config{Environment: EnvironmentProduction, Level: "loud", OTelLibraryName: "lib-patronage"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, level, err := New(tt.cfg)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, logger)
			assert.NotNil(t, logger.Raw())
			assert.Equal(t, level, logger.Level())
		})
	}
}

func TestLoggerEnabledTracksAtomicLevel(t *testing.T) {
	t.Parallel()

	logger, level, err := New(Config{Environment: EnvironmentProduction, Level: "info", OTelLibraryName: "lib-patronage"})
	require.NoError(t, err)

	assert.True(t, logger.Enabled(logpkg.LevelInfo))
	assert.False(t, logger.Enabled(logpkg.LevelDebug))

	level.SetLevel(zapcore.DebugLevel)
	assert.True(t, logger.Enabled(logpkg.LevelDebug))
}

func TestNilLoggerIsSafe(t *testing.T) {
	t.Parallel()

	var logger *Logger

	logger.Log(context.Background(), logpkg.LevelInfo, "dropped", logpkg.String("k", "v"))
	assert.NotNil(t, logger.With(logpkg.String("k", "v")))
	assert.False(t, logger.Enabled(logpkg.LevelError))
	assert.NoError(t, logger.Sync(context.Background()))
}

func TestWithAttachesFields(t *testing.T) {
	t.Parallel()

	logger, _, err := New(Config{Environment: EnvironmentProduction, Level: "info", OTelLibraryName: "lib-patronage"})
	require.NoError(t, err)

	child := logger.With(logpkg.String("memberId", "alice"))
	require.NotNil(t, child)

	child.Log(context.Background(), logpkg.LevelInfo, "balance recomputed", logpkg.Int("events", 3))
}
