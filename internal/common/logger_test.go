package common

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	logger, err := SetupLogger(slog.LevelInfo, "json", &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown", "owner", "alice")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"owner":"alice"`)
	assert.Same(t, logger, slog.Default())

	_, err = SetupLogger(slog.LevelInfo, "xml", &buf)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoggerOrDefault(t *testing.T) {
	assert.Same(t, slog.Default(), LoggerOrDefault(nil))

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, custom, LoggerOrDefault(custom))
}
