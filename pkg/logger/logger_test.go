package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("garbage"))
}

func TestColorHandlerTintsByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewColorHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.Info("plain line")
	assert.NotContains(t, buf.String(), colorYellow)
	assert.NotContains(t, buf.String(), colorRed)

	buf.Reset()
	log.Warn("attention")
	assert.Contains(t, buf.String(), colorYellow)
	assert.Contains(t, buf.String(), colorReset)

	buf.Reset()
	log.Error("broken")
	assert.Contains(t, buf.String(), colorRed)
}

func TestColorHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewColorHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	require.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	require.True(t, h.Enabled(context.Background(), slog.LevelError))
}
