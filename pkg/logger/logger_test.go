package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestNewWithWriter_ServiceField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("wishlist", "info", &buf)

	l.Info("hello")

	m := logLine(t, &buf)
	assert.Equal(t, "wishlist", m["service"])
	assert.Equal(t, "hello", m["msg"])
	assert.Equal(t, "INFO", m["level"])
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("wishlist", "warn", &buf)

	l.Info("dropped")
	assert.Zero(t, buf.Len())

	l.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestWithContext_CorrelationAndSession(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter("wishlist", "info", &buf)

	ctx := WithCorrelationID(context.Background(), "corr-123")
	ctx = WithSessionID(ctx, "sess-456")

	WithContext(ctx, base).Info("op")

	m := logLine(t, &buf)
	assert.Equal(t, "corr-123", m["correlation_id"])
	assert.Equal(t, "sess-456", m["session_id"])
}

func TestFromContext_DefaultWhenMissing(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))
}

func TestFromContext_ReturnsStoredLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("wishlist", "info", &buf)

	ctx := NewContext(context.Background(), l)
	assert.Equal(t, l, FromContext(ctx))
}
