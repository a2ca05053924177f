package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	assert.Empty(t, buf.String(), "debug should be filtered at info level")

	logger.Info("feed decoded", slog.String("feed_id", "26"))
	entry := decodeLine(t, &buf)
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "feed decoded", entry["msg"])
	assert.Equal(t, "26", entry["feed_id"])
}

func TestNewTextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTextLogger(&buf, slog.LevelDebug)

	logger.Debug("station index loaded", slog.Int("stations", 3))

	assert.Contains(t, buf.String(), "station index loaded")
	assert.Contains(t, buf.String(), "stations=3")
}

func TestLogError(t *testing.T) {
	t.Run("includes error and attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogError(logger, "fetch failed", assert.AnError, slog.String("url", "https://example.com"))

		entry := decodeLine(t, &buf)
		assert.Equal(t, "ERROR", entry["level"])
		assert.Equal(t, assert.AnError.Error(), entry["error"])
		assert.Equal(t, "https://example.com", entry["url"])
	})

	t.Run("nil logger is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogError(nil, "ignored", assert.AnError)
		})
	})

	t.Run("nil error omits the error attribute", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogError(logger, "no cause", nil)

		entry := decodeLine(t, &buf)
		_, ok := entry["error"]
		assert.False(t, ok)
	})
}

func TestLogWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	LogWarn(logger, "alert skipped", assert.AnError, slog.String("entity_id", "a1"))

	entry := decodeLine(t, &buf)
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "a1", entry["entity_id"])
}

func TestLogOperation(t *testing.T) {
	t.Run("drops zero durations", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogOperation(logger, "stations_loaded", slog.Duration("duration", 0), slog.Int("count", 5))

		entry := decodeLine(t, &buf)
		_, ok := entry["duration"]
		assert.False(t, ok)
		assert.Equal(t, float64(5), entry["count"])
	})

	t.Run("keeps non-zero durations", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogOperation(logger, "feed_fetched", slog.Duration("duration", time.Second))

		entry := decodeLine(t, &buf)
		assert.Contains(t, entry, "duration")
	})
}

func TestLogHTTPRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	LogHTTPRequest(logger, "GET", "/api/subway/status/1", 200, 12.5, slog.String("request_id", "abc"))

	entry := decodeLine(t, &buf)
	assert.Equal(t, "http_request", entry["msg"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/api/subway/status/1", entry["path"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, 12.5, entry["duration_ms"])
	assert.Equal(t, "abc", entry["request_id"])
}

func TestContextLogger(t *testing.T) {
	t.Run("round trips through context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		ctx := WithLogger(context.Background(), logger)

		assert.Same(t, logger, FromContext(ctx))
	})

	t.Run("falls back to default logger", func(t *testing.T) {
		assert.Same(t, slog.Default(), FromContext(context.Background()))
	})

	t.Run("context logger wins over fallback", func(t *testing.T) {
		reqLogger := NewStructuredLogger(&bytes.Buffer{}, slog.LevelInfo)
		fallback := NewStructuredLogger(&bytes.Buffer{}, slog.LevelInfo)

		ctx := WithLogger(context.Background(), reqLogger)

		assert.Same(t, reqLogger, FromContextOr(ctx, fallback))
		assert.Same(t, fallback, FromContextOr(context.Background(), fallback))
		assert.Same(t, slog.Default(), FromContextOr(context.Background(), nil))
	})
}

type errorCloser struct {
	err error
}

func (e *errorCloser) Close() error {
	return e.err
}

func TestSafeCloseWithLogging(t *testing.T) {
	t.Run("logs close failures", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		SafeCloseWithLogging(&errorCloser{err: assert.AnError}, logger, "http_response_body")

		entry := decodeLine(t, &buf)
		assert.Equal(t, "failed to close resource", entry["msg"])
		assert.Equal(t, "http_response_body", entry["operation"])
	})

	t.Run("silent on success", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		SafeCloseWithLogging(&errorCloser{}, logger, "http_response_body")

		assert.Empty(t, buf.String())
	})

	t.Run("nil closer", func(t *testing.T) {
		assert.NotPanics(t, func() {
			SafeCloseWithLogging(nil, nil, "noop")
		})
	})
}
