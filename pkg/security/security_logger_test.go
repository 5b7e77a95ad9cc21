package security

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*SecurityLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewSecurityLogger(zap.New(core), "portfolio-backend", "test"), logs
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a***@example.com", MaskEmail("ann@example.com"))
	assert.Equal(t, "***@b.co", MaskEmail("a@b.co"))
	assert.Equal(t, "***", MaskEmail("ab"))
}

func TestEmailHash(t *testing.T) {
	assert.Equal(t, HashValue("ann@example.com"), emailHash("Ann@Example.com"))
	assert.Empty(t, emailHash(""))
}

func TestHashValue(t *testing.T) {
	h := HashValue("secret")
	assert.Len(t, h, 16)
	assert.Equal(t, h, HashValue("secret"))
	assert.NotEqual(t, h, HashValue("other"))
}

func TestSecurityLogger_Levels(t *testing.T) {
	sl, logs := newObserved()
	ctx := context.Background()

	sl.LogValidationFailed(ctx, "ann@example.com", "req-1", "missing_field")
	sl.LogSuspiciousInput(ctx, "ann@example.com", "req-2", "casino")
	sl.LogDispatchFailed(ctx, "ann@example.com", "req-3", "telegram", errors.New("boom"))
	sl.LogRateLimitTriggered(ctx, "10.0.0.1", "curl", "req-4", "/v1/contact")

	entries := logs.All()
	require.Len(t, entries, 4)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "validation_failed", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[3].Level)

	fields := entries[2].ContextMap()
	assert.Equal(t, "a***@example.com", fields["subject_value"])
	assert.Equal(t, "req-3", fields["request_id"])
	assert.Contains(t, fields["details"], "boom")
	assert.Contains(t, fields["details"], HashValue("ann@example.com"))
	assert.NotContains(t, fields["details"], "ann@example.com")
	assert.Equal(t, "test", fields["env"])
}

func TestDefaultLogger_SetDefault(t *testing.T) {
	sl, _ := newObserved()
	SetDefault(sl)
	t.Cleanup(func() { SetDefault(nil) })

	assert.Same(t, sl, DefaultLogger())
}

func TestSecurityLogger_ServerError(t *testing.T) {
	sl, logs := newObserved()
	sl.LogServerError(context.Background(), "10.0.0.1", "req-5", "/v1/contact", "nil map write")

	entries := logs.FilterMessage("server_error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Contains(t, entries[0].ContextMap()["details"], "nil map write")
}

func TestGetSeverity(t *testing.T) {
	assert.Equal(t, SeverityINFO, GetSeverity(EventValidationFailed))
	assert.Equal(t, SeverityWARN, GetSeverity(EventSuspiciousInput))
	assert.Equal(t, SeverityMEDIUM, GetSeverity(EventType("unknown")))
	assert.True(t, IsHighOrAbove(EventDispatchFailed))
	assert.False(t, IsHighOrAbove(EventRateLimitTriggered))
}
