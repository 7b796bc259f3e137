package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

var _ gormlogger.Interface = (*GormLogger)(nil)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), logs
}

func traceQuery(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) {
		return sql, rows
	}
}

func TestGormLoggerOptions(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithRecordNotFoundLogging(),
	)

	assert.Equal(t, 500*time.Millisecond, gl.slowThreshold)
	assert.False(t, gl.skipNotFound)
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info)
	lowered := gl.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, gl.level)
	require.IsType(t, &GormLogger{}, lowered)
	assert.Equal(t, gormlogger.Warn, lowered.(*GormLogger).level)
}

func TestGormLogger_MessageLevels(t *testing.T) {
	ctx := context.Background()

	t.Run("formats and forwards at matching level", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Info)

		gl.Info(ctx, "opened %d connections", 4)
		gl.Warn(ctx, "pool saturated")
		gl.Error(ctx, "dial failed")

		entries := logs.All()
		require.Len(t, entries, 3)
		assert.Equal(t, "opened 4 connections", entries[0].Message)
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	})

	t.Run("silent suppresses everything", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Silent)

		gl.Info(ctx, "dropped")
		gl.Warn(ctx, "dropped")
		gl.Error(ctx, "dropped")
		gl.Trace(ctx, time.Now(), traceQuery("SELECT 1", 1), nil)

		assert.Empty(t, logs.All())
	})
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.Background()

	t.Run("query error logs with sql and error", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Error)

		gl.Trace(ctx, time.Now(), traceQuery("UPDATE contracts SET status = ?", 0), errors.New("deadlock"))

		entries := logs.FilterMessage("SQL Error").All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "UPDATE contracts SET status = ?", fields["sql"])
		assert.Equal(t, "deadlock", fields["error"])
	})

	t.Run("record not found is dropped by default", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Error)

		gl.Trace(ctx, time.Now(), traceQuery("SELECT * FROM contracts WHERE id = ?", 0), gormlogger.ErrRecordNotFound)

		assert.Empty(t, logs.All())
	})

	t.Run("record not found logs when opted in", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Error, WithRecordNotFoundLogging())

		gl.Trace(ctx, time.Now(), traceQuery("SELECT * FROM contracts WHERE id = ?", 0), gormlogger.ErrRecordNotFound)

		assert.Len(t, logs.FilterMessage("SQL Error").All(), 1)
	})

	t.Run("slow query warns with threshold", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Nanosecond))

		gl.Trace(ctx, time.Now().Add(-time.Second), traceQuery("SELECT * FROM receivables", 10), nil)

		entries := logs.FilterMessage("Slow SQL").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.EqualValues(t, 10, entries[0].ContextMap()["rows"])
	})

	t.Run("normal query logs at debug", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Info)

		gl.Trace(ctx, time.Now(), traceQuery("SELECT 1", 1), nil)

		entries := logs.FilterMessage("SQL Query").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	})

	t.Run("tags request id from context", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Info)
		reqCtx, _ := WithRequestID(ctx, zap.NewNop(), "req-7")

		gl.Trace(reqCtx, time.Now(), traceQuery("SELECT 1", 1), nil)

		entries := logs.FilterMessage("SQL Query").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
	})
}

func TestMapGormLogLevel(t *testing.T) {
	cases := []struct {
		level string
		want  gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"trace", gormlogger.Warn},
		{"", gormlogger.Warn},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, MapGormLogLevel(tc.level), "level %q", tc.level)
	}
}
