package database

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
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/bookshelf/pkg/logger"
)

func observedContext(t *testing.T) (context.Context, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core).With(zap.String("request_id", "req-1"))
	return logger.WithContext(context.Background(), l), logs
}

func sqlTrace() (string, int64) {
	return "SELECT * FROM books", 3
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("SQL错误带请求上下文", func(t *testing.T) {
		ctx, logs := observedContext(t)
		newGormLogger(gormlogger.Warn).Trace(ctx, time.Now(), sqlTrace, errors.New("boom"))

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
		assert.Equal(t, "SQL执行失败", entry.Message)
		assert.Equal(t, "req-1", entry.ContextMap()["request_id"])
		assert.Equal(t, "SELECT * FROM books", entry.ContextMap()["sql"])
		assert.Equal(t, int64(3), entry.ContextMap()["rows"])
	})

	t.Run("业务可处理的错误不记录", func(t *testing.T) {
		ctx, logs := observedContext(t)
		l := newGormLogger(gormlogger.Warn)
		for _, err := range []error{gorm.ErrRecordNotFound, gorm.ErrDuplicatedKey, gorm.ErrForeignKeyViolated} {
			l.Trace(ctx, time.Now(), sqlTrace, err)
		}
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("慢查询", func(t *testing.T) {
		ctx, logs := observedContext(t)
		newGormLogger(gormlogger.Warn).Trace(ctx, time.Now().Add(-time.Second), sqlTrace, nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
		assert.Equal(t, "慢查询", logs.All()[0].Message)
	})

	t.Run("Warn级别不记录普通SQL", func(t *testing.T) {
		ctx, logs := observedContext(t)
		newGormLogger(gormlogger.Warn).Trace(ctx, time.Now(), sqlTrace, nil)
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("Info级别记录所有SQL", func(t *testing.T) {
		ctx, logs := observedContext(t)
		newGormLogger(gormlogger.Info).Trace(ctx, time.Now(), sqlTrace, nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
	})

	t.Run("Silent", func(t *testing.T) {
		ctx, logs := observedContext(t)
		newGormLogger(gormlogger.Silent).Trace(ctx, time.Now(), sqlTrace, errors.New("boom"))
		assert.Equal(t, 0, logs.Len())
	})
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	ctx, logs := observedContext(t)
	base := newGormLogger(gormlogger.Warn)
	verbose := base.LogMode(gormlogger.Info)

	verbose.Info(ctx, "迁移表 %s", "books")
	base.Info(ctx, "迁移表 %s", "users")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "迁移表 books", logs.All()[0].Message)
}
