package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"copystudio-api/pkg/logger"
)

// queryLogger 将 GORM 日志接入结构化日志，仅输出慢查询与错误
type queryLogger struct {
	level gormlogger.LogLevel
	slow  time.Duration
}

func newQueryLogger(slow time.Duration) gormlogger.Interface {
	if slow <= 0 {
		slow = time.Second
	}
	return &queryLogger{level: gormlogger.Warn, slow: slow}
}

func (l *queryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *queryLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		logger.Info(ctx, "gorm: "+fmt.Sprintf(msg, args...))
	}
}

func (l *queryLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		logger.Warn(ctx, "gorm: "+fmt.Sprintf(msg, args...))
	}
}

func (l *queryLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		logger.Error(ctx, "gorm error", fmt.Errorf(msg, args...))
	}
}

// Trace 每条 SQL 执行后调用；记录未找到不视为错误
func (l *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		sql, rows := fc()
		logger.Error(ctx, "query failed", err,
			"sql", sql, "rows", rows, "elapsed_ms", elapsed.Milliseconds())
	case elapsed > l.slow && l.level >= gormlogger.Warn:
		sql, rows := fc()
		logger.Warn(ctx, "slow query",
			"sql", sql, "rows", rows, "elapsed_ms", elapsed.Milliseconds(), "threshold_ms", l.slow.Milliseconds())
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		logger.Debug(ctx, "query", "sql", sql, "rows", rows, "elapsed_ms", elapsed.Milliseconds())
	}
}
