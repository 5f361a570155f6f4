package xlog

import (
	"context"
	"log/slog"
	"time"
)

var _ LoggerWithLevel = (*logger)(nil)

// logger 派生实例共享同一个 LevelVar。
type logger struct {
	h     slog.Handler
	level *slog.LevelVar
}

func (l *logger) emit(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.h.Enabled(ctx, level) {
		return
	}
	r := slog.NewRecord(time.Now(), level, msg, 0)
	r.AddAttrs(attrs...)
	_ = l.h.Handle(ctx, r) //nolint:errcheck // 与 slog.Logger 一致，写入失败不上抛
}

func (l *logger) Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, slog.LevelDebug, msg, attrs)
}

func (l *logger) Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, slog.LevelInfo, msg, attrs)
}

func (l *logger) Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, slog.LevelWarn, msg, attrs)
}

func (l *logger) Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, slog.LevelError, msg, attrs)
}

func (l *logger) With(attrs ...slog.Attr) Logger {
	if len(attrs) == 0 {
		return l
	}
	return &logger{h: l.h.WithAttrs(attrs), level: l.level}
}

func (l *logger) SetLevel(level Level) { l.level.Set(slog.Level(level)) }

func (l *logger) GetLevel() Level { return Level(l.level.Level()) }

func (l *logger) Enabled(ctx context.Context, level Level) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	return l.h.Enabled(ctx, slog.Level(level))
}
