package xlog

import (
	"context"
	"log/slog"
)

// Logger 结构化日志接口。
//
// ctx 用于注入 trace_id/span_id，可以为 nil。
type Logger interface {
	Debug(ctx context.Context, msg string, attrs ...slog.Attr)
	Info(ctx context.Context, msg string, attrs ...slog.Attr)
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)
	Error(ctx context.Context, msg string, attrs ...slog.Attr)

	// With 返回附加了 attrs 的派生 Logger。
	With(attrs ...slog.Attr) Logger
}

// Leveler 运行时级别控制，派生 logger 一同生效。
type Leveler interface {
	SetLevel(level Level)
	GetLevel() Level
	Enabled(ctx context.Context, level Level) bool
}

// LoggerWithLevel Build 的返回类型。
type LoggerWithLevel interface {
	Logger
	Leveler
}
