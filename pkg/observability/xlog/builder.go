package xlog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ErrEmptyFilename 轮转文件名为空
var ErrEmptyFilename = errors.New("xlog: rotation filename is empty")

// RotationConfig 文件轮转配置，零值字段沿用 lumberjack 默认值。
type RotationConfig struct {
	MaxSizeMB  int  `koanf:"max_size_mb"`
	MaxBackups int  `koanf:"max_backups"`
	MaxAgeDays int  `koanf:"max_age_days"`
	Compress   bool `koanf:"compress"`
}

// Builder 记录第一个配置错误，由 Build 返回。
type Builder struct {
	out         io.Writer
	file        *lumberjack.Logger
	level       slog.Level
	json        bool
	traceFields bool
	attrs       []slog.Attr
	err         error
}

// New 默认 text 格式、Info 级别、写 stderr、注入追踪字段。
func New() *Builder {
	return &Builder{out: os.Stderr, level: slog.LevelInfo, traceFields: true}
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// SetOutput nil 被忽略。
func (b *Builder) SetOutput(w io.Writer) *Builder {
	if w != nil {
		b.out = w
	}
	return b
}

func (b *Builder) SetLevel(level Level) *Builder {
	b.level = slog.Level(level)
	return b
}

// SetLevelString 接受 ParseLevel 认识的名字。
func (b *Builder) SetLevelString(s string) *Builder {
	level, err := ParseLevel(s)
	if err != nil {
		return b.fail(err)
	}
	return b.SetLevel(level)
}

// SetFormat 取 "text" 或 "json"，空串视为 text。
func (b *Builder) SetFormat(format string) *Builder {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		b.json = false
	case "json":
		b.json = true
	default:
		return b.fail(fmt.Errorf("xlog: unknown format %q", format))
	}
	return b
}

// SetTraceFields 控制是否从 ctx 注入 trace_id/span_id。
func (b *Builder) SetTraceFields(enable bool) *Builder {
	b.traceFields = enable
	return b
}

// SetRotation 改为写入按大小轮转的文件，Build 返回的 cleanup 负责关闭。
func (b *Builder) SetRotation(filename string, cfg RotationConfig) *Builder {
	if strings.TrimSpace(filename) == "" {
		return b.fail(ErrEmptyFilename)
	}
	b.file = &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	b.out = b.file
	return b
}

// SetAttrs 追加每条记录都带的属性。
func (b *Builder) SetAttrs(attrs ...slog.Attr) *Builder {
	b.attrs = append(b.attrs, attrs...)
	return b
}

// Build 返回 Logger 与可重复调用的 cleanup。
func (b *Builder) Build() (LoggerWithLevel, func() error, error) {
	if b.err != nil {
		return nil, nil, b.err
	}

	level := new(slog.LevelVar)
	level.Set(b.level)
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler = slog.NewTextHandler(b.out, opts)
	if b.json {
		h = slog.NewJSONHandler(b.out, opts)
	}
	if b.traceFields {
		h = traceHandler{h}
	}
	if len(b.attrs) > 0 {
		h = h.WithAttrs(b.attrs)
	}

	file := b.file
	cleanup := sync.OnceValue(func() error {
		if file == nil {
			return nil
		}
		return file.Close()
	})
	return &logger{h: h, level: level}, cleanup, nil
}

// Discard 丢弃全部输出，用于未注入 logger 的组件和测试。
func Discard() LoggerWithLevel {
	l, _, _ := New().SetOutput(io.Discard).SetTraceFields(false).Build() //nolint:errcheck // 固定配置不会失败
	return l
}
