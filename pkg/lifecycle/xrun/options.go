package xrun

import (
	"os"
	"syscall"

	"github.com/omeyang/xserial/pkg/observability/xlog"
)

// Option 配置 Group。
type Option func(*groupOptions)

type groupOptions struct {
	logger  xlog.Logger
	name    string
	signals []os.Signal
}

func defaultGroupOptions() *groupOptions {
	return &groupOptions{
		logger:  xlog.Discard(),
		name:    "xrun",
		signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP},
	}
}

// WithLogger 记录服务启停，nil 被忽略。
func WithLogger(logger xlog.Logger) Option {
	return func(o *groupOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置日志中的 group 名，空串被忽略。
func WithName(name string) Option {
	return func(o *groupOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// WithSignals 替换 Run 监听的信号；传入空列表关闭信号监听。
func WithSignals(signals ...os.Signal) Option {
	s := append([]os.Signal{}, signals...)
	return func(o *groupOptions) {
		o.signals = s
	}
}
