package xmetrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Counter 定义单调递增计数器。
// 消费会话用它记录 consumed / ack / nack 次数，属性区分 topic、消费组和类型。
type Counter interface {
	// Add 增加计数。n 应为非负数。
	Add(ctx context.Context, n int64, attrs ...Attr)
}

// NoopCounter 是 Counter 的空实现。
type NoopCounter struct{}

// Add 空实现。
func (NoopCounter) Add(context.Context, int64, ...Attr) {}

// NewOTelCounter 创建基于 OpenTelemetry Int64Counter 的计数器。
// opts 复用 Observer 的选项，仅 WithMeterProvider 与 WithInstrumentationName 生效。
func NewOTelCounter(name, description string, opts ...Option) (Counter, error) {
	if name == "" {
		return nil, ErrEmptyMetricName
	}
	cfg := newOTelConfig(opts)
	counter, err := cfg.meterProvider.Meter(cfg.instrumentationName).Int64Counter(
		name,
		metric.WithDescription(description),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateCounter, err)
	}
	return &otelCounter{counter: counter}, nil
}

type otelCounter struct {
	counter metric.Int64Counter
}

// Add 增加计数。ctx 可能已取消，记录时剥离取消信号。
func (c *otelCounter) Add(ctx context.Context, n int64, attrs ...Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.counter.Add(context.WithoutCancel(ctx), n, metric.WithAttributes(otelAttrs(attrs)...))
}

var (
	_ Counter = NoopCounter{}
	_ Counter = (*otelCounter)(nil)
)
