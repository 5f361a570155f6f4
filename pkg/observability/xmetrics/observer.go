package xmetrics

import (
	"context"
	"strconv"
)

// Kind 跨度类型，映射到 OTel SpanKind。
type Kind int

const (
	KindInternal Kind = iota
	KindClient
	KindProducer
	KindConsumer
)

var kindNames = [...]string{"Internal", "Client", "Producer", "Consumer"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// SpanOptions 跨度参数。Component/Operation 为空时记为 "unknown"。
type SpanOptions struct {
	Component string
	Operation string
	Kind      Kind
	Attrs     []Attr
}

// Result 跨度结果，Err 非 nil 记为失败。
type Result struct {
	Err   error
	Attrs []Attr
}

// Span 一次观测跨度。
type Span interface {
	End(result Result)
}

// Observer 统一观测接口。
type Observer interface {
	Start(ctx context.Context, opts SpanOptions) (context.Context, Span)
}

// NoopObserver 不做任何记录。
type NoopObserver struct{}

func (NoopObserver) Start(ctx context.Context, _ SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx, NoopSpan{}
}

// NoopSpan 空跨度。
type NoopSpan struct{}

func (NoopSpan) End(Result) {}

// Start 用 observer 开始一次观测。
// 返回值总是非 nil：nil ctx 换成 context.Background()，
// nil observer 或 observer 返回 nil 时退化为 NoopSpan。
func Start(ctx context.Context, observer Observer, opts SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if observer == nil {
		return ctx, NoopSpan{}
	}
	spanCtx, span := observer.Start(ctx, opts)
	if spanCtx == nil {
		spanCtx = ctx
	}
	if span == nil {
		span = NoopSpan{}
	}
	return spanCtx, span
}
