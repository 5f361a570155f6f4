package xkafka

import (
	"time"

	"github.com/omeyang/xserial/pkg/observability/xlog"
	"github.com/omeyang/xserial/pkg/observability/xmetrics"
	"github.com/omeyang/xserial/pkg/resilience/xbreaker"
	"github.com/omeyang/xserial/pkg/resilience/xretry"
)

// =============================================================================
// 消费者选项
// =============================================================================

// consumerOptions 串行消费会话及其 broker 适配器的选项。
type consumerOptions struct {
	Logger        xlog.Logger
	Counter       xmetrics.Counter
	Group         string
	Tracer        Tracer
	Backoff       xretry.BackoffPolicy
	Retryer       *xretry.Retryer
	PollTimeout   time.Duration
	ClientTimeout time.Duration
}

func defaultConsumerOptions() *consumerOptions {
	return &consumerOptions{
		Logger:        xlog.Discard(),
		Counter:       xmetrics.NoopCounter{},
		Group:         defaultGroupID,
		Tracer:        NoopTracer{},
		Backoff:       xretry.NewExponentialBackoff(),
		Retryer:       xretry.NewRetryer(),
		PollTimeout:   100 * time.Millisecond,
		ClientTimeout: 5 * time.Second,
	}
}

// ConsumerOption 定义消费会话的配置选项函数类型。
type ConsumerOption func(*consumerOptions)

// WithConsumerLogger 设置日志记录器，默认丢弃。
func WithConsumerLogger(logger xlog.Logger) ConsumerOption {
	return func(o *consumerOptions) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithConsumerCounter 设置 consumed/ack/nack 计数器。
func WithConsumerCounter(counter xmetrics.Counter) ConsumerOption {
	return func(o *consumerOptions) {
		if counter != nil {
			o.Counter = counter
		}
	}
}

// WithConsumerGroup 设置计数器属性中的消费组名。
// NewKafkaSerialConsumer 使用 ConsumerConfig.GroupID，无需设置。
func WithConsumerGroup(group string) ConsumerOption {
	return func(o *consumerOptions) {
		if group != "" {
			o.Group = group
		}
	}
}

// WithConsumerTracer 设置从消息头提取追踪上下文的 Tracer。
func WithConsumerTracer(tracer Tracer) ConsumerOption {
	return func(o *consumerOptions) {
		if tracer != nil {
			o.Tracer = tracer
		}
	}
}

// WithConsumerBackoff 设置轮询出错时的退避策略。
func WithConsumerBackoff(backoff xretry.BackoffPolicy) ConsumerOption {
	return func(o *consumerOptions) {
		if backoff != nil {
			o.Backoff = backoff
		}
	}
}

// WithConsumerRetryer 设置元数据刷新的重试器。
func WithConsumerRetryer(r *xretry.Retryer) ConsumerOption {
	return func(o *consumerOptions) {
		if r != nil {
			o.Retryer = r
		}
	}
}

// WithConsumerPollTimeout 设置单次 Poll 超时。
func WithConsumerPollTimeout(d time.Duration) ConsumerOption {
	return func(o *consumerOptions) {
		if d > 0 {
			o.PollTimeout = d
		}
	}
}

// WithConsumerClientTimeout 设置元数据请求超时。
func WithConsumerClientTimeout(d time.Duration) ConsumerOption {
	return func(o *consumerOptions) {
		if d > 0 {
			o.ClientTimeout = d
		}
	}
}

// =============================================================================
// 生产者选项
// =============================================================================

// producerOptions 包含 Kafka Producer 的配置选项。
type producerOptions struct {
	Logger        xlog.Logger
	Tracer        Tracer
	Observer      xmetrics.Observer
	Retryer       *xretry.Retryer
	Breaker       *xbreaker.Breaker
	FlushTimeout  time.Duration
	HealthTimeout time.Duration
}

func defaultProducerOptions() *producerOptions {
	return &producerOptions{
		Logger:        xlog.Discard(),
		Tracer:        NoopTracer{},
		Observer:      xmetrics.NoopObserver{},
		Retryer:       xretry.NewRetryer(),
		FlushTimeout:  10 * time.Second,
		HealthTimeout: 5 * time.Second,
	}
}

// ProducerOption 定义 Kafka Producer 的配置选项函数类型。
type ProducerOption func(*producerOptions)

// WithProducerLogger 设置日志记录器，默认丢弃。
func WithProducerLogger(logger xlog.Logger) ProducerOption {
	return func(o *producerOptions) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithProducerTracer 设置链路追踪器。
func WithProducerTracer(tracer Tracer) ProducerOption {
	return func(o *producerOptions) {
		if tracer != nil {
			o.Tracer = tracer
		}
	}
}

// WithProducerObserver 设置统一观测接口。
func WithProducerObserver(observer xmetrics.Observer) ProducerOption {
	return func(o *producerOptions) {
		if observer != nil {
			o.Observer = observer
		}
	}
}

// WithProducerRetryer 设置元数据刷新的重试器。
func WithProducerRetryer(r *xretry.Retryer) ProducerOption {
	return func(o *producerOptions) {
		if r != nil {
			o.Retryer = r
		}
	}
}

// WithProducerBreaker 设置发布熔断器。
// 熔断打开时 Send/Defer 直接返回 *xbreaker.BreakerError，不再提交到 librdkafka。
func WithProducerBreaker(b *xbreaker.Breaker) ProducerOption {
	return func(o *producerOptions) {
		if b != nil {
			o.Breaker = b
		}
	}
}

// WithProducerFlushTimeout 设置关闭时的刷新超时时间。
func WithProducerFlushTimeout(d time.Duration) ProducerOption {
	return func(o *producerOptions) {
		if d > 0 {
			o.FlushTimeout = d
		}
	}
}

// WithProducerHealthTimeout 设置健康检查和元数据刷新超时时间。
func WithProducerHealthTimeout(d time.Duration) ProducerOption {
	return func(o *producerOptions) {
		if d > 0 {
			o.HealthTimeout = d
		}
	}
}
