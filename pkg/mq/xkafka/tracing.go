package xkafka

import (
	"context"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel/propagation"
)

// Tracer 在消息头上传播追踪上下文。
//
// Inject 在生产时调用，Extract 在消费时调用且不应返回 nil。
type Tracer interface {
	Inject(ctx context.Context, carrier map[string]string)
	Extract(carrier map[string]string) context.Context
}

// NoopTracer 不传播任何追踪信息。
type NoopTracer struct{}

// Inject 不做任何事。
func (NoopTracer) Inject(context.Context, map[string]string) {}

// Extract 总是返回 context.Background()。
func (NoopTracer) Extract(map[string]string) context.Context { return context.Background() }

// OTelTracer 用 OpenTelemetry propagator 读写 traceparent/tracestate/baggage。
// Propagator 为 nil 时使用 TraceContext + Baggage 组合。
type OTelTracer struct {
	Propagator propagation.TextMapPropagator
}

var defaultPropagator = propagation.NewCompositeTextMapPropagator(
	propagation.TraceContext{},
	propagation.Baggage{},
)

// NewOTelTracer 返回使用默认 propagator 的 OTelTracer。
func NewOTelTracer() OTelTracer {
	return OTelTracer{Propagator: defaultPropagator}
}

func (t OTelTracer) propagator() propagation.TextMapPropagator {
	if t.Propagator == nil {
		return defaultPropagator
	}
	return t.Propagator
}

// Inject 把 ctx 中的追踪信息写入 carrier，carrier 为 nil 时忽略。
func (t OTelTracer) Inject(ctx context.Context, carrier map[string]string) {
	if carrier == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	t.propagator().Inject(ctx, propagation.MapCarrier(carrier))
}

// Extract 从 carrier 还原追踪上下文。
func (t OTelTracer) Extract(carrier map[string]string) context.Context {
	if carrier == nil {
		return context.Background()
	}
	return t.propagator().Extract(context.Background(), propagation.MapCarrier(carrier))
}

var (
	_ Tracer = NoopTracer{}
	_ Tracer = OTelTracer{}
)

// ============================================================================
// kafka 消息头
// ============================================================================

func headerMap(headers []kafka.Header) map[string]string {
	m := make(map[string]string, len(headers))
	for _, h := range headers {
		m[h.Key] = string(h.Value)
	}
	return m
}

// setHeader 覆盖同名消息头，不存在时追加。
func setHeader(msg *kafka.Message, key, value string) {
	for i := range msg.Headers {
		if msg.Headers[i].Key == key {
			msg.Headers[i].Value = []byte(value)
			return
		}
	}
	msg.Headers = append(msg.Headers, kafka.Header{Key: key, Value: []byte(value)})
}

func injectTrace(ctx context.Context, tracer Tracer, msg *kafka.Message) {
	if tracer == nil || msg == nil {
		return
	}
	carrier := map[string]string{}
	tracer.Inject(ctx, carrier)
	for k, v := range carrier {
		setHeader(msg, k, v)
	}
}

func extractTrace(tracer Tracer, headers map[string]string) context.Context {
	if tracer == nil {
		return context.Background()
	}
	if ctx := tracer.Extract(headers); ctx != nil {
		return ctx
	}
	return context.Background()
}

func topicOf(msg *kafka.Message) string {
	if msg == nil || msg.TopicPartition.Topic == nil {
		return ""
	}
	return *msg.TopicPartition.Topic
}

// fromKafkaMessage 转换为会话消息，追踪上下文从消息头提取。
func fromKafkaMessage(tracer Tracer, km *kafka.Message) *Message {
	headers := headerMap(km.Headers)
	return &Message{
		Topic:     topicOf(km),
		Partition: km.TopicPartition.Partition,
		Offset:    int64(km.TopicPartition.Offset),
		Key:       km.Key,
		Value:     km.Value,
		Headers:   headers,
		Timestamp: km.Timestamp,
		ctx:       extractTrace(tracer, headers),
	}
}
