package xkafka

import (
	"context"
	"sync/atomic"
	"time"
)

// completeFunc 由会话在派发前绑定，把完成结果投递回控制循环。
type completeFunc func(m *Message, ack bool, err error) error

// Message 是一条待处理的 Kafka 消息。
//
// 由会话派发的消息必须恰好调用一次 Ack 或 Nack，第二次调用返回 ErrAlreadyCompleted。
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time

	ctx      context.Context
	done     atomic.Bool
	complete completeFunc
}

// Text 返回按 UTF-8 解码的消息体。
func (m *Message) Text() string {
	return string(m.Value)
}

// Context 返回从消息头提取的追踪上下文，未设置时为 context.Background()。
func (m *Message) Context() context.Context {
	if m.ctx == nil {
		return context.Background()
	}
	return m.ctx
}

// Ack 确认消息处理成功，派发下一条消息。
func (m *Message) Ack() error {
	return m.finish(true, nil)
}

// Nack 标记消息处理失败并附带原因，同样会派发下一条消息。会话不会重投该消息。
func (m *Message) Nack(err error) error {
	return m.finish(false, err)
}

// Completed 报告消息是否已 Ack 或 Nack。
func (m *Message) Completed() bool {
	return m.done.Load()
}

func (m *Message) finish(ack bool, err error) error {
	if m == nil {
		return ErrNilMessage
	}
	if m.complete == nil {
		return ErrNotDelivered
	}
	if !m.done.CompareAndSwap(false, true) {
		return ErrAlreadyCompleted
	}
	return m.complete(m, ack, err)
}
