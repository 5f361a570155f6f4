package xkafka

import (
	"errors"
	"strings"
)

var (
	// ErrNilClient 表示传入的客户端为空。
	ErrNilClient = errors.New("xkafka: nil client")

	// ErrNilMessage 表示传入的消息为空。
	ErrNilMessage = errors.New("xkafka: nil message")

	// ErrClosed 表示会话或生产者已关闭。
	ErrClosed = errors.New("xkafka: closed")

	// ErrNilConfig 表示传入的配置为空。
	ErrNilConfig = errors.New("xkafka: nil config")

	// ErrInvalidConfig 表示配置值不合法。
	ErrInvalidConfig = errors.New("xkafka: invalid config")

	// ErrFlushTimeout 表示关闭时消息刷新超时。
	ErrFlushTimeout = errors.New("xkafka: flush timeout")

	// ErrEmptyTopics 表示订阅的主题列表为空。
	ErrEmptyTopics = errors.New("xkafka: empty topics")

	// ErrEmptyTopic 表示待发送记录缺少 topic。
	ErrEmptyTopic = errors.New("xkafka: record topic is empty")

	// ErrInvalidDeferParams 表示 Defer 的消息为空或缺少 identifier。
	ErrInvalidDeferParams = errors.New("xkafka: invalid deferred message params")

	// ErrAlreadyCompleted 表示消息已经 Ack 或 Nack 过。
	ErrAlreadyCompleted = errors.New("xkafka: message already completed")

	// ErrNotDelivered 表示消息不是由会话派发的，没有绑定完成回调。
	ErrNotDelivered = errors.New("xkafka: message was not delivered by a session")
)

// consumerErrorName ConsumerError 的固定分类名。
const consumerErrorName = "ConsumerError"

// ConsumerError 由 broker 上报的一组错误合并而成。
// Error() 以 ";" 连接各错误信息，Unwrap() 保留原始错误供 errors.Is/As 使用。
type ConsumerError struct {
	errs []error
}

// Name 返回固定分类名 "ConsumerError"。
func (e *ConsumerError) Name() string {
	return consumerErrorName
}

func (e *ConsumerError) Error() string {
	msgs := make([]string, 0, len(e.errs))
	for _, err := range e.errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, ";")
}

func (e *ConsumerError) Unwrap() []error {
	return e.errs
}

// normalizeError 把多错误（errors.Join 或任何 Unwrap() []error）合并为 *ConsumerError，
// 单个错误原样返回。
func normalizeError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*ConsumerError); ok {
		return err
	}
	multi, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return err
	}
	errs := make([]error, 0, len(multi.Unwrap()))
	for _, e := range multi.Unwrap() {
		if e != nil {
			errs = append(errs, e)
		}
	}
	if len(errs) == 0 {
		return err
	}
	return &ConsumerError{errs: errs}
}
