package xkafka

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// DefaultDeferTopic 延迟信封的默认主题。
	DefaultDeferTopic = "messages.defer"

	// DefaultDeferDelay 默认滑动窗口。
	DefaultDeferDelay = 300 * time.Second

	// envelopeContentType 信封记录的 content-type 头。
	envelopeContentType = "application/vnd.xserial.defer+json"

	headerContentType = "content-type"
)

// Record 是一条待发送的记录。Value 在 JSON 中以 base64 编码。
type Record struct {
	Topic   string            `json:"topic"`
	Key     string            `json:"key,omitempty"`
	Value   []byte            `json:"value"`
	Headers map[string]string `json:"headers,omitempty"`
}

// DeferOptions 延迟投递参数。
type DeferOptions struct {
	// Topic 信封发布的主题，默认 DefaultDeferTopic。
	Topic string

	// Identifier 延迟分组标识，必填。同一标识的信封由外部服务合并计时。
	Identifier string

	// Delay 滑动窗口，同一标识每来一个新信封重新计时，按整秒写入信封。
	// 零值表示未设置，使用 DefaultDeferDelay；不足 1 秒的非零值返回 ErrInvalidDeferParams。
	Delay time.Duration

	// TTL 硬上限，自第一个信封起超过 TTL 必须投递。小于 1 秒时不走延迟，直接发送。
	TTL time.Duration

	// Batch 为 true 时外部服务把同一标识的消息合并投递。
	Batch bool
}

// immediate 报告是否跳过信封直接发送。
func (o DeferOptions) immediate() bool {
	return o.TTL < time.Second
}

// Envelope 交给外部延迟投递服务的信封，delay 和 ttl 单位为秒。
type Envelope struct {
	Identifier string   `json:"identifier"`
	Delay      int64    `json:"delay"`
	Messages   []Record `json:"messages"`
	Batch      bool     `json:"batch"`
	TTL        int64    `json:"ttl"`
}

// NewEnvelope 按参数构建信封。records 为空、Identifier 为空或 Delay 非法时返回 ErrInvalidDeferParams。
func NewEnvelope(records []Record, opts DeferOptions) (Envelope, error) {
	if len(records) == 0 || opts.Identifier == "" {
		return Envelope{}, ErrInvalidDeferParams
	}
	delay := opts.Delay
	switch {
	case delay == 0:
		delay = DefaultDeferDelay
	case delay < time.Second:
		return Envelope{}, fmt.Errorf("%w: delay %s is below one second", ErrInvalidDeferParams, delay)
	}
	return Envelope{
		Identifier: opts.Identifier,
		Delay:      int64(delay / time.Second),
		Messages:   records,
		Batch:      opts.Batch,
		TTL:        int64(opts.TTL / time.Second),
	}, nil
}

// Record 把信封编码为一条发往 topic 的记录，key 为 Identifier。
func (e Envelope) Record(topic string) (Record, error) {
	if topic == "" {
		topic = DefaultDeferTopic
	}
	data, err := json.Marshal(e)
	if err != nil {
		return Record{}, fmt.Errorf("encode envelope: %w", err)
	}
	return Record{
		Topic:   topic,
		Key:     e.Identifier,
		Value:   data,
		Headers: map[string]string{headerContentType: envelopeContentType},
	}, nil
}

// DecodeEnvelope 解析信封记录的值。
func DecodeEnvelope(data []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if e.Identifier == "" {
		return Envelope{}, fmt.Errorf("%w: missing identifier", ErrInvalidDeferParams)
	}
	return e, nil
}
