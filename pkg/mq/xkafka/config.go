package xkafka

import (
	"fmt"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/google/uuid"
)

const (
	defaultGroupID  = "kafka-node"
	defaultClientID = "xserial"
)

// 起始 offset，对应 auto.offset.reset。
const (
	OffsetLatest   = "latest"
	OffsetEarliest = "earliest"
	OffsetNone     = "none"
)

// =============================================================================
// 消费者配置
// =============================================================================

// ConsumerConfig 消费者连接配置，字段带 koanf 标签以便 xconf 直接加载。
type ConsumerConfig struct {
	// Host 逗号分隔的 broker 地址。
	Host   string   `koanf:"host" json:"host"`
	Topics []string `koanf:"topics" json:"topics"`

	GroupID    string `koanf:"group_id" json:"group_id"`
	ClientID   string `koanf:"client_id" json:"client_id"`
	AutoCommit bool   `koanf:"auto_commit" json:"auto_commit"`

	AutoCommitInterval time.Duration `koanf:"auto_commit_interval" json:"auto_commit_interval"`

	// Protocol 分区分配策略，按优先级排列。
	Protocol []string `koanf:"protocol" json:"protocol"`

	// FromOffset 没有已提交 offset 时的起点：latest、earliest 或 none。
	FromOffset string `koanf:"from_offset" json:"from_offset"`

	FetchMaxWait  time.Duration `koanf:"fetch_max_wait" json:"fetch_max_wait"`
	FetchMinBytes int           `koanf:"fetch_min_bytes" json:"fetch_min_bytes"`

	// FetchMaxBytes 单分区单次拉取上限。
	FetchMaxBytes int `koanf:"fetch_max_bytes" json:"fetch_max_bytes"`

	// Extra 原样写入 ConfigMap 的 librdkafka 配置，优先级最高。
	Extra map[string]string `koanf:"extra" json:"extra"`
}

// DefaultConsumerConfig 返回默认消费者配置。
func DefaultConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		Host:               "localhost:9092",
		GroupID:            defaultGroupID,
		ClientID:           defaultClientID,
		AutoCommit:         true,
		AutoCommitInterval: 5 * time.Second,
		Protocol:           []string{"roundrobin"},
		FromOffset:         OffsetLatest,
		FetchMaxWait:       100 * time.Millisecond,
		FetchMinBytes:      1,
		FetchMaxBytes:      50 * 1024,
	}
}

// Validate 检查配置，返回的错误包装 ErrInvalidConfig 或 ErrEmptyTopics。
func (c ConsumerConfig) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("%w: empty host", ErrInvalidConfig)
	}
	if c.GroupID == "" {
		return fmt.Errorf("%w: empty group id", ErrInvalidConfig)
	}
	if len(normalizeTopics(c.Topics)) == 0 {
		return ErrEmptyTopics
	}
	switch c.FromOffset {
	case "", OffsetLatest, OffsetEarliest, OffsetNone:
	default:
		return fmt.Errorf("%w: unknown from offset %q", ErrInvalidConfig, c.FromOffset)
	}
	if c.AutoCommitInterval < 0 || c.FetchMaxWait < 0 || c.FetchMinBytes < 0 || c.FetchMaxBytes < 0 {
		return fmt.Errorf("%w: negative interval or fetch size", ErrInvalidConfig)
	}
	return nil
}

// ToConfigMap 转换为 librdkafka 配置。零值字段不写入，交给 librdkafka 默认值。
func (c ConsumerConfig) ToConfigMap() (*kafka.ConfigMap, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	m := kafka.ConfigMap{
		"bootstrap.servers":  c.Host,
		"group.id":           c.GroupID,
		"client.id":          clientID(c.ClientID),
		"enable.auto.commit": c.AutoCommit,
	}
	if c.AutoCommitInterval > 0 {
		m["auto.commit.interval.ms"] = int(c.AutoCommitInterval.Milliseconds())
	}
	if len(c.Protocol) > 0 {
		m["partition.assignment.strategy"] = strings.Join(c.Protocol, ",")
	}
	switch c.FromOffset {
	case OffsetEarliest:
		m["auto.offset.reset"] = "earliest"
	case OffsetNone:
		m["auto.offset.reset"] = "error"
	case OffsetLatest:
		m["auto.offset.reset"] = "latest"
	}
	if c.FetchMaxWait > 0 {
		m["fetch.wait.max.ms"] = int(c.FetchMaxWait.Milliseconds())
	}
	if c.FetchMinBytes > 0 {
		m["fetch.min.bytes"] = c.FetchMinBytes
	}
	// fetch.max.bytes 不能小于 message.max.bytes，按分区上限映射
	if c.FetchMaxBytes > 0 {
		m["max.partition.fetch.bytes"] = c.FetchMaxBytes
	}
	if err := applyExtra(m, c.Extra); err != nil {
		return nil, err
	}
	return &m, nil
}

// =============================================================================
// 生产者配置
// =============================================================================

// ProducerConfig 生产者连接配置。
type ProducerConfig struct {
	Host     string `koanf:"host" json:"host"`
	ClientID string `koanf:"client_id" json:"client_id"`

	// RequireAcks 对应 acks：0 不等待，1 leader 确认，-1 全部 ISR 确认。
	RequireAcks int           `koanf:"require_acks" json:"require_acks"`
	AckTimeout  time.Duration `koanf:"ack_timeout" json:"ack_timeout"`

	// Partitioner librdkafka 分区器名称。
	Partitioner string `koanf:"partitioner" json:"partitioner"`

	Extra map[string]string `koanf:"extra" json:"extra"`
}

// DefaultProducerConfig 返回默认生产者配置，按 key 分区。
func DefaultProducerConfig() ProducerConfig {
	return ProducerConfig{
		Host:        "kafka:9092",
		ClientID:    defaultClientID,
		RequireAcks: 1,
		AckTimeout:  100 * time.Millisecond,
		Partitioner: "murmur2_random",
	}
}

// Validate 检查配置，返回的错误包装 ErrInvalidConfig。
func (c ProducerConfig) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("%w: empty host", ErrInvalidConfig)
	}
	if c.RequireAcks < -1 {
		return fmt.Errorf("%w: require acks %d", ErrInvalidConfig, c.RequireAcks)
	}
	if c.AckTimeout < 0 {
		return fmt.Errorf("%w: negative ack timeout", ErrInvalidConfig)
	}
	return nil
}

// ToConfigMap 转换为 librdkafka 配置。
func (c ProducerConfig) ToConfigMap() (*kafka.ConfigMap, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	m := kafka.ConfigMap{
		"bootstrap.servers": c.Host,
		"client.id":         clientID(c.ClientID),
		"acks":              c.RequireAcks,
	}
	if c.AckTimeout > 0 {
		m["request.timeout.ms"] = int(c.AckTimeout.Milliseconds())
	}
	if c.Partitioner != "" {
		m["partitioner"] = c.Partitioner
	}
	if err := applyExtra(m, c.Extra); err != nil {
		return nil, err
	}
	return &m, nil
}

// clientID 为每个实例追加随机后缀，便于在 broker 侧区分连接。
func clientID(prefix string) string {
	if prefix == "" {
		prefix = defaultClientID
	}
	return prefix + "-" + uuid.NewString()
}

func applyExtra(m kafka.ConfigMap, extra map[string]string) error {
	for k, v := range extra {
		if k == "" {
			return fmt.Errorf("%w: empty extra key", ErrInvalidConfig)
		}
		if err := m.SetKey(k, v); err != nil {
			return fmt.Errorf("set extra key %q: %w", k, err)
		}
	}
	return nil
}
