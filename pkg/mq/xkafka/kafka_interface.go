package xkafka

import "github.com/confluentinc/confluent-kafka-go/v2/kafka"

//go:generate mockgen -source=kafka_interface.go -destination=mock_kafka_test.go -package=xkafka

// kafkaConsumer 定义适配器用到的消费者操作，用于依赖注入和测试。
// 方法与 *kafka.Consumer 保持一致。
type kafkaConsumer interface {
	SubscribeTopics(topics []string, rebalanceCb kafka.RebalanceCb) error
	Poll(timeoutMs int) kafka.Event
	Assign(partitions []kafka.TopicPartition) error
	Unassign() error
	Assignment() ([]kafka.TopicPartition, error)
	Pause(partitions []kafka.TopicPartition) error
	Resume(partitions []kafka.TopicPartition) error
	GetMetadata(topic *string, allTopics bool, timeoutMs int) (*kafka.Metadata, error)
	Commit() ([]kafka.TopicPartition, error)
	Close() error
}

// kafkaProducer 定义生产者操作。方法与 *kafka.Producer 保持一致。
type kafkaProducer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Events() chan kafka.Event
	GetMetadata(topic *string, allTopics bool, timeoutMs int) (*kafka.Metadata, error)
	Len() int
	Flush(timeoutMs int) int
	Close()
}

// 编译时检查
var (
	_ kafkaConsumer = (*kafka.Consumer)(nil)
	_ kafkaProducer = (*kafka.Producer)(nil)
)
