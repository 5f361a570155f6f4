package xkafka

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/omeyang/xserial/internal/mqcore"
	"github.com/omeyang/xserial/pkg/observability/xlog"
	"github.com/omeyang/xserial/pkg/resilience/xretry"
)

// brokerEventBuffer 适配器事件通道容量，满时轮询 goroutine 阻塞。
const brokerEventBuffer = 64

// confluentBroker 用 confluent-kafka-go 实现 BrokerClient。
//
// 轮询 goroutine 独占 Poll，分区分配/撤销也在其中处理；
// Pause/Resume/RefreshMetadata/Close 通过 mu 与之串行化。
type confluentBroker struct {
	consumer kafkaConsumer
	options  *consumerOptions
	log      xlog.Logger

	events chan BrokerEvent
	cancel context.CancelFunc
	loop   sync.WaitGroup

	mu     sync.Mutex
	paused bool
	closed bool
}

// NewConfluentBroker 基于 librdkafka 配置创建 broker 并订阅 topics。
//
// config 会被复制，调用方的 ConfigMap 不受影响。适配器自行处理分区再均衡，
// 并开启分区末尾事件作为批次结束信号。
func NewConfluentBroker(config *kafka.ConfigMap, topics []string, opts ...ConsumerOption) (BrokerClient, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	topics = normalizeTopics(topics)
	if len(topics) == 0 {
		return nil, ErrEmptyTopics
	}

	cloned := &kafka.ConfigMap{}
	for k, v := range *config {
		if err := cloned.SetKey(k, v); err != nil {
			return nil, fmt.Errorf("clone config key %q: %w", k, err)
		}
	}
	for k, v := range map[string]kafka.ConfigValue{
		"go.application.rebalance.enable": true,
		"enable.partition.eof":            true,
	} {
		if err := cloned.SetKey(k, v); err != nil {
			return nil, fmt.Errorf("set %s: %w", k, err)
		}
	}

	consumer, err := kafka.NewConsumer(cloned)
	if err != nil {
		return nil, err
	}
	b, err := newConfluentBroker(consumer, topics, opts...)
	if err != nil {
		return nil, errors.Join(err, consumer.Close())
	}
	return b, nil
}

func newConfluentBroker(consumer kafkaConsumer, topics []string, opts ...ConsumerOption) (*confluentBroker, error) {
	options := defaultConsumerOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	if err := consumer.SubscribeTopics(topics, nil); err != nil {
		return nil, fmt.Errorf("subscribe %v: %w", topics, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &confluentBroker{
		consumer: consumer,
		options:  options,
		log:      options.Logger.With(xlog.Component(componentName)),
		events:   make(chan BrokerEvent, brokerEventBuffer),
		cancel:   cancel,
	}

	b.loop.Add(1)
	go func() {
		defer b.loop.Done()
		poller := mqcore.Poller{
			Step:    b.pollOnce,
			Backoff: options.Backoff,
			OnError: func(err error, _ int) { b.emit(ctx, BrokerError{Err: err}) },
		}
		_ = poller.Run(ctx) //nolint:errcheck // 只会返回 ctx 错误
	}()
	return b, nil
}

// Events 返回 broker 事件流。
func (b *confluentBroker) Events() <-chan BrokerEvent {
	return b.events
}

// emit 投递事件，ctx 取消时放弃。
func (b *confluentBroker) emit(ctx context.Context, ev BrokerEvent) {
	select {
	case b.events <- ev:
	case <-ctx.Done():
	}
}

// pollOnce 处理一次 Poll 结果。返回错误触发退避。
func (b *confluentBroker) pollOnce(ctx context.Context) error {
	ev := b.consumer.Poll(int(b.options.PollTimeout.Milliseconds()))
	if ev == nil {
		return nil
	}

	switch e := ev.(type) {
	case *kafka.Message:
		if e.TopicPartition.Error != nil {
			b.emit(ctx, BrokerError{Err: e.TopicPartition.Error})
			return nil
		}
		b.emit(ctx, BrokerMessage{Message: fromKafkaMessage(b.options.Tracer, e)})
	case kafka.AssignedPartitions:
		if err := b.assign(e.Partitions); err != nil {
			return err
		}
		b.log.Info(ctx, "partitions assigned", xlog.Count(int64(len(e.Partitions))))
		b.emit(ctx, BrokerConnected{})
	case kafka.RevokedPartitions:
		b.mu.Lock()
		err := b.consumer.Unassign()
		b.mu.Unlock()
		if err != nil {
			return fmt.Errorf("unassign: %w", err)
		}
		b.log.Info(ctx, "partitions revoked", xlog.Count(int64(len(e.Partitions))))
	case kafka.PartitionEOF:
		topic := ""
		if e.Topic != nil {
			topic = *e.Topic
		}
		b.emit(ctx, BrokerBatchDone{Topic: topic, Partition: e.Partition})
	case kafka.Error:
		return e
	default:
		b.log.Debug(ctx, "ignored kafka event", xlog.Operation(ev.String()))
	}
	return nil
}

// assign 接受新分配，若当前处于暂停状态则新分区也立即暂停。
func (b *confluentBroker) assign(partitions []kafka.TopicPartition) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.consumer.Assign(partitions); err != nil {
		return fmt.Errorf("assign: %w", err)
	}
	if b.paused && len(partitions) > 0 {
		if err := b.consumer.Pause(partitions); err != nil {
			return fmt.Errorf("pause assigned partitions: %w", err)
		}
	}
	return nil
}

// Pause 暂停当前分配的全部分区。
func (b *confluentBroker) Pause() error {
	return b.setPaused(true)
}

// Resume 恢复当前分配的全部分区。
func (b *confluentBroker) Resume() error {
	return b.setPaused(false)
}

func (b *confluentBroker) setPaused(paused bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	if b.paused == paused {
		return nil
	}
	assignment, err := b.consumer.Assignment()
	if err != nil {
		return fmt.Errorf("assignment: %w", err)
	}
	if len(assignment) > 0 {
		if paused {
			err = b.consumer.Pause(assignment)
		} else {
			err = b.consumer.Resume(assignment)
		}
		if err != nil {
			return err
		}
	}
	b.paused = paused
	return nil
}

// topicError 返回元数据中 topic 条目携带的错误，例如主题不存在。
func topicError(md *kafka.Metadata, topic string) error {
	if md == nil {
		return nil
	}
	tm, ok := md.Topics[topic]
	if !ok || tm.Error.Code() == kafka.ErrNoError {
		return nil
	}
	return tm.Error
}

// RefreshMetadata 逐个主题拉取元数据，失败按重试器重试，各主题错误合并返回。
func (b *confluentBroker) RefreshMetadata(ctx context.Context, topics []string) error {
	timeoutMs := int(b.options.ClientTimeout.Milliseconds())
	var errs []error
	for _, topic := range topics {
		err := b.options.Retryer.Do(ctx, func(context.Context) error {
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.closed {
				return xretry.NewPermanentError(ErrClosed)
			}
			t := topic
			md, err := b.consumer.GetMetadata(&t, false, timeoutMs)
			if err != nil {
				return err
			}
			return topicError(md, topic)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("refresh metadata %s: %w", topic, err))
		}
	}
	return errors.Join(errs...)
}

// Close 停止轮询并关闭消费者，forceCommit 为 true 时先同步提交 offset。重复调用返回 ErrClosed。
func (b *confluentBroker) Close(forceCommit bool) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	b.loop.Wait()

	var commitErr error
	if forceCommit {
		if _, err := b.consumer.Commit(); err != nil {
			var kafkaErr kafka.Error
			// ErrNoOffset 表示没有 offset 需要提交
			if !errors.As(err, &kafkaErr) || kafkaErr.Code() != kafka.ErrNoOffset {
				commitErr = fmt.Errorf("commit offset on close failed: %w", err)
			}
		}
	}
	closeErr := b.consumer.Close()
	close(b.events)
	return errors.Join(commitErr, closeErr)
}

var _ BrokerClient = (*confluentBroker)(nil)

// NewKafkaSerialConsumer 按 ConsumerConfig 创建连接真实 Kafka 的串行消费会话。
// 计数器属性中的消费组取 cfg.GroupID。
func NewKafkaSerialConsumer(cfg ConsumerConfig, opts ...ConsumerOption) (*SerialConsumer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	configMap, err := cfg.ToConfigMap()
	if err != nil {
		return nil, err
	}
	opts = append([]ConsumerOption{WithConsumerGroup(cfg.GroupID)}, opts...)
	broker, err := NewConfluentBroker(configMap, cfg.Topics, opts...)
	if err != nil {
		return nil, err
	}
	session, err := NewSerialConsumer(broker, cfg.Topics, opts...)
	if err != nil {
		return nil, errors.Join(err, broker.Close(false))
	}
	return session, nil
}
