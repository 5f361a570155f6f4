package xkafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/omeyang/xserial/pkg/observability/xlog"
	"github.com/omeyang/xserial/pkg/observability/xmetrics"
)

// ProducerStats 生产者统计信息。
type ProducerStats struct {
	MessagesProduced int64
	BytesProduced    int64
	Errors           int64
	QueueLength      int
}

// Producer 发送记录，并实现延迟投递协议。
type Producer struct {
	producer kafkaProducer
	options  *producerOptions
	log      xlog.Logger

	// mu 保护 GetMetadata、Len、Flush、Close 等管理操作。
	// Produce 本身线程安全，不加锁。
	mu     sync.Mutex
	closed atomic.Bool
	drain  sync.WaitGroup

	messagesProduced atomic.Int64
	bytesProduced    atomic.Int64
	errors           atomic.Int64
}

// NewProducer 创建生产者。config 必须包含 "bootstrap.servers"，会被复制。
func NewProducer(config *kafka.ConfigMap, opts ...ProducerOption) (*Producer, error) {
	if config == nil {
		return nil, ErrNilConfig
	}

	cloned := &kafka.ConfigMap{}
	for k, v := range *config {
		if err := cloned.SetKey(k, v); err != nil {
			return nil, fmt.Errorf("clone config key %q: %w", k, err)
		}
	}

	producer, err := kafka.NewProducer(cloned)
	if err != nil {
		return nil, err
	}
	return newProducer(producer, opts...), nil
}

// NewProducerFromConfig 按 ProducerConfig 创建生产者。
func NewProducerFromConfig(cfg ProducerConfig, opts ...ProducerOption) (*Producer, error) {
	configMap, err := cfg.ToConfigMap()
	if err != nil {
		return nil, err
	}
	return NewProducer(configMap, opts...)
}

func newProducer(producer kafkaProducer, opts ...ProducerOption) *Producer {
	options := defaultProducerOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	p := &Producer{
		producer: producer,
		options:  options,
		log:      options.Logger.With(xlog.Component(componentName)),
	}

	// 所有投递报告都走调用方的 deliveryChan，Events() 上只剩客户端级错误和日志
	p.drain.Add(1)
	go func() {
		defer p.drain.Done()
		for ev := range producer.Events() {
			switch e := ev.(type) {
			case kafka.Error:
				p.errors.Add(1)
				p.log.Warn(context.Background(), "kafka producer error", xlog.Err(e))
			case *kafka.Message:
				if e.TopicPartition.Error != nil {
					p.errors.Add(1)
					p.log.Warn(context.Background(), "orphan delivery failed",
						xlog.Topic(topicOf(e)), xlog.Err(e.TopicPartition.Error))
				}
			}
		}
	}()
	return p
}

// Send 按顺序发送 records 并等待全部投递报告。
//
// 任一记录缺少 topic 时不发送任何记录。投递失败合并后返回；
// ctx 结束时停止等待，已提交的记录仍可能送达。
func (p *Producer) Send(ctx context.Context, records ...Record) (err error) {
	if p.closed.Load() {
		return ErrClosed
	}
	if len(records) == 0 {
		return nil
	}
	if err := validateRecords(records); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, span := xmetrics.Start(ctx, p.options.Observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: "send",
		Kind:      xmetrics.KindProducer,
		Attrs:     append(kafkaAttrs(records[0].Topic), xmetrics.Int("messaging.batch.message_count", len(records))),
	})
	defer func() {
		span.End(xmetrics.Result{Err: err})
	}()

	return p.produce(ctx, records)
}

func validateRecords(records []Record) error {
	var errs []error
	for i, r := range records {
		if r.Topic == "" {
			errs = append(errs, fmt.Errorf("%w: record %d", ErrEmptyTopic, i))
		}
	}
	return errors.Join(errs...)
}

func (p *Producer) produce(ctx context.Context, records []Record) error {
	if p.options.Breaker == nil {
		return p.publish(ctx, records)
	}
	return p.options.Breaker.Do(ctx, func(ctx context.Context) error {
		return p.publish(ctx, records)
	})
}

func (p *Producer) publish(ctx context.Context, records []Record) error {
	// 容量等于记录数，ctx 提前结束时迟到的报告不会阻塞 librdkafka
	delivery := make(chan kafka.Event, len(records))

	var errs []error
	sent := 0
	for _, r := range records {
		msg := toKafkaMessage(r)
		injectTrace(ctx, p.options.Tracer, msg)
		if err := p.producer.Produce(msg, delivery); err != nil {
			p.errors.Add(1)
			errs = append(errs, fmt.Errorf("produce to %s: %w", r.Topic, err))
			continue
		}
		sent++
	}

	for range sent {
		select {
		case ev := <-delivery:
			errs = append(errs, p.report(ev))
		case <-ctx.Done():
			return errors.Join(append(errs, ctx.Err())...)
		}
	}
	return errors.Join(errs...)
}

// report 处理一条投递报告。
func (p *Producer) report(ev kafka.Event) error {
	switch e := ev.(type) {
	case *kafka.Message:
		if e.TopicPartition.Error != nil {
			p.errors.Add(1)
			return fmt.Errorf("deliver to %s: %w", topicOf(e), e.TopicPartition.Error)
		}
		p.messagesProduced.Add(1)
		p.bytesProduced.Add(int64(len(e.Value)))
		return nil
	case kafka.Error:
		p.errors.Add(1)
		return e
	default:
		return nil
	}
}

func toKafkaMessage(r Record) *kafka.Message {
	topic := r.Topic
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          r.Value,
	}
	if r.Key != "" {
		msg.Key = []byte(r.Key)
	}
	for k, v := range r.Headers {
		setHeader(msg, k, v)
	}
	return msg
}

// Defer 把 records 交给外部延迟投递服务。
//
// records 为空或缺少 Identifier 时返回 ErrInvalidDeferParams，不做任何 I/O。
// TTL 小于 1 秒时直接按 Send 发送原始记录；否则包装为一个信封，
// 以 Identifier 为 key 发往 opts.Topic。
func (p *Producer) Defer(ctx context.Context, records []Record, opts DeferOptions) (err error) {
	envelope, err := NewEnvelope(records, opts)
	if err != nil {
		return err
	}
	if opts.immediate() {
		return p.Send(ctx, records...)
	}
	if p.closed.Load() {
		return ErrClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}

	record, err := envelope.Record(opts.Topic)
	if err != nil {
		return err
	}

	ctx, span := xmetrics.Start(ctx, p.options.Observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: "defer",
		Kind:      xmetrics.KindProducer,
		Attrs: append(kafkaAttrs(record.Topic),
			xmetrics.String("defer.identifier", envelope.Identifier),
			xmetrics.Int64("defer.delay_seconds", envelope.Delay),
			xmetrics.Int64("defer.ttl_seconds", envelope.TTL),
		),
	})
	defer func() {
		span.End(xmetrics.Result{Err: err})
	}()

	return p.produce(ctx, []Record{record})
}

// Health 通过获取 broker 元数据验证连接。
//
// ctx 取消时立即返回，后台请求仍持有锁直到 HealthTimeout。
func (p *Producer) Health(ctx context.Context) (err error) {
	if p.closed.Load() {
		return ErrClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, span := xmetrics.Start(ctx, p.options.Observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: "health",
		Kind:      xmetrics.KindClient,
		Attrs:     kafkaAttrs(""),
	})
	defer func() {
		span.End(xmetrics.Result{Err: err})
	}()

	timeoutMs := int(p.options.HealthTimeout.Milliseconds())
	done := make(chan error, 1)
	go func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.closed.Load() {
			done <- ErrClosed
			return
		}
		if _, err := p.producer.GetMetadata(nil, true, timeoutMs); err != nil {
			done <- fmt.Errorf("kafka producer health check failed: %w", err)
			return
		}
		done <- nil
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// Refresh 逐个刷新 topics 的元数据，失败按重试器重试。
func (p *Producer) Refresh(ctx context.Context, topics ...string) error {
	if p.closed.Load() {
		return ErrClosed
	}
	topics = normalizeTopics(topics)
	if len(topics) == 0 {
		return ErrEmptyTopics
	}

	timeoutMs := int(p.options.HealthTimeout.Milliseconds())
	var errs []error
	for _, topic := range topics {
		err := p.options.Retryer.Do(ctx, func(context.Context) error {
			p.mu.Lock()
			defer p.mu.Unlock()
			t := topic
			md, err := p.producer.GetMetadata(&t, false, timeoutMs)
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

// Stats 返回统计信息。关闭后 QueueLength 为 0。
func (p *Producer) Stats() ProducerStats {
	var queueLen int
	p.mu.Lock()
	if !p.closed.Load() {
		queueLen = p.producer.Len()
	}
	p.mu.Unlock()

	return ProducerStats{
		MessagesProduced: p.messagesProduced.Load(),
		BytesProduced:    p.bytesProduced.Load(),
		Errors:           p.errors.Load(),
		QueueLength:      queueLen,
	}
}

// Close 等待队列中的消息发送完成（受 FlushTimeout 限制）后关闭。重复调用返回 ErrClosed。
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	p.mu.Lock()
	remaining := p.producer.Flush(int(p.options.FlushTimeout.Milliseconds()))
	p.producer.Close()
	p.mu.Unlock()
	p.drain.Wait()

	if remaining > 0 {
		return fmt.Errorf("%w: %d messages still in queue", ErrFlushTimeout, remaining)
	}
	return nil
}
