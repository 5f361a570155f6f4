package xkafka

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/omeyang/xserial/pkg/observability/xlog"
)

// =============================================================================
// 控制循环命令
// =============================================================================

type command interface {
	isCommand()
}

type completeCmd struct {
	msg *Message
	ack bool
	err error
}

type dispatchCmd struct {
	start bool
}

type refreshedCmd struct {
	err error
}

type closeCmd struct {
	ctx   context.Context
	reply chan error
}

func (completeCmd) isCommand()  {}
func (dispatchCmd) isCommand()  {}
func (refreshedCmd) isCommand() {}
func (closeCmd) isCommand()     {}

// =============================================================================
// SerialConsumer
// =============================================================================

// SerialConsumer 串行消费会话。
//
// 所有状态（就绪标记、队列占用、暂停/恢复）只在一个控制 goroutine 中变更，
// 应用的 Ack/Nack 以命令形式投递到该 goroutine。
type SerialConsumer struct {
	broker BrokerClient
	topics []string
	opts   *consumerOptions
	log    xlog.Logger

	events  chan Event
	cmds    chan command
	done    chan struct{}
	flushed chan struct{}

	// lifetime 控制初始刷新等后台调用，Close 时取消
	lifetime context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	closed atomic.Bool
	ready  atomic.Bool

	// 以下字段只在控制 goroutine 中访问
	queue      *serialQueue
	connected  bool
	refreshed  bool
	readyFired bool
	outbox     []Event
}

// NewSerialConsumer 基于 broker 创建串行消费会话。
//
// topics 中的每一项可以是逗号分隔的多个主题，空项被忽略；没有任何主题时返回 ErrEmptyTopics。
// 会话创建后立即在后台刷新元数据，失败以 ErrorEvent 形式发出，不阻塞构造。
// 队列初始不派发消息，调用 StartConsuming 后开始派发。
func NewSerialConsumer(broker BrokerClient, topics []string, opts ...ConsumerOption) (*SerialConsumer, error) {
	if broker == nil {
		return nil, ErrNilClient
	}
	normalized := normalizeTopics(topics)
	if len(normalized) == 0 {
		return nil, ErrEmptyTopics
	}

	options := defaultConsumerOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	lifetime, cancel := context.WithCancel(context.Background())
	s := &SerialConsumer{
		broker:   broker,
		topics:   normalized,
		opts:     options,
		log:      options.Logger.With(xlog.Component(componentName), xlog.Group(options.Group)),
		events:   make(chan Event),
		cmds:     make(chan command),
		done:     make(chan struct{}),
		flushed:  make(chan struct{}),
		lifetime: lifetime,
		cancel:   cancel,
		queue:    newSerialQueue(broker),
	}

	s.wg.Add(2)
	go s.run()
	go func() {
		defer s.wg.Done()
		_ = s.Refresh(lifetime) //nolint:errcheck // 失败已作为 ErrorEvent 发出
	}()
	return s, nil
}

// normalizeTopics 按逗号拆分、去空白、丢弃空项。
func normalizeTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	for _, entry := range topics {
		for _, t := range strings.Split(entry, ",") {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// Topics 返回订阅的主题列表。
func (s *SerialConsumer) Topics() []string {
	return append([]string(nil), s.topics...)
}

// Events 返回事件流。CloseEvent 之后通道被关闭。
func (s *SerialConsumer) Events() <-chan Event {
	return s.events
}

// Ready 报告会话是否已就绪（已连接且元数据刷新成功）。
func (s *SerialConsumer) Ready() bool {
	return s.ready.Load()
}

// StartConsuming 开始向应用派发消息。
func (s *SerialConsumer) StartConsuming() error {
	return s.post(dispatchCmd{start: true})
}

// StopConsuming 停止派发新消息，在途消息仍可 Ack/Nack。
func (s *SerialConsumer) StopConsuming() error {
	return s.post(dispatchCmd{start: false})
}

// Refresh 刷新订阅主题的元数据。成功后满足就绪条件之一，失败时同时发出 ErrorEvent。
func (s *SerialConsumer) Refresh(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.broker.RefreshMetadata(ctx, s.topics)
	if s.closed.Load() {
		return err
	}
	if postErr := s.post(refreshedCmd{err: err}); postErr != nil && err == nil {
		return postErr
	}
	return err
}

// Close 关闭 broker 连接（不强制提交 offset），发出 CloseEvent 并关闭事件流。
//
// 关闭错误以 ErrorEvent 发出并返回。Close 不等待应用读取事件：剩余事件（以 CloseEvent 结尾）
// 在后台按序投递，ctx 结束时丢弃未送出的部分并关闭事件流。重复调用返回 ErrClosed。
func (s *SerialConsumer) Close(ctx context.Context) error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s.cancel()

	reply := make(chan error, 1)
	s.cmds <- closeCmd{ctx: ctx, reply: reply}
	err := <-reply
	s.wg.Wait()
	return err
}

// post 把命令交给控制循环，会话已退出时返回 ErrClosed。
func (s *SerialConsumer) post(cmd command) error {
	select {
	case s.cmds <- cmd:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// complete 绑定到派发出去的消息上。
func (s *SerialConsumer) complete(m *Message, ack bool, err error) error {
	return s.post(completeCmd{msg: m, ack: ack, err: err})
}

// =============================================================================
// 控制循环
// =============================================================================

func (s *SerialConsumer) run() {
	defer s.wg.Done()
	defer close(s.done)

	brokerEvents := s.broker.Events()
	for {
		var out chan<- Event
		var next Event
		if len(s.outbox) > 0 {
			out = s.events
			next = s.outbox[0]
		}

		select {
		case ev, ok := <-brokerEvents:
			if !ok {
				brokerEvents = nil
				continue
			}
			s.handleBroker(ev)
		case cmd := <-s.cmds:
			if c, ok := cmd.(closeCmd); ok {
				s.shutdown(c)
				return
			}
			s.handleCommand(cmd)
		case out <- next:
			s.outbox[0] = nil
			s.outbox = s.outbox[1:]
		}
		s.dispatch()
	}
}

func (s *SerialConsumer) emit(ev Event) {
	s.outbox = append(s.outbox, ev)
}

func (s *SerialConsumer) emitError(err error) {
	err = normalizeError(err)
	s.log.Warn(s.lifetime, "consumer error", xlog.Err(err))
	s.emit(ErrorEvent{Err: err})
}

func (s *SerialConsumer) handleBroker(ev BrokerEvent) {
	switch e := ev.(type) {
	case BrokerConnected:
		s.connected = true
		s.emit(ConnectEvent{})
		s.checkReady()
	case BrokerMessage:
		if e.Message == nil {
			return
		}
		s.count(e.Message.Topic, countConsumed)
		if err := s.queue.enqueue(e.Message); err != nil {
			s.emitError(err)
		}
	case BrokerError:
		if e.Err != nil {
			s.emitError(e.Err)
		}
	case BrokerBatchDone:
		s.log.Debug(s.lifetime, "batch done", xlog.Topic(e.Topic), xlog.Partition(e.Partition))
	}
}

func (s *SerialConsumer) handleCommand(cmd command) {
	switch c := cmd.(type) {
	case completeCmd:
		m := c.msg
		if c.ack {
			s.count(m.Topic, countAck)
			s.emit(AckEvent{Message: m})
		} else {
			s.count(m.Topic, countNack)
			s.emit(NackEvent{Message: m, Err: c.err})
		}
		if err := s.queue.complete(m); err != nil {
			s.emitError(err)
		}
	case dispatchCmd:
		if c.start {
			s.queue.start()
		} else {
			s.queue.stop()
		}
	case refreshedCmd:
		if c.err != nil {
			s.emitError(c.err)
			return
		}
		s.refreshed = true
		s.checkReady()
	}
}

// checkReady 两个条件都满足时发出 ReadyEvent，只发一次。
func (s *SerialConsumer) checkReady() {
	if s.readyFired || !s.connected || !s.refreshed {
		return
	}
	s.readyFired = true
	s.ready.Store(true)
	s.log.Info(s.lifetime, "consumer ready", slog.Any("topics", s.topics))
	s.emit(ReadyEvent{})
}

// dispatch 队列允许时派发下一条消息。
func (s *SerialConsumer) dispatch() {
	m := s.queue.next()
	if m == nil {
		return
	}
	m.complete = s.complete
	s.emit(MessageEvent{Message: m})
}

func (s *SerialConsumer) count(topic, typ string) {
	s.opts.Counter.Add(s.lifetime, 1, countAttrs(topic, s.opts.Group, typ)...)
}

// shutdown 关闭 broker 并发出 CloseEvent，剩余事件交给 flush。
func (s *SerialConsumer) shutdown(c closeCmd) {
	err := s.broker.Close(false)
	if err != nil {
		s.emitError(err)
	}
	s.emit(CloseEvent{})
	s.queue.reset()

	tail := s.outbox
	s.outbox = nil
	go s.flush(c.ctx, tail)
	c.reply <- err
}

// flush 按序投递 tail 后关闭事件流，ctx 结束时丢弃未送出的事件。
func (s *SerialConsumer) flush(ctx context.Context, tail []Event) {
	defer close(s.flushed)
	defer close(s.events)
	for i, ev := range tail {
		select {
		case s.events <- ev:
		case <-ctx.Done():
			s.log.Warn(context.Background(), "dropping undelivered events on close", xlog.Count(int64(len(tail)-i)))
			return
		}
	}
	s.log.Info(context.Background(), "consumer closed")
}
