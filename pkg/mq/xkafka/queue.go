package xkafka

// flowControl 是队列对 broker 的唯一写操作。
type flowControl interface {
	Pause() error
	Resume() error
}

// serialQueue 串行处理队列：pending 有序等待，inflight 至多一条。
//
// 只在会话控制 goroutine 中使用，不加锁。
//   - 驻留消息（inflight + pending）超过一条时暂停 broker，同一轮饱和只成功暂停一次
//   - 最后一条驻留消息完成（非空变空）时恢复 broker
//   - 创建时不派发，start 后才交出消息，stop 后停止派发新消息
type serialQueue struct {
	flow         flowControl
	pending      []*Message
	inflight     *Message
	dispatching  bool
	brokerPaused bool
}

func newSerialQueue(flow flowControl) *serialQueue {
	return &serialQueue{flow: flow}
}

// len 返回驻留消息数。
func (q *serialQueue) len() int {
	n := len(q.pending)
	if q.inflight != nil {
		n++
	}
	return n
}

// enqueue 追加消息，不阻塞。Pause 失败时返回错误，下一次 enqueue 重试。
func (q *serialQueue) enqueue(m *Message) error {
	q.pending = append(q.pending, m)
	if q.len() > 1 && !q.brokerPaused {
		if err := q.flow.Pause(); err != nil {
			return err
		}
		q.brokerPaused = true
	}
	return nil
}

// next 在允许派发且没有在途消息时取出队首，作为新的在途消息返回。
func (q *serialQueue) next() *Message {
	if !q.dispatching || q.inflight != nil || len(q.pending) == 0 {
		return nil
	}
	m := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	q.inflight = m
	return m
}

// complete 结束在途消息。队列因此变空时恢复 broker，返回 Resume 的错误。
func (q *serialQueue) complete(m *Message) error {
	if m == nil || m != q.inflight {
		return nil
	}
	q.inflight = nil
	if q.len() > 0 {
		return nil
	}
	q.brokerPaused = false
	return q.flow.Resume()
}

func (q *serialQueue) start() {
	q.dispatching = true
}

func (q *serialQueue) stop() {
	q.dispatching = false
}

// reset 丢弃所有驻留消息，会话关闭时调用。
func (q *serialQueue) reset() {
	q.pending = nil
	q.inflight = nil
	q.dispatching = false
}
