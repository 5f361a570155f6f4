package xkafka

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/omeyang/xserial/pkg/observability/xmetrics"
)

const eventTimeout = 2 * time.Second

// fakeBroker 内存 BrokerClient，记录 Pause/Resume/Refresh/Close 调用。
type fakeBroker struct {
	events chan BrokerEvent

	mu           sync.Mutex
	pauses       int
	resumes      int
	paused       bool
	refreshCalls int
	refreshErr   error
	refreshGate  chan struct{}
	closeErr     error
	closed       bool
	forceCommit  bool
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{events: make(chan BrokerEvent, 16)}
}

func (b *fakeBroker) Events() <-chan BrokerEvent { return b.events }

func (b *fakeBroker) Pause() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pauses++
	b.paused = true
	return nil
}

func (b *fakeBroker) Resume() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resumes++
	b.paused = false
	return nil
}

func (b *fakeBroker) RefreshMetadata(ctx context.Context, _ []string) error {
	b.mu.Lock()
	b.refreshCalls++
	gate, err := b.refreshGate, b.refreshErr
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (b *fakeBroker) Close(forceCommit bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		b.forceCommit = forceCommit
		close(b.events)
	}
	return b.closeErr
}

func (b *fakeBroker) setRefreshErr(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshErr = err
}

func (b *fakeBroker) counts() (pauses, resumes int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pauses, b.resumes
}

func (b *fakeBroker) refreshCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshCalls
}

var _ BrokerClient = (*fakeBroker)(nil)

// fakeCounter 按 type 属性累计。
type fakeCounter struct {
	mu     sync.Mutex
	totals map[string]int64
	groups map[string]bool
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{totals: map[string]int64{}, groups: map[string]bool{}}
}

func (c *fakeCounter) Add(_ context.Context, n int64, attrs ...xmetrics.Attr) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range attrs {
		switch a.Key {
		case attrType:
			c.totals[a.Value.(string)] += n
		case attrConsumerGroup:
			c.groups[a.Value.(string)] = true
		}
	}
}

func (c *fakeCounter) get(typ string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totals[typ]
}

// nextEvent 读取下一个事件，超时失败。
func nextEvent(t *testing.T, s *SerialConsumer) Event {
	t.Helper()
	select {
	case ev, ok := <-s.Events():
		require.True(t, ok, "events channel closed")
		return ev
	case <-time.After(eventTimeout):
		require.FailNow(t, "timed out waiting for event")
		return nil
	}
}

// nextOf 跳过其他类型，返回下一个 T 类型事件。
func nextOf[T Event](t *testing.T, s *SerialConsumer) T {
	t.Helper()
	deadline := time.After(eventTimeout)
	for {
		select {
		case ev, ok := <-s.Events():
			require.True(t, ok, "events channel closed")
			if e, match := ev.(T); match {
				return e
			}
		case <-deadline:
			var zero T
			require.FailNowf(t, "timed out", "waiting for %T", zero)
			return zero
		}
	}
}

// expectNoEvent 断言 d 内没有事件。
func expectNoEvent(t *testing.T, s *SerialConsumer, d time.Duration) {
	t.Helper()
	select {
	case ev := <-s.Events():
		require.FailNowf(t, "unexpected event", "%T %+v", ev, ev)
	case <-time.After(d):
	}
}

// closeSession 一边读取剩余事件一边关闭，返回关闭期间读到的事件。
func closeSession(t *testing.T, s *SerialConsumer) ([]Event, error) {
	t.Helper()
	var (
		rest []Event
		wg   sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range s.Events() {
			rest = append(rest, ev)
		}
	}()
	err := s.Close(context.Background())
	wg.Wait()
	return rest, err
}

// newTestSession 创建会话并在测试结束时关闭。
func newTestSession(t *testing.T, broker *fakeBroker, opts ...ConsumerOption) *SerialConsumer {
	t.Helper()
	s, err := NewSerialConsumer(broker, []string{"orders"}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		if !s.closed.Load() {
			_, _ = closeSession(t, s)
		}
	})
	return s
}

func msg(offset int64) *Message {
	return &Message{Topic: "orders", Partition: 0, Offset: offset, Value: []byte("v")}
}
