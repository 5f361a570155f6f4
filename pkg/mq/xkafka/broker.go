package xkafka

import "context"

// BrokerClient 是会话依赖的 broker 能力。
//
// 实现需要保证 Pause/Resume/RefreshMetadata/Close 可以与事件投递并发调用。
type BrokerClient interface {
	// Events 返回 broker 事件流，Close 后关闭。
	Events() <-chan BrokerEvent

	// Pause 暂停拉取，幂等。
	Pause() error

	// Resume 恢复拉取，幂等。
	Resume() error

	// RefreshMetadata 刷新 topics 的元数据。
	RefreshMetadata(ctx context.Context, topics []string) error

	// Close 关闭连接，forceCommit 为 true 时先提交 offset。
	Close(forceCommit bool) error
}

// BrokerEvent broker 事件：BrokerConnected、BrokerMessage、BrokerError、BrokerBatchDone。
type BrokerEvent interface {
	isBrokerEvent()
}

// BrokerConnected 连接建立，分区已分配。
type BrokerConnected struct{}

// BrokerMessage 收到一条消息。
type BrokerMessage struct {
	Message *Message
}

// BrokerError 连接或拉取错误。
type BrokerError struct {
	Err error
}

// BrokerBatchDone 一批拉取结束（分区到达末尾）。
type BrokerBatchDone struct {
	Topic     string
	Partition int32
}

func (BrokerConnected) isBrokerEvent() {}
func (BrokerMessage) isBrokerEvent()   {}
func (BrokerError) isBrokerEvent()     {}
func (BrokerBatchDone) isBrokerEvent() {}
