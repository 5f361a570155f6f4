package xkafka

// Event 是会话通过 Events() 发出的事件，具体类型为下列之一：
// ReadyEvent、ConnectEvent、ErrorEvent、MessageEvent、AckEvent、NackEvent、CloseEvent。
type Event interface {
	isEvent()
}

// ReadyEvent 已连接且首次元数据刷新成功，每个会话最多发出一次。
type ReadyEvent struct{}

// ConnectEvent broker 报告已连接（分区分配完成）。
type ConnectEvent struct{}

// ErrorEvent broker 或会话内部错误，多错误已合并为 *ConsumerError。
type ErrorEvent struct {
	Err error
}

// MessageEvent 派发给应用的消息，处理完成后必须调用 Ack 或 Nack。
type MessageEvent struct {
	Message *Message
}

// AckEvent 消息已确认。
type AckEvent struct {
	Message *Message
}

// NackEvent 消息处理失败，Err 为 Nack 传入的原因。
type NackEvent struct {
	Message *Message
	Err     error
}

// CloseEvent 会话已关闭，之后 Events() 通道会被关闭。
type CloseEvent struct{}

func (ReadyEvent) isEvent()   {}
func (ConnectEvent) isEvent() {}
func (ErrorEvent) isEvent()   {}
func (MessageEvent) isEvent() {}
func (AckEvent) isEvent()     {}
func (NackEvent) isEvent()    {}
func (CloseEvent) isEvent()   {}
