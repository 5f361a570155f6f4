// Package xkafka 在 confluent-kafka-go 之上提供串行消费会话与延迟投递生产者。
//
// # 串行消费
//
// [SerialConsumer] 把 broker 并发、可能乱序的投递变成严格串行的 ack/nack 模型：
// 同一时刻只有一条消息交给应用，当前消息 Ack 或 Nack 之前不会派发下一条。
// 内部队列驻留消息超过一条时暂停 broker 拉取，队列清空时恢复。
//
//	c, err := xkafka.NewKafkaSerialConsumer(cfg, xkafka.WithConsumerLogger(logger))
//	if err != nil {
//		return err
//	}
//	if err := c.StartConsuming(); err != nil {
//		return err
//	}
//	for ev := range c.Events() {
//		switch e := ev.(type) {
//		case xkafka.ReadyEvent:
//			// 已连接且元数据刷新完成
//		case xkafka.MessageEvent:
//			if err := handle(e.Message); err != nil {
//				_ = e.Message.Nack(err)
//				continue
//			}
//			_ = e.Message.Ack()
//		case xkafka.ErrorEvent:
//			logger.Warn(ctx, "consumer error", xlog.Err(e.Err))
//		}
//	}
//
// 每条派发出去的消息都必须被 Ack 或 Nack，否则队列会一直停在这条消息上。
// Nack 不会触发重试或重投，重试由上层决定（例如不提交 offset）。
//
// Events 需要持续读取。Close 会等待剩余事件读完或 ctx 结束，
// 不要在读取 Events 的同一个 goroutine 里用不带超时的 ctx 调用 Close。
//
// # 延迟投递
//
// [Producer.Defer] 在 TTL 小于 1 秒时直接发送，否则把整批消息包装成一个 [Envelope]
// 发送到延迟 topic（默认 messages.defer），由外部服务按滑动窗口重投。
//
// # 配置
//
// [ConsumerConfig] 和 [ProducerConfig] 带 koanf 标签，可直接从配置文件反序列化，
// 通过 ToConfigMap 转换为 kafka.ConfigMap。
package xkafka
