// Package mq 提供消息队列相关的子包。
//
// 子包列表：
//   - xkafka: Kafka 串行消费会话、生产者与延迟投递信封
//
// 内部包：
//   - internal/mqcore: 带退避的 broker 轮询内核
//
// 设计原则：
//   - 同一会话内消息严格逐条处理，积压时暂停拉取
//   - 内置追踪上下文传播（W3C Trace Context）
//   - 内置可观测性（计数、日志、追踪）
package mq
