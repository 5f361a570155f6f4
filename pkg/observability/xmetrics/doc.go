// Package xmetrics 提供统一的可观测性接口（metrics + tracing）。
//
// 业务代码只依赖 Observer / Span / Counter 接口，默认实现基于 OpenTelemetry。
//
//	obs, _ := xmetrics.NewOTelObserver()
//	ctx, span := xmetrics.Start(ctx, obs, xmetrics.SpanOptions{
//		Component: "xkafka",
//		Operation: "defer",
//		Kind:      xmetrics.KindProducer,
//	})
//	defer span.End(xmetrics.Result{Err: err})
//
// Observer 记录的指标：
//   - xserial.messaging.operations
//   - xserial.messaging.duration
//
// 两者都带 component / operation / status 属性，status 为 ok 或 error。
//
// Counter 用于业务计数，例如消费会话的 consumed / ack / nack。
package xmetrics
