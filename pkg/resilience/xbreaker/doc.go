// Package xbreaker 为消息发布等远端调用提供熔断保护。
//
// # 熔断器状态
//
//   - StateClosed：正常放行，失败计入统计
//   - StateOpen：直接返回 ErrOpenState，不调用下游
//   - StateHalfOpen：Timeout 之后放行至多 MaxRequests 个探测请求
//
// # 熔断策略
//
// TripPolicy 决定何时从 Closed 进入 Open。内置：
//   - ConsecutiveFailuresPolicy：连续失败 N 次
//   - FailureRatioPolicy：请求数达到下限后失败率超过阈值
//
// 调用方主动取消（context.Canceled）不计为失败，可用 WithFailureFilter 替换判定。
//
// 熔断错误包装为 *BreakerError，Retryable 返回 false，供重试逻辑识别为不可重试。
//
// 底层实现为 [sony/gobreaker/v2]。
//
// [sony/gobreaker/v2]: https://github.com/sony/gobreaker
package xbreaker
