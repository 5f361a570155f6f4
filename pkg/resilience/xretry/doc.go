// Package xretry 提供退避策略与基于 avast/retry-go/v5 的重试执行器。
//
// 退避策略：
//   - FixedBackoff：固定延迟
//   - ExponentialBackoff：指数退避 + 抖动（默认 100ms 起步，30s 封顶）
//
// 重试执行器：
//
//	r := xretry.NewRetryer(
//		xretry.WithMaxAttempts(3),
//		xretry.WithBackoffPolicy(xretry.NewFixedBackoff(200*time.Millisecond)),
//	)
//	err := r.Do(ctx, func(ctx context.Context) error { ... })
//
// 返回 PermanentError 包装的错误会立即终止重试。
package xretry
