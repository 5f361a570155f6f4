package xretry

import (
	"context"
	"math"
	"time"

	retry "github.com/avast/retry-go/v5"
)

// Retryer 重试执行器，底层使用 avast/retry-go/v5。
type Retryer struct {
	maxAttempts int
	backoff     BackoffPolicy
	onRetry     func(attempt int, err error)
}

// RetryerOption 执行器配置选项。
type RetryerOption func(*Retryer)

// WithMaxAttempts 设置最大尝试次数（包含首次尝试）。n < 1 被忽略。
func WithMaxAttempts(n int) RetryerOption {
	return func(r *Retryer) {
		if n >= 1 {
			r.maxAttempts = n
		}
	}
}

// WithBackoffPolicy 设置退避策略。nil 被忽略。
func WithBackoffPolicy(p BackoffPolicy) RetryerOption {
	return func(r *Retryer) {
		if p != nil {
			r.backoff = p
		}
	}
}

// WithOnRetry 设置每次失败后的回调，attempt 从 1 开始。nil 被忽略。
func WithOnRetry(f func(attempt int, err error)) RetryerOption {
	return func(r *Retryer) {
		if f != nil {
			r.onRetry = f
		}
	}
}

// NewRetryer 创建重试执行器。
// 默认最多尝试 3 次，使用 ExponentialBackoff。
func NewRetryer(opts ...RetryerOption) *Retryer {
	r := &Retryer{
		maxAttempts: 3,
		backoff:     NewExponentialBackoff(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxAttempts 返回最大尝试次数。
func (r *Retryer) MaxAttempts() int {
	if r == nil {
		return 0
	}
	return r.maxAttempts
}

// Do 执行带重试的操作，返回最后一次的错误。
// ctx 取消或 fn 返回 PermanentError 时立即停止。
func (r *Retryer) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if r == nil {
		return ErrNilRetryer
	}
	if fn == nil {
		return ErrNilFunc
	}
	if ctx == nil {
		ctx = context.Background()
	}

	backoff := r.backoff
	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(uint(max(r.maxAttempts, 1))),
		retry.RetryIf(func(err error) bool {
			return ctx.Err() == nil && !IsPermanent(err)
		}),
		retry.DelayType(func(n uint, _ error, _ retry.DelayContext) time.Duration {
			// retry-go v5 的 n 从 1 开始，与 NextDelay 一致
			return backoff.NextDelay(toInt(n))
		}),
		retry.LastErrorOnly(true),
	}
	if r.onRetry != nil {
		opts = append(opts, retry.OnRetry(func(n uint, err error) {
			// OnRetry 的 n 从 0 开始
			r.onRetry(toInt(n)+1, err)
		}))
	}

	return retry.New(opts...).Do(func() error {
		return fn(ctx)
	})
}

func toInt(n uint) int {
	if n > uint(math.MaxInt) {
		return math.MaxInt
	}
	return int(n)
}
