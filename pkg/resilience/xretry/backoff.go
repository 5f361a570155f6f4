package xretry

import (
	"math/rand/v2"
	"time"
)

// FixedBackoff 每次返回相同延迟。
type FixedBackoff struct {
	delay time.Duration
}

// NewFixedBackoff 创建固定退避，负值按 0 处理。
func NewFixedBackoff(delay time.Duration) *FixedBackoff {
	return &FixedBackoff{delay: max(delay, 0)}
}

func (b *FixedBackoff) NextDelay(int) time.Duration {
	return b.delay
}

// ExponentialBackoff 指数退避：第 n 次失败后等待 initial * multiplier^(n-1)，
// 叠加 ±jitter 比例的随机抖动，结果不超过 maxDelay。
type ExponentialBackoff struct {
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	jitter       float64
}

// ExponentialBackoffOption 指数退避选项
type ExponentialBackoffOption func(*ExponentialBackoff)

// WithInitialDelay 首次延迟，默认 100ms。
func WithInitialDelay(d time.Duration) ExponentialBackoffOption {
	return func(b *ExponentialBackoff) {
		if d > 0 {
			b.initialDelay = d
		}
	}
}

// WithMaxDelay 延迟上限，默认 30s；小于首次延迟时取首次延迟。
func WithMaxDelay(d time.Duration) ExponentialBackoffOption {
	return func(b *ExponentialBackoff) {
		if d > 0 {
			b.maxDelay = d
		}
	}
}

// WithMultiplier 增长倍数，默认 2；小于 1 的值被忽略。
func WithMultiplier(m float64) ExponentialBackoffOption {
	return func(b *ExponentialBackoff) {
		if m >= 1 {
			b.multiplier = m
		}
	}
}

// WithJitter 抖动比例，截断到 [0, 1]，默认 0.1。
func WithJitter(j float64) ExponentialBackoffOption {
	return func(b *ExponentialBackoff) {
		b.jitter = min(max(j, 0), 1)
	}
}

// NewExponentialBackoff 创建指数退避。
func NewExponentialBackoff(opts ...ExponentialBackoffOption) *ExponentialBackoff {
	b := &ExponentialBackoff{
		initialDelay: 100 * time.Millisecond,
		maxDelay:     30 * time.Second,
		multiplier:   2,
		jitter:       0.1,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.maxDelay = max(b.maxDelay, b.initialDelay)
	return b
}

// NextDelay attempt 为已失败次数，小于 1 按 1 处理。
func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	limit := float64(b.maxDelay)
	delay := float64(b.initialDelay)
	// 逐次相乘，触顶即停，避免大 attempt 溢出
	for i := 1; i < attempt && delay < limit; i++ {
		delay *= b.multiplier
	}
	if b.jitter > 0 {
		delay *= 1 + (rand.Float64()*2-1)*b.jitter
	}
	if delay >= limit {
		return b.maxDelay
	}
	return time.Duration(delay)
}

// Reset 实现 ResettableBackoff，策略本身无状态。
func (b *ExponentialBackoff) Reset() {}

var (
	_ BackoffPolicy     = (*FixedBackoff)(nil)
	_ ResettableBackoff = (*ExponentialBackoff)(nil)
)
