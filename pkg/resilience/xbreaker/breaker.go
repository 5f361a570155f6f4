package xbreaker

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

type (
	// Counts 当前统计窗口内的请求计数
	Counts = gobreaker.Counts

	// State 熔断器状态
	State = gobreaker.State
)

const (
	StateClosed   = gobreaker.StateClosed
	StateHalfOpen = gobreaker.StateHalfOpen
	StateOpen     = gobreaker.StateOpen
)

var (
	// ErrOpenState 熔断器处于打开状态
	ErrOpenState = gobreaker.ErrOpenState

	// ErrTooManyRequests 半开状态下探测请求已满
	ErrTooManyRequests = gobreaker.ErrTooManyRequests
)

// TripPolicy 熔断判定策略。ReadyToTrip 返回 true 时从 Closed 进入 Open。
type TripPolicy interface {
	ReadyToTrip(counts Counts) bool
}

// Breaker 熔断器，并发安全。
type Breaker struct {
	name    string
	options *breakerOptions
	cb      *gobreaker.CircuitBreaker[struct{}]
}

type breakerOptions struct {
	TripPolicy    TripPolicy
	IsFailure     func(error) bool
	Timeout       time.Duration
	Interval      time.Duration
	MaxRequests   uint32
	OnStateChange func(name string, from, to State)
}

// Option 熔断器配置选项
type Option func(*breakerOptions)

func defaultBreakerOptions() *breakerOptions {
	return &breakerOptions{
		TripPolicy:  NewConsecutiveFailures(5),
		IsFailure:   defaultIsFailure,
		Timeout:     60 * time.Second,
		MaxRequests: 1,
	}
}

// defaultIsFailure 调用方取消不算下游失败。
func defaultIsFailure(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled)
}

// WithTripPolicy 设置熔断判定策略，默认连续失败 5 次。
func WithTripPolicy(p TripPolicy) Option {
	return func(o *breakerOptions) {
		if p != nil {
			o.TripPolicy = p
		}
	}
}

// WithFailureFilter 设置失败判定，返回 true 的错误计入失败。
func WithFailureFilter(f func(error) bool) Option {
	return func(o *breakerOptions) {
		if f != nil {
			o.IsFailure = f
		}
	}
}

// WithTimeout 设置 Open 到 HalfOpen 的等待时间，默认 60 秒。
func WithTimeout(d time.Duration) Option {
	return func(o *breakerOptions) {
		if d > 0 {
			o.Timeout = d
		}
	}
}

// WithInterval 设置 Closed 状态下清零计数的周期，默认 0 表示不清零。
func WithInterval(d time.Duration) Option {
	return func(o *breakerOptions) {
		if d >= 0 {
			o.Interval = d
		}
	}
}

// WithMaxRequests 设置 HalfOpen 状态允许的探测请求数，默认 1。
func WithMaxRequests(n uint32) Option {
	return func(o *breakerOptions) {
		if n > 0 {
			o.MaxRequests = n
		}
	}
}

// WithOnStateChange 设置状态变化回调。
func WithOnStateChange(f func(name string, from, to State)) Option {
	return func(o *breakerOptions) {
		o.OnStateChange = f
	}
}

// NewBreaker 创建名为 name 的熔断器。
func NewBreaker(name string, opts ...Option) *Breaker {
	options := defaultBreakerOptions()
	for _, opt := range opts {
		opt(options)
	}

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: options.MaxRequests,
		Interval:    options.Interval,
		Timeout:     options.Timeout,
		ReadyToTrip: options.TripPolicy.ReadyToTrip,
		IsSuccessful: func(err error) bool {
			return !options.IsFailure(err)
		},
	}
	if options.OnStateChange != nil {
		st.OnStateChange = options.OnStateChange
	}

	return &Breaker{
		name:    name,
		options: options,
		cb:      gobreaker.NewCircuitBreaker[struct{}](st),
	}
}

// Do 在熔断保护下执行 fn。
//
// ctx 已结束时直接返回 ctx.Err()，不计入统计。
// 熔断拒绝时返回 *BreakerError，fn 不会被调用。
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return wrapBreakerError(err, b.name)
}

// Name 返回熔断器名称。
func (b *Breaker) Name() string {
	return b.name
}

// State 返回当前状态。
func (b *Breaker) State() State {
	return b.cb.State()
}

// Counts 返回当前统计计数。
func (b *Breaker) Counts() Counts {
	return b.cb.Counts()
}
