package xbreaker

import (
	"errors"
	"fmt"
)

// BreakerError 熔断器拒绝请求时返回的错误。
//
// Retryable 恒为 false：下游已判定不可用，继续退避重试没有意义。
type BreakerError struct {
	Err   error // ErrOpenState 或 ErrTooManyRequests
	Name  string
	State State
}

// Error 实现 error 接口
func (e *BreakerError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("breaker %s: %v", e.Name, e.Err)
	}
	return e.Err.Error()
}

// Unwrap 返回底层错误
func (e *BreakerError) Unwrap() error {
	return e.Err
}

// Retryable 返回 false
func (e *BreakerError) Retryable() bool {
	return false
}

// wrapBreakerError 只包装本熔断器直接返回的拒绝错误，状态由错误类型推导。
func wrapBreakerError(err error, name string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrOpenState) && !isBreakerError(err):
		return &BreakerError{Err: err, Name: name, State: StateOpen}
	case errors.Is(err, ErrTooManyRequests) && !isBreakerError(err):
		return &BreakerError{Err: err, Name: name, State: StateHalfOpen}
	default:
		return err
	}
}

func isBreakerError(err error) bool {
	var be *BreakerError
	return errors.As(err, &be)
}

// IsOpen 判断 err 是否因熔断打开被拒绝。
func IsOpen(err error) bool {
	return errors.Is(err, ErrOpenState)
}

// IsTooManyRequests 判断 err 是否因半开探测已满被拒绝。
func IsTooManyRequests(err error) bool {
	return errors.Is(err, ErrTooManyRequests)
}

// IsBreakerError 判断 err 是否为熔断拒绝。
func IsBreakerError(err error) bool {
	return IsOpen(err) || IsTooManyRequests(err)
}
