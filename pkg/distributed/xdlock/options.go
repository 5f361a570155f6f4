package xdlock

import (
	"strings"
	"time"
)

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}

// MutexOption 锁实例配置选项。
type MutexOption func(*mutexOptions)

type mutexOptions struct {
	KeyPrefix  string
	Expiry     time.Duration
	Tries      int
	RetryDelay time.Duration
}

func defaultMutexOptions() *mutexOptions {
	return &mutexOptions{
		KeyPrefix:  "lock:",
		Expiry:     8 * time.Second,
		Tries:      32,
		RetryDelay: 200 * time.Millisecond,
	}
}

// WithKeyPrefix 设置 key 前缀，最终 key = prefix + key。默认 "lock:"。
func WithKeyPrefix(prefix string) MutexOption {
	return func(o *mutexOptions) {
		o.KeyPrefix = prefix
	}
}

// WithExpiry 设置锁的 TTL，Extend 也按此值续期。默认 8 秒。
func WithExpiry(d time.Duration) MutexOption {
	return func(o *mutexOptions) {
		if d > 0 {
			o.Expiry = d
		}
	}
}

// WithTries 设置 Lock 的最大尝试次数。默认 32。
func WithTries(n int) MutexOption {
	return func(o *mutexOptions) {
		if n > 0 {
			o.Tries = n
		}
	}
}

// WithRetryDelay 设置 Lock 两次尝试之间的间隔。默认 200ms。
func WithRetryDelay(d time.Duration) MutexOption {
	return func(o *mutexOptions) {
		if d > 0 {
			o.RetryDelay = d
		}
	}
}
