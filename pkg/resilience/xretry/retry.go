package xretry

import "time"

// BackoffPolicy 退避策略。attempt 为已失败次数，从 1 开始。
type BackoffPolicy interface {
	NextDelay(attempt int) time.Duration
}

// ResettableBackoff 可在恢复后重置的退避策略，消费循环成功一次后调用 Reset。
type ResettableBackoff interface {
	BackoffPolicy
	Reset()
}
