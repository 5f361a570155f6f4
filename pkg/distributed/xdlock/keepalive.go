package xdlock

import (
	"context"
	"fmt"
	"time"
)

// KeepAlive 每隔 interval 续期一次 h，直到 ctx 结束或续期失败。
//
// ctx 结束时返回 nil；续期失败时返回包含 key 的错误，调用方应视为锁已丢失。
// interval 应明显小于锁的 Expiry。
func KeepAlive(ctx context.Context, h LockHandle, interval time.Duration) error {
	if h == nil {
		return ErrNotLocked
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := h.Extend(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("keep alive %s: %w", h.Key(), err)
			}
		}
	}
}
