package xdlock

import "context"

// LockHandle 一次成功的锁获取。
type LockHandle interface {
	// Unlock 释放本次获取的锁。锁已过期或被覆盖时返回 ErrNotLocked。
	Unlock(ctx context.Context) error

	// Extend 按获取时的 Expiry 续期。
	// 返回 ErrNotLocked 表示所有权已丢失，ErrExtendFailed 表示续期请求失败。
	Extend(ctx context.Context) error

	// Key 返回带前缀的完整 key。
	Key() string
}

// Factory 管理底层连接并创建锁。
type Factory interface {
	// TryLock 非阻塞获取锁。锁被占用时返回 (nil, nil)。
	TryLock(ctx context.Context, key string, opts ...MutexOption) (LockHandle, error)

	// Lock 按 Tries/RetryDelay 重试直到获取成功、重试耗尽或 ctx 结束。
	Lock(ctx context.Context, key string, opts ...MutexOption) (LockHandle, error)

	// Close 之后不再创建新锁，已持有的 handle 仍可 Unlock。
	// 不关闭传入的 Redis 客户端。
	Close() error

	// Health 对所有节点执行 PING。
	Health(ctx context.Context) error
}
