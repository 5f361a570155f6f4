package xdlock

import "errors"

var (
	// ErrLockHeld 锁被其他持有者占用。TryLock 会把它转换为 (nil, nil)。
	ErrLockHeld = errors.New("xdlock: lock is held by another owner")

	// ErrLockFailed 重试耗尽仍未获取到锁。
	ErrLockFailed = errors.New("xdlock: failed to acquire lock")

	// ErrLockExpired 锁已过期或被其他持有者抢走。
	ErrLockExpired = errors.New("xdlock: lock expired or stolen")

	// ErrExtendFailed 续期失败，锁可能仍在。
	ErrExtendFailed = errors.New("xdlock: failed to extend lock")

	// ErrNilClient 客户端为空。
	ErrNilClient = errors.New("xdlock: client is nil")

	// ErrFactoryClosed 在已关闭的工厂上创建锁。
	ErrFactoryClosed = errors.New("xdlock: factory is closed")

	// ErrNotLocked 锁已不属于当前持有者。
	ErrNotLocked = errors.New("xdlock: not locked")

	// ErrEmptyKey 锁 key 为空或仅含空白。
	ErrEmptyKey = errors.New("xdlock: key must not be empty")
)
