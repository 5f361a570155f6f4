package xdlock

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/go-redsync/redsync/v4"
	rsredis "github.com/go-redsync/redsync/v4/redis"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// =============================================================================
// Redis 工厂
// =============================================================================

type redisFactory struct {
	clients []redis.UniversalClient
	rs      *redsync.Redsync
	closed  atomic.Bool
}

var _ Factory = (*redisFactory)(nil)

// NewRedisFactory 创建 Redis 锁工厂。
// 多个 client 应指向相互独立的节点。
func NewRedisFactory(clients ...redis.UniversalClient) (Factory, error) {
	if len(clients) == 0 {
		return nil, ErrNilClient
	}
	pools := make([]rsredis.Pool, len(clients))
	for i, client := range clients {
		if client == nil {
			return nil, fmt.Errorf("%w: index %d", ErrNilClient, i)
		}
		pools[i] = goredis.NewPool(client)
	}
	return &redisFactory{clients: clients, rs: redsync.New(pools...)}, nil
}

func (f *redisFactory) TryLock(ctx context.Context, key string, opts ...MutexOption) (LockHandle, error) {
	mutex, fullKey, err := f.newMutex(key, opts...)
	if err != nil {
		return nil, err
	}
	if err := mutex.TryLockContext(ctx); err != nil {
		err = wrapRedisError(err)
		if errors.Is(err, ErrLockHeld) {
			return nil, nil
		}
		return nil, err
	}
	return &redisLockHandle{mutex: mutex, key: fullKey}, nil
}

func (f *redisFactory) Lock(ctx context.Context, key string, opts ...MutexOption) (LockHandle, error) {
	mutex, fullKey, err := f.newMutex(key, opts...)
	if err != nil {
		return nil, err
	}
	if err := mutex.LockContext(ctx); err != nil {
		// redsync 不透传 ctx 错误
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		err = wrapRedisError(err)
		if errors.Is(err, ErrLockHeld) {
			return nil, fmt.Errorf("%w: %w", ErrLockFailed, err)
		}
		return nil, err
	}
	return &redisLockHandle{mutex: mutex, key: fullKey}, nil
}

func (f *redisFactory) newMutex(key string, opts ...MutexOption) (*redsync.Mutex, string, error) {
	if f.closed.Load() {
		return nil, "", ErrFactoryClosed
	}
	if err := validateKey(key); err != nil {
		return nil, "", err
	}
	options := defaultMutexOptions()
	for _, opt := range opts {
		opt(options)
	}
	fullKey := options.KeyPrefix + key
	mutex := f.rs.NewMutex(fullKey,
		redsync.WithExpiry(options.Expiry),
		redsync.WithTries(options.Tries),
		redsync.WithRetryDelay(options.RetryDelay),
	)
	return mutex, fullKey, nil
}

func (f *redisFactory) Close() error {
	f.closed.Store(true)
	return nil
}

func (f *redisFactory) Health(ctx context.Context) error {
	if f.closed.Load() {
		return ErrFactoryClosed
	}
	for _, client := range f.clients {
		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// LockHandle
// =============================================================================

type redisLockHandle struct {
	mutex *redsync.Mutex
	key   string
}

func (h *redisLockHandle) Unlock(ctx context.Context) error {
	ok, err := h.mutex.UnlockContext(ctx)
	return handleResult(ok, err)
}

func (h *redisLockHandle) Extend(ctx context.Context) error {
	ok, err := h.mutex.ExtendContext(ctx)
	return handleResult(ok, err)
}

func (h *redisLockHandle) Key() string {
	return h.key
}

// handleResult 锁过期与返回 false 都视为所有权丢失。
func handleResult(ok bool, err error) error {
	if err != nil {
		err = wrapRedisError(err)
		if errors.Is(err, ErrLockExpired) {
			return ErrNotLocked
		}
		return err
	}
	if !ok {
		return ErrNotLocked
	}
	return nil
}

// wrapRedisError 把 redsync 错误映射为本包错误，保留原始错误链。
func wrapRedisError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var taken *redsync.ErrTaken
	switch {
	case errors.As(err, &taken):
		return fmt.Errorf("%w: %w", ErrLockHeld, err)
	case errors.Is(err, redsync.ErrFailed):
		return fmt.Errorf("%w: %w", ErrLockFailed, err)
	case errors.Is(err, redsync.ErrExtendFailed):
		return fmt.Errorf("%w: %w", ErrExtendFailed, err)
	case errors.Is(err, redsync.ErrLockAlreadyExpired):
		return fmt.Errorf("%w: %w", ErrLockExpired, err)
	default:
		return err
	}
}
