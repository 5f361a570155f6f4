package xdlock_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xserial/pkg/distributed/xdlock"
)

func newFactory(t *testing.T) (xdlock.Factory, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f, err := xdlock.NewRedisFactory(client)
	require.NoError(t, err)
	return f, mr
}

func TestNewRedisFactory_NilClient(t *testing.T) {
	_, err := xdlock.NewRedisFactory()
	assert.ErrorIs(t, err, xdlock.ErrNilClient)

	_, err = xdlock.NewRedisFactory(nil)
	assert.ErrorIs(t, err, xdlock.ErrNilClient)
	assert.Contains(t, err.Error(), "index 0")
}

func TestRedisFactory_TryLock(t *testing.T) {
	f, mr := newFactory(t)
	ctx := context.Background()

	h, err := f.TryLock(ctx, "consume:g1")
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, "lock:consume:g1", h.Key())
	assert.True(t, mr.Exists("lock:consume:g1"))

	other, err := f.TryLock(ctx, "consume:g1")
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, h.Unlock(ctx))
	assert.False(t, mr.Exists("lock:consume:g1"))

	again, err := f.TryLock(ctx, "consume:g1")
	require.NoError(t, err)
	require.NotNil(t, again)
	require.NoError(t, again.Unlock(ctx))
}

func TestRedisFactory_KeyValidation(t *testing.T) {
	f, _ := newFactory(t)

	_, err := f.TryLock(context.Background(), "  ")
	assert.ErrorIs(t, err, xdlock.ErrEmptyKey)
	_, err = f.Lock(context.Background(), "")
	assert.ErrorIs(t, err, xdlock.ErrEmptyKey)
}

func TestRedisFactory_KeyPrefixAndExpiry(t *testing.T) {
	f, mr := newFactory(t)

	h, err := f.TryLock(context.Background(), "g",
		xdlock.WithKeyPrefix("xserial:"),
		xdlock.WithExpiry(30*time.Second),
	)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, "xserial:g", h.Key())
	assert.Equal(t, 30*time.Second, mr.TTL("xserial:g"))
}

func TestRedisFactory_LockGivesUp(t *testing.T) {
	f, _ := newFactory(t)
	ctx := context.Background()

	h, err := f.TryLock(ctx, "g")
	require.NoError(t, err)
	require.NotNil(t, h)

	_, err = f.Lock(ctx, "g", xdlock.WithTries(2), xdlock.WithRetryDelay(time.Millisecond))
	assert.ErrorIs(t, err, xdlock.ErrLockFailed)
}

func TestRedisFactory_LockContextCancelled(t *testing.T) {
	f, _ := newFactory(t)

	h, err := f.TryLock(context.Background(), "g")
	require.NoError(t, err)
	require.NotNil(t, h)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = f.Lock(ctx, "g", xdlock.WithRetryDelay(5*time.Millisecond))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRedisLockHandle_ExtendAndLoss(t *testing.T) {
	f, mr := newFactory(t)
	ctx := context.Background()

	h, err := f.TryLock(ctx, "g", xdlock.WithExpiry(10*time.Second))
	require.NoError(t, err)
	require.NotNil(t, h)

	mr.FastForward(5 * time.Second)
	require.NoError(t, h.Extend(ctx))
	assert.Equal(t, 10*time.Second, mr.TTL("lock:g"))

	// 其他实例覆盖了锁
	mr.Del("lock:g")
	assert.Error(t, h.Extend(ctx))
	assert.Error(t, h.Unlock(ctx))
}

func TestRedisFactory_CloseAndHealth(t *testing.T) {
	f, mr := newFactory(t)
	ctx := context.Background()

	require.NoError(t, f.Health(ctx))

	h, err := f.TryLock(ctx, "g")
	require.NoError(t, err)

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	assert.ErrorIs(t, f.Health(ctx), xdlock.ErrFactoryClosed)
	_, err = f.TryLock(ctx, "g2")
	assert.ErrorIs(t, err, xdlock.ErrFactoryClosed)

	// 已持有的锁在关闭后仍可释放
	require.NoError(t, h.Unlock(ctx))
	assert.False(t, mr.Exists("lock:g"))
}

func TestRedisFactory_HealthUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	f, err := xdlock.NewRedisFactory(client)
	require.NoError(t, err)

	mr.Close()
	assert.Error(t, f.Health(context.Background()))
}

func TestKeepAlive(t *testing.T) {
	t.Run("extends until cancelled", func(t *testing.T) {
		f, mr := newFactory(t)
		h, err := f.TryLock(context.Background(), "g", xdlock.WithExpiry(time.Minute))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- xdlock.KeepAlive(ctx, h, 5*time.Millisecond) }()

		mr.FastForward(30 * time.Second)
		require.Eventually(t, func() bool {
			return mr.TTL("lock:g") > 30*time.Second
		}, time.Second, 5*time.Millisecond)

		cancel()
		assert.NoError(t, <-done)
	})

	t.Run("returns when lock is lost", func(t *testing.T) {
		f, mr := newFactory(t)
		h, err := f.TryLock(context.Background(), "g")
		require.NoError(t, err)
		mr.Del("lock:g")

		err = xdlock.KeepAlive(context.Background(), h, time.Millisecond)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lock:g")
	})

	t.Run("nil handle", func(t *testing.T) {
		assert.ErrorIs(t, xdlock.KeepAlive(context.Background(), nil, time.Second), xdlock.ErrNotLocked)
	})
}

func TestErrors(t *testing.T) {
	for _, err := range []error{
		xdlock.ErrLockHeld, xdlock.ErrLockFailed, xdlock.ErrLockExpired, xdlock.ErrExtendFailed,
		xdlock.ErrNilClient, xdlock.ErrFactoryClosed, xdlock.ErrNotLocked, xdlock.ErrEmptyKey,
	} {
		assert.Contains(t, err.Error(), "xdlock: ")
	}
}
