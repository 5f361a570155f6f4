// Package xdlock 提供基于 Redis (redsync) 的分布式锁。
//
// 单节点为标准 Redis 锁；传入多个独立节点时使用 Redlock 算法，需过半节点成功。
//
// 每次 TryLock/Lock 成功返回一个新的 LockHandle，Unlock 和 Extend 只作用于本次获取。
// Redis 锁不会自动续期，长期持有时用 KeepAlive 在后台按周期 Extend：
//
//	handle, err := factory.TryLock(ctx, "consume:orders", xdlock.WithExpiry(30*time.Second))
//	if err != nil {
//	    return err
//	}
//	if handle == nil {
//	    return errors.New("held by another instance")
//	}
//	defer handle.Unlock(context.Background())
//
//	go xdlock.KeepAlive(ctx, handle, 10*time.Second)
package xdlock
