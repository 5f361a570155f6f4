// Package distributed 提供分布式协调相关的子包。
//
// 子包列表：
//   - xdlock: 基于 Redis (redsync) 的分布式锁，支持 Redlock 多节点与后台续期
package distributed
