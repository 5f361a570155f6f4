// Package storage 提供数据存储相关的子包。
//
// 子包列表：
//   - xredis: Redis 客户端创建、健康检查与关闭
package storage
