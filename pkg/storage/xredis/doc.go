// Package xredis 提供 Redis 连接封装，基于 go-redis。
//
// 只负责按 host/port/password 建立连接、健康检查和关闭，
// 基础操作请直接使用 Client() 返回的 redis.UniversalClient。
package xredis
