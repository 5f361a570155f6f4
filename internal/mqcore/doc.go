// Package mqcore 是 xkafka 内部使用的轮询内核。
//
// Poller 反复执行单次拉取，出错时按 xretry.BackoffPolicy 退避，
// 成功后清零退避计数，ctx 结束时退出。
package mqcore
