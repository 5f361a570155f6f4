package xlog

import (
	"log/slog"
	"time"
)

// =============================================================================
// 常用属性 Key
// =============================================================================

const (
	KeyError     = "error"
	KeyDuration  = "duration"
	KeyCount     = "count"
	KeyComponent = "component"
	KeyOperation = "operation"
	KeyTraceID   = "trace_id"
	KeySpanID    = "span_id"

	// 消息相关字段，对齐 OTel messaging 语义约定
	KeyTopic     = "topic"
	KeyPartition = "partition"
	KeyOffset    = "offset"
	KeyGroup     = "group"
)

// =============================================================================
// 便捷属性构造函数
// =============================================================================

// Err 创建错误属性。err 为 nil 时返回空属性（会被 slog 忽略）。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 创建耗时属性
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Component 创建组件名属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operation 创建操作名属性
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// Count 创建计数属性
func Count(n int64) slog.Attr {
	return slog.Int64(KeyCount, n)
}

// Topic 创建 topic 属性
func Topic(name string) slog.Attr {
	return slog.String(KeyTopic, name)
}

// Partition 创建分区属性
func Partition(p int32) slog.Attr {
	return slog.Int(KeyPartition, int(p))
}

// Offset 创建偏移量属性
func Offset(o int64) slog.Attr {
	return slog.Int64(KeyOffset, o)
}

// Group 创建消费组属性
func Group(id string) slog.Attr {
	return slog.String(KeyGroup, id)
}
