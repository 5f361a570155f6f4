// Package xlog 基于 log/slog 的结构化日志库。
//
// # 创建 Logger
//
// Builder 记住第一个配置错误，由 Build 返回：
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetFormat("json").
//		SetRotation("/var/log/xserial.log", xlog.RotationConfig{MaxSizeMB: 100}).
//		Build()
//	defer cleanup()
//
// 文件轮转由 lumberjack 实现。
//
// # 追踪字段
//
// ctx 中存在有效的 OTel span 时注入 trace_id、span_id，可用 SetTraceFields(false) 关闭。
//
// # 派生 Logger 与级别控制
//
// [Logger.With] 附加字段（topic、group、error 等）后返回新的 [Logger]，
// 派生 logger 共享父级的 LevelVar，动态级别变更会同步生效。
//
// 组件未注入 logger 时使用 [Discard]。
package xlog
