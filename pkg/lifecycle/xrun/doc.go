// Package xrun 把若干具名服务放进同一个 errgroup 运行。
//
// 任一服务出错、父 ctx 结束或收到终止信号时，其余服务的 ctx 一并取消。
// 信号导致的退出返回 *[SignalError]：
//
//	err := xrun.Run(ctx, nil,
//		xrun.Service{Name: "keepalive", Run: keepAlive},
//		xrun.Service{Name: "consume", Run: consume},
//	)
package xrun
