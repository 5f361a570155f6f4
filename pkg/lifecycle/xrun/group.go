package xrun

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xserial/pkg/observability/xlog"
)

// Service 是一个阻塞到 ctx 结束或出错的具名任务。
type Service struct {
	Name string
	Run  func(ctx context.Context) error
}

// Group 协调一组服务的启动与关闭。Go 与 Cancel 可并发调用，Wait 只调用一次。
type Group struct {
	eg     *errgroup.Group
	ctx    context.Context
	root   context.Context
	cancel context.CancelCauseFunc
	opts   *groupOptions
}

// NewGroup 创建 Group，返回的 ctx 在任一服务出错时取消。
func NewGroup(ctx context.Context, opts ...Option) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	o := defaultGroupOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	root, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(root)
	return &Group{eg: eg, ctx: egCtx, root: root, cancel: cancel, opts: o}, egCtx
}

// Go 启动服务。
func (g *Group) Go(svc Service) {
	g.eg.Go(func() error {
		if svc.Run == nil {
			return ErrNilFunc
		}
		log := g.opts.logger.With(slog.String("group", g.opts.name), slog.String("service", svc.Name))
		log.Debug(g.ctx, "service started")
		err := svc.Run(g.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn(g.ctx, "service failed", xlog.Err(err))
		} else {
			log.Debug(g.ctx, "service stopped")
		}
		return err
	})
}

// Cancel 取消全部服务，非 nil 的 cause 由 Wait 返回。
func (g *Group) Cancel(cause error) {
	g.cancel(cause)
}

// Wait 等待全部服务退出。
//
// Group 自身被取消时丢弃服务返回的 context.Canceled，改为返回取消原因（若有）。
func (g *Group) Wait() error {
	defer g.cancel(nil)
	err := g.eg.Wait()

	if err == nil || g.root.Err() == nil {
		return err
	}
	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if cause := context.Cause(g.root); !errors.Is(cause, context.Canceled) && !errors.Is(cause, context.DeadlineExceeded) {
		return cause
	}
	return nil
}

// watchSignals 收到信号时以 *SignalError 取消 Group。
func (g *Group) watchSignals(ch <-chan os.Signal) Service {
	return Service{Name: "signals", Run: func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-ch:
			g.opts.logger.Info(ctx, "received signal",
				slog.String("group", g.opts.name), slog.String("signal", sig.String()))
			g.Cancel(&SignalError{Signal: sig})
			return nil
		}
	}}
}

// Run 运行服务直到全部退出，期间监听终止信号。
func Run(ctx context.Context, opts []Option, services ...Service) error {
	g, _ := NewGroup(ctx, opts...)
	if len(g.opts.signals) > 0 {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, g.opts.signals...)
		defer signal.Stop(ch)
		g.Go(g.watchSignals(ch))
	}
	for _, svc := range services {
		g.Go(svc)
	}
	return g.Wait()
}
