package mqcore

import (
	"context"
	"time"

	"github.com/omeyang/xserial/pkg/resilience/xretry"
)

// Poller 驱动一个单次拉取函数。
type Poller struct {
	// Step 执行一次拉取，返回 error 视为 broker 故障。
	Step func(ctx context.Context) error

	// Backoff 故障后的等待策略，nil 时使用 xretry.NewExponentialBackoff()。
	Backoff xretry.BackoffPolicy

	// OnError 在每次故障后、等待前同步调用。attempt 为连续故障次数。
	OnError func(err error, attempt int)
}

// Run 阻塞直到 ctx 结束，返回 ctx.Err()。
// ctx 结束导致的 Step 错误不会上报。
func (p Poller) Run(ctx context.Context) error {
	backoff := p.Backoff
	if backoff == nil {
		backoff = xretry.NewExponentialBackoff()
	}

	failures := 0
	for ctx.Err() == nil {
		err := p.Step(ctx)
		if err == nil {
			if failures > 0 {
				failures = 0
				if r, ok := backoff.(xretry.ResettableBackoff); ok {
					r.Reset()
				}
			}
			continue
		}
		if ctx.Err() != nil {
			break
		}

		failures++
		if p.OnError != nil {
			p.OnError(err, failures)
		}
		if !sleep(ctx, backoff.NextDelay(failures)) {
			break
		}
	}
	return ctx.Err()
}

// sleep 等待 d，ctx 先结束时返回 false。
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
