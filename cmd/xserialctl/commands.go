package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xserial/pkg/distributed/xdlock"
	"github.com/omeyang/xserial/pkg/lifecycle/xrun"
	"github.com/omeyang/xserial/pkg/mq/xkafka"
	"github.com/omeyang/xserial/pkg/observability/xlog"
	"github.com/omeyang/xserial/pkg/observability/xmetrics"
	"github.com/omeyang/xserial/pkg/resilience/xbreaker"
	"github.com/omeyang/xserial/pkg/storage/xredis"
)

// closeTimeout 关闭会话或生产者的等待上限。
const closeTimeout = 10 * time.Second

// =============================================================================
// consume
// =============================================================================

func createConsumeCommand() *cli.Command {
	return &cli.Command{
		Name:  "consume",
		Usage: "串行消费并打印消息",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "topic",
				Aliases: []string{"t"},
				Usage:   "订阅的主题，可重复或逗号分隔；缺省使用配置文件",
			},
			&cli.StringFlag{
				Name:    "group",
				Aliases: []string{"g"},
				Usage:   "消费组",
			},
			&cli.BoolFlag{
				Name:  "from-beginning",
				Usage: "没有已提交 offset 时从最早位置开始",
			},
			&cli.IntFlag{
				Name:  "max",
				Usage: "处理指定条数后退出，0 表示不限",
			},
			&cli.BoolFlag{
				Name:  "checkpoint",
				Usage: "把每个分区最后确认的 offset 写入 Redis",
			},
			&cli.BoolFlag{
				Name:  "exclusive",
				Usage: "通过 Redis 锁保证同一消费组只有一个 xserialctl 实例",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := newEnv(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.close()

			cfg := e.settings.Kafka.Consumer
			if topics := cmd.StringSlice("topic"); len(topics) > 0 {
				cfg.Topics = topics
			}
			if group := cmd.String("group"); group != "" {
				cfg.GroupID = group
			}
			if cmd.Bool("from-beginning") {
				cfg.FromOffset = xkafka.OffsetEarliest
			}
			if err := cfg.Validate(); err != nil {
				return usagef("%v", err)
			}

			var rc *xredis.Client
			if cmd.Bool("checkpoint") || cmd.Bool("exclusive") {
				rc, err = xredis.NewClientFromConfig(e.settings.Redis)
				if err != nil {
					return usagef("redis: %v", err)
				}
				defer func() { _ = rc.Shutdown() }()
			}

			var cp checkpointer = noopCheckpointer{}
			if cmd.Bool("checkpoint") {
				cp = newRedisCheckpointer(rc, cfg.GroupID)
			}

			var services []xrun.Service
			if cmd.Bool("exclusive") {
				lock, err := acquireGroupLock(ctx, rc, cfg.GroupID)
				if err != nil {
					return err
				}
				defer releaseGroupLock(lock, e.logger)
				services = append(services, xrun.Service{Name: "group-lock", Run: func(ctx context.Context) error {
					return xdlock.KeepAlive(ctx, lock, groupLockExpiry/3)
				}})
			}

			counter, err := xmetrics.NewOTelCounter("xserial.consumer.messages", "messages handled by the serial consumer")
			if err != nil {
				return err
			}
			session, err := xkafka.NewKafkaSerialConsumer(cfg,
				xkafka.WithConsumerLogger(e.logger),
				xkafka.WithConsumerCounter(counter),
				xkafka.WithConsumerTracer(xkafka.NewOTelTracer()),
			)
			if err != nil {
				return err
			}

			services = append(services, xrun.Service{Name: "consume", Run: func(ctx context.Context) error {
				return consumeLoop(ctx, session, e.out, e.logger, cp, cmd.Int("max"))
			}})
			consumeErr := xrun.Run(ctx, []xrun.Option{xrun.WithLogger(e.logger), xrun.WithName("xserialctl")}, services...)
			closeErr := closeSession(session)

			var sigErr *xrun.SignalError
			if errors.As(consumeErr, &sigErr) || errors.Is(consumeErr, context.Canceled) || errors.Is(consumeErr, errMaxReached) {
				consumeErr = nil
			}
			return errors.Join(consumeErr, closeErr)
		},
	}
}

var errMaxReached = errors.New("max messages reached")

// consumeLoop 读取会话事件，打印并确认消息，直到 ctx 取消或达到 maxMessages。
func consumeLoop(ctx context.Context, s *xkafka.SerialConsumer, out io.Writer, logger xlog.Logger, cp checkpointer, maxMessages int) error {
	if err := s.StartConsuming(); err != nil {
		return err
	}
	handled := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-s.Events():
			if !ok {
				return nil
			}
			switch e := ev.(type) {
			case xkafka.ReadyEvent:
				logger.Info(ctx, "consumer ready")
			case xkafka.ErrorEvent:
				logger.Warn(ctx, "consumer error", xlog.Err(e.Err))
			case xkafka.MessageEvent:
				if err := handleMessage(e.Message, out, cp); err != nil {
					_ = e.Message.Nack(err)
					logger.Error(e.Message.Context(), "handle message failed", xlog.Err(err),
						xlog.Topic(e.Message.Topic), xlog.Offset(e.Message.Offset))
					continue
				}
				if err := e.Message.Ack(); err != nil {
					return err
				}
				handled++
				if maxMessages > 0 && handled >= maxMessages {
					return errMaxReached
				}
			}
		}
	}
}

func handleMessage(m *xkafka.Message, out io.Writer, cp checkpointer) error {
	if _, err := fmt.Fprintln(out, formatMessage(m)); err != nil {
		return err
	}
	return cp.Save(m.Context(), m)
}

// formatMessage 一行输出：topic/partition@offset key=... value
func formatMessage(m *xkafka.Message) string {
	return fmt.Sprintf("%s/%d@%d key=%q %s", m.Topic, m.Partition, m.Offset, m.Key, m.Text())
}

// closeSession 在后台关闭会话，同时把剩余事件读完。
func closeSession(s *xkafka.SerialConsumer) error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- s.Close(ctx) }()
	for range s.Events() {
	}
	return <-errc
}

// =============================================================================
// send / defer
// =============================================================================

func createSendCommand() *cli.Command {
	return &cli.Command{
		Name:      "send",
		Usage:     "发送消息，参数为空时逐行读取 stdin",
		ArgsUsage: "[value...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "topic", Aliases: []string{"t"}, Usage: "目标主题", Required: true},
			&cli.StringFlag{Name: "key", Aliases: []string{"k"}, Usage: "消息 key"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			records, err := collectRecords(cmd.String("topic"), cmd.String("key"), cmd.Args().Slice(), stdin(cmd))
			if err != nil {
				return err
			}
			return withProducer(ctx, cmd, func(ctx context.Context, p *xkafka.Producer, e *env) error {
				if err := p.Send(ctx, records...); err != nil {
					return err
				}
				fmt.Fprintf(e.out, "sent %d record(s)\n", len(records))
				return nil
			})
		},
	}
}

func createDeferCommand() *cli.Command {
	return &cli.Command{
		Name:      "defer",
		Usage:     "通过延迟投递协议发送消息",
		ArgsUsage: "[value...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "topic", Aliases: []string{"t"}, Usage: "最终投递的主题", Required: true},
			&cli.StringFlag{Name: "key", Aliases: []string{"k"}, Usage: "消息 key"},
			&cli.StringFlag{Name: "id", Usage: "延迟分组标识", Required: true},
			&cli.DurationFlag{Name: "delay", Usage: "滑动窗口", Value: xkafka.DefaultDeferDelay},
			&cli.DurationFlag{Name: "ttl", Usage: "最长延迟，小于 1s 时直接发送"},
			&cli.BoolFlag{Name: "batch", Usage: "合并同一标识的消息"},
			&cli.StringFlag{Name: "defer-topic", Usage: "信封主题", Value: xkafka.DefaultDeferTopic},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			records, err := collectRecords(cmd.String("topic"), cmd.String("key"), cmd.Args().Slice(), stdin(cmd))
			if err != nil {
				return err
			}
			opts := xkafka.DeferOptions{
				Topic:      cmd.String("defer-topic"),
				Identifier: cmd.String("id"),
				Delay:      cmd.Duration("delay"),
				TTL:        cmd.Duration("ttl"),
				Batch:      cmd.Bool("batch"),
			}
			if _, err := xkafka.NewEnvelope(records, opts); err != nil {
				return usagef("%v", err)
			}
			return withProducer(ctx, cmd, func(ctx context.Context, p *xkafka.Producer, e *env) error {
				if err := p.Defer(ctx, records, opts); err != nil {
					return err
				}
				fmt.Fprintf(e.out, "deferred %d record(s) as %q\n", len(records), opts.Identifier)
				return nil
			})
		},
	}
}

func stdin(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

// collectRecords 每个参数一条记录；没有参数时每个非空行一条。
func collectRecords(topic, key string, args []string, in io.Reader) ([]xkafka.Record, error) {
	if topic == "" {
		return nil, usagef("topic is required")
	}
	values := args
	if len(values) == 0 {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				values = append(values, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	}
	if len(values) == 0 {
		return nil, usagef("no values to send")
	}

	records := make([]xkafka.Record, 0, len(values))
	for _, v := range values {
		records = append(records, xkafka.Record{Topic: topic, Key: key, Value: []byte(v)})
	}
	return records, nil
}

func withProducer(ctx context.Context, cmd *cli.Command, fn func(context.Context, *xkafka.Producer, *env) error) error {
	e, err := newEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	observer, err := xmetrics.NewOTelObserver()
	if err != nil {
		return err
	}
	p, err := xkafka.NewProducerFromConfig(e.settings.Kafka.Producer,
		xkafka.WithProducerLogger(e.logger),
		xkafka.WithProducerObserver(observer),
		xkafka.WithProducerTracer(xkafka.NewOTelTracer()),
		xkafka.WithProducerBreaker(newProducerBreaker(ctx, e.logger)),
	)
	if err != nil {
		return err
	}

	runErr := fn(ctx, p, e)
	return errors.Join(runErr, p.Close())
}

// newProducerBreaker 连续 3 次发布失败后熔断 30 秒。
func newProducerBreaker(ctx context.Context, logger xlog.Logger) *xbreaker.Breaker {
	return xbreaker.NewBreaker("xserialctl-producer",
		xbreaker.WithTripPolicy(xbreaker.NewConsecutiveFailures(3)),
		xbreaker.WithTimeout(30*time.Second),
		xbreaker.WithOnStateChange(func(name string, from, to xbreaker.State) {
			logger.Warn(ctx, "producer breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		}),
	)
}

// =============================================================================
// health
// =============================================================================

func createHealthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "检查 Kafka 与 Redis（配置了 redis.host 时）连通性",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "timeout", Usage: "检查超时", Value: 5 * time.Second},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := newEnv(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.close()

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			var checks []healthCheck
			p, err := xkafka.NewProducerFromConfig(e.settings.Kafka.Producer, xkafka.WithProducerLogger(e.logger))
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()
			checks = append(checks, healthCheck{name: "kafka", check: p.Health})

			if e.settings.Redis.Host != "" {
				rc, err := xredis.NewClientFromConfig(e.settings.Redis)
				if err != nil {
					return usagef("redis: %v", err)
				}
				defer func() { _ = rc.Shutdown() }()
				checks = append(checks, healthCheck{name: "redis", check: rc.Health})
			}
			return runHealthChecks(ctx, e.out, checks)
		},
	}
}

type healthCheck struct {
	name  string
	check func(context.Context) error
}

// runHealthChecks 依次执行检查并逐行输出，任一失败返回合并错误。
func runHealthChecks(ctx context.Context, out io.Writer, checks []healthCheck) error {
	var errs []error
	for _, c := range checks {
		start := time.Now()
		err := c.check(ctx)
		status := "ok"
		if err != nil {
			status = "FAIL: " + err.Error()
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
		}
		fmt.Fprintf(out, "%-6s %s (%s)\n", c.name, status, time.Since(start).Round(time.Millisecond))
	}
	return errors.Join(errs...)
}

// =============================================================================
// exclusive
// =============================================================================

const (
	groupLockPrefix = "xserial:consume:"
	groupLockExpiry = 30 * time.Second
)

var errGroupLocked = errors.New("consumer group is held by another instance")

// acquireGroupLock 非阻塞获取消费组锁，被占用时返回 errGroupLocked。
func acquireGroupLock(ctx context.Context, rc *xredis.Client, group string) (xdlock.LockHandle, error) {
	factory, err := xdlock.NewRedisFactory(rc.Client())
	if err != nil {
		return nil, err
	}
	lock, err := factory.TryLock(ctx, group,
		xdlock.WithKeyPrefix(groupLockPrefix),
		xdlock.WithExpiry(groupLockExpiry),
	)
	if err != nil {
		return nil, fmt.Errorf("lock group %s: %w", group, err)
	}
	if lock == nil {
		return nil, fmt.Errorf("%w: %s", errGroupLocked, group)
	}
	return lock, nil
}

func releaseGroupLock(lock xdlock.LockHandle, logger xlog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := lock.Unlock(ctx); err != nil {
		logger.Warn(ctx, "release group lock failed", slog.String("key", lock.Key()), xlog.Err(err))
	}
}

// =============================================================================
// checkpoint
// =============================================================================

// checkpointer 记录已处理消息的位置。
type checkpointer interface {
	Save(ctx context.Context, m *xkafka.Message) error
}

type noopCheckpointer struct{}

func (noopCheckpointer) Save(context.Context, *xkafka.Message) error { return nil }

// redisCheckpointer 以 hash 保存每个分区最后确认的 offset，field 为 "topic/partition"。
type redisCheckpointer struct {
	client *xredis.Client
	key    string
}

func newRedisCheckpointer(client *xredis.Client, group string) *redisCheckpointer {
	return &redisCheckpointer{client: client, key: checkpointKey(group)}
}

func checkpointKey(group string) string {
	return "xserial:checkpoint:" + group
}

func checkpointField(topic string, partition int32) string {
	return topic + "/" + strconv.FormatInt(int64(partition), 10)
}

func (c *redisCheckpointer) Save(ctx context.Context, m *xkafka.Message) error {
	return c.client.Client().HSet(ctx, c.key, checkpointField(m.Topic, m.Partition), m.Offset).Err()
}
