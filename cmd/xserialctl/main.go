// xserialctl 是 xserial 串行消费与延迟投递的命令行工具。
//
// 用法:
//
//	xserialctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config      配置文件路径（yaml/json），缺省时使用内置默认值
//	-b, --brokers     覆盖配置中的 Kafka 地址（消费者与生产者）
//	    --log-level   日志级别 (debug/info/warn/error)
//	    --log-format  日志格式 (text/json)
//
// 命令:
//
//	consume        串行消费并打印消息，每条打印后 Ack
//	send           发送消息
//	defer          通过延迟投递协议发送消息
//	health         检查 Kafka 与 Redis 连通性
//
// 退出码:
//
//	0: 成功
//	1: 执行失败
//	2: 参数错误
//
// 示例:
//
//	xserialctl -b localhost:9092 consume -t orders --max 10
//	xserialctl send -t orders -k user-1 hello world
//	echo hi | xserialctl defer -t emails --id user-1 --ttl 1h
//	xserialctl -c xserial.yaml health
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// 版本信息，可通过 -ldflags "-X main.Version=..." 注入。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args))
}

// usageError 参数错误，退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:    "xserialctl",
		Usage:   "串行消费与延迟投递命令行工具",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径（yaml/json）",
				Sources: cli.EnvVars("XSERIAL_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "brokers",
				Aliases: []string{"b"},
				Usage:   "Kafka 地址，逗号分隔",
				Sources: cli.EnvVars("XSERIAL_BROKERS"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "日志级别 (debug/info/warn/error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "日志格式 (text/json)",
			},
		},
		Commands: []*cli.Command{
			createConsumeCommand(),
			createSendCommand(),
			createDeferCommand(),
			createHealthCommand(),
		},
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
	}
}

func run(args []string) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandler(cancel)

	if err := createApp().Run(ctx, args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}
