package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xserial/pkg/config/xconf"
	"github.com/omeyang/xserial/pkg/mq/xkafka"
	"github.com/omeyang/xserial/pkg/observability/xlog"
	"github.com/omeyang/xserial/pkg/storage/xredis"
)

// Settings 配置文件结构。
//
//	kafka:
//	  consumer: {host: localhost:9092, group_id: kafka-node, topics: [orders]}
//	  producer: {host: kafka:9092, require_acks: 1}
//	redis: {host: localhost, port: "6379"}
//	log: {level: info, format: json}
type Settings struct {
	Kafka KafkaSettings `koanf:"kafka"`
	Redis xredis.Config `koanf:"redis"`
	Log   LogSettings   `koanf:"log"`
}

// KafkaSettings 消费者与生产者配置。
type KafkaSettings struct {
	Consumer xkafka.ConsumerConfig `koanf:"consumer"`
	Producer xkafka.ProducerConfig `koanf:"producer"`
}

// LogSettings 日志配置，File 为空时输出到 stderr。
type LogSettings struct {
	Level    string              `koanf:"level"`
	Format   string              `koanf:"format"`
	File     string              `koanf:"file"`
	Rotation xlog.RotationConfig `koanf:"rotation"`
}

func defaultSettings() Settings {
	return Settings{
		Kafka: KafkaSettings{
			Consumer: xkafka.DefaultConsumerConfig(),
			Producer: xkafka.DefaultProducerConfig(),
		},
		Log: LogSettings{Level: "info", Format: "text"},
	}
}

// loadSettings 读取配置文件（可选）并应用全局 flag 覆盖。
func loadSettings(path, brokers, level, format string) (Settings, error) {
	s := defaultSettings()
	if path != "" {
		if _, err := xconf.Load(path, &s); err != nil {
			return Settings{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if brokers != "" {
		s.Kafka.Consumer.Host = brokers
		s.Kafka.Producer.Host = brokers
	}
	if level != "" {
		s.Log.Level = level
	}
	if format != "" {
		s.Log.Format = format
	}
	return s, nil
}

// buildLogger 按配置创建 Logger，返回的 cleanup 关闭日志文件。
func buildLogger(cfg LogSettings, stderr io.Writer) (xlog.LoggerWithLevel, func() error, error) {
	b := xlog.New().
		SetOutput(stderr).
		SetLevelString(cfg.Level).
		SetFormat(cfg.Format).
		SetAttrs(slog.String("service", "xserialctl"))
	if cfg.File != "" {
		b = b.SetRotation(cfg.File, cfg.Rotation)
	}
	return b.Build()
}

// env 单次命令执行所需的配置与 Logger。
type env struct {
	settings Settings
	logger   xlog.LoggerWithLevel
	cleanup  func() error
	out      io.Writer
}

func newEnv(_ context.Context, cmd *cli.Command) (*env, error) {
	root := cmd.Root()
	settings, err := loadSettings(
		root.String("config"),
		root.String("brokers"),
		root.String("log-level"),
		root.String("log-format"),
	)
	if err != nil {
		return nil, err
	}

	stderr := root.ErrWriter
	if stderr == nil {
		stderr = os.Stderr
	}
	logger, cleanup, err := buildLogger(settings.Log, stderr)
	if err != nil {
		return nil, usagef("invalid log settings: %v", err)
	}

	out := root.Writer
	if out == nil {
		out = os.Stdout
	}
	return &env{settings: settings, logger: logger, cleanup: cleanup, out: out}, nil
}

func (e *env) close() {
	_ = e.cleanup()
}
