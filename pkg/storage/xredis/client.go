package xredis

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// =============================================================================
// 配置
// =============================================================================

// Config 连接参数，koanf 标签对应配置文件的 redis 段。
type Config struct {
	Host     string `koanf:"host" json:"host"`
	Port     string `koanf:"port" json:"port"`
	Password string `koanf:"password" json:"password"`
	DB       int    `koanf:"db" json:"db"`
}

// Options Client 可选项。
type Options struct {
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
}

// Option 配置 Client 的函数类型。
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// WithDB 选择数据库编号，负数忽略。
func WithDB(db int) Option {
	return func(o *Options) {
		if db >= 0 {
			o.DB = db
		}
	}
}

// WithTimeouts 设置拨号和读写超时，非正值忽略。
func WithTimeouts(dial, read, write time.Duration) Option {
	return func(o *Options) {
		if dial > 0 {
			o.DialTimeout = dial
		}
		if read > 0 {
			o.ReadTimeout = read
		}
		if write > 0 {
			o.WriteTimeout = write
		}
	}
}

// WithPoolSize 设置连接池大小，非正值使用 go-redis 默认值。
func WithPoolSize(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.PoolSize = n
		}
	}
}

// =============================================================================
// Client
// =============================================================================

// Client Redis 连接封装。
type Client struct {
	client redis.UniversalClient
	addr   string
	closed atomic.Bool
}

// NewClient 按 host、十进制端口字符串和密码创建连接。
// 连接是惰性建立的，首次命令或 Health 时才拨号。
func NewClient(host, port, password string, opts ...Option) (*Client, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, ErrEmptyHost
	}
	p, err := strconv.Atoi(strings.TrimSpace(port))
	if err != nil || p <= 0 || p > 65535 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPort, port)
	}

	options := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	addr := net.JoinHostPort(host, strconv.Itoa(p))
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           options.DB,
		DialTimeout:  options.DialTimeout,
		ReadTimeout:  options.ReadTimeout,
		WriteTimeout: options.WriteTimeout,
		PoolSize:     options.PoolSize,
	})
	return &Client{client: rdb, addr: addr}, nil
}

// NewClientFromConfig 使用 Config 创建连接。
func NewClientFromConfig(cfg Config, opts ...Option) (*Client, error) {
	return NewClient(cfg.Host, cfg.Port, cfg.Password, append([]Option{WithDB(cfg.DB)}, opts...)...)
}

// Client 返回底层的 redis.UniversalClient。
func (c *Client) Client() redis.UniversalClient {
	return c.client
}

// Addr 返回 host:port。
func (c *Client) Addr() string {
	return c.addr
}

// Health 发送 PING 检查连接。
func (c *Client) Health(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("xredis: ping %s: %w", c.addr, err)
	}
	return nil
}

// Shutdown 关闭连接池，重复调用返回 ErrClosed。
func (c *Client) Shutdown() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return c.client.Close()
}

// Close 实现 io.Closer，等价于 Shutdown。
func (c *Client) Close() error {
	return c.Shutdown()
}
