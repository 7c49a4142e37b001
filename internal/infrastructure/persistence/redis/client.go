// Package redis 提供评分缓存、限流与会话选择状态的 Redis 实现
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"copystudio-api/internal/config"
)

const defaultPingTimeout = 5 * time.Second

var tracer = otel.Tracer("redis")

// Client Redis 客户端
type Client struct {
	rdb  *redis.Client
	addr string
}

// NewClient 创建客户端并以 dial_timeout 为限验证连通性
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	opts := optionsFrom(cfg)
	rdb := redis.NewClient(opts)

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}
	return &Client{rdb: rdb, addr: opts.Addr}, nil
}

func optionsFrom(cfg *config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// Redis 底层客户端（供消息生产者使用）
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// Close 关闭连接池
func (c *Client) Close() error {
	return c.rdb.Close()
}

// HealthCheck 就绪检查：PING 并在 span 上记录连接池状态
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "redis.HealthCheck")
	defer span.End()

	stats := c.rdb.PoolStats()
	span.SetAttributes(
		attribute.String("redis.addr", c.addr),
		attribute.Int("redis.pool.total", int(stats.TotalConns)),
		attribute.Int("redis.pool.idle", int(stats.IdleConns)),
	)

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis %s unreachable: %w", c.addr, err)
	}
	return nil
}

// IsNil 是否为键不存在
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
