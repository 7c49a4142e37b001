package redis

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"copystudio-api/pkg/metrics"
)

// scanBatch 失效时每批扫描/删除的键数
const scanBatch = 500

// Cache 读穿缓存，值为已序列化的字节
type Cache struct {
	client *Client
	group  singleflight.Group
}

// NewCache 创建缓存
func NewCache(client *Client) *Cache {
	return &Cache{client: client}
}

// GetOrLoad 命中直接返回；未命中时同一 key 的并发加载合并为一次，结果写回并设置 TTL。
// 写回失败只记录在 cache.load span 上，不影响返回值。ctx 取消时立即返回，加载继续供其他等待者使用。
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "cache.GetOrLoad",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	val, err := c.client.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		span.SetAttributes(attribute.Bool("cache.hit", true))
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return val, nil
	case !IsNil(err):
		span.RecordError(err)
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		return c.loadAndStore(loadCtx, key, ttl, load)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		span.SetAttributes(attribute.Bool("cache.shared", res.Shared))
		if res.Shared {
			metrics.CacheLookupsTotal.WithLabelValues("shared").Inc()
		} else {
			metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		}
		if res.Err != nil {
			span.RecordError(res.Err)
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// loadAndStore 在独立 span 中执行加载与写回；调用方的 span 可能已先结束
func (c *Cache) loadAndStore(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "cache.load",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	if val, err := c.client.rdb.Get(ctx, key).Bytes(); err == nil {
		span.SetAttributes(attribute.Bool("cache.late_hit", true))
		return val, nil
	}
	data, err := load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, err
	}
	if err := c.client.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		span.RecordError(err)
	}
	return data, nil
}

// InvalidatePrefix 分批删除指定前缀下的所有键，返回删除数量
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) (int, error) {
	ctx, span := tracer.Start(ctx, "cache.InvalidatePrefix",
		trace.WithAttributes(attribute.String("cache.prefix", prefix)))
	defer span.End()

	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := c.client.rdb.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			span.RecordError(err)
			return deleted, fmt.Errorf("scan %s*: %w", prefix, err)
		}
		if len(keys) > 0 {
			n, err := c.client.rdb.Unlink(ctx, keys...).Result()
			if err != nil {
				span.RecordError(err)
				return deleted, fmt.Errorf("unlink %d keys: %w", len(keys), err)
			}
			deleted += int(n)
		}
		if next == 0 {
			break
		}
		cursor = next
	}

	span.SetAttributes(attribute.Int("cache.invalidated_count", deleted))
	return deleted, nil
}
