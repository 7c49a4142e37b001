package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"copystudio-api/internal/domain/entity"
)

const selectionMaxRetries = 5

// ErrSelectionContention 乐观锁重试耗尽
var ErrSelectionContention = errors.New("selection update contention")

// SelectionStore 基于 Redis 的会话选择存储（JSON + TTL，每次写入续期）
type SelectionStore struct {
	client    *Client
	keyPrefix string
	ttl       time.Duration
}

// NewSelectionStore 创建会话选择存储
func NewSelectionStore(client *Client, keyPrefix string, ttl time.Duration) *SelectionStore {
	if keyPrefix == "" {
		keyPrefix = "selection"
	}
	return &SelectionStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (s *SelectionStore) key(sessionID string) string {
	return fmt.Sprintf("%s:%s", s.keyPrefix, sessionID)
}

// Get 读取会话选择
func (s *SelectionStore) Get(ctx context.Context, sessionID string) (entity.Selection, bool, error) {
	ctx, span := tracer.Start(ctx, "selection.Get",
		trace.WithAttributes(attribute.String("selection.session_id", sessionID)))
	defer span.End()

	sel, found, err := readSelection(ctx, s.client.rdb, s.key(sessionID))
	if err != nil {
		span.RecordError(err)
	}
	return sel, found, err
}

// Put 写入会话选择
func (s *SelectionStore) Put(ctx context.Context, sessionID string, sel entity.Selection) error {
	ctx, span := tracer.Start(ctx, "selection.Put",
		trace.WithAttributes(attribute.String("selection.session_id", sessionID)))
	defer span.End()

	data, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}
	if err := s.client.rdb.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// Update 使用 WATCH/MULTI 实现读-改-写
func (s *SelectionStore) Update(ctx context.Context, sessionID string, fn func(entity.Selection) (entity.Selection, error)) (entity.Selection, error) {
	ctx, span := tracer.Start(ctx, "selection.Update",
		trace.WithAttributes(attribute.String("selection.session_id", sessionID)))
	defer span.End()

	key := s.key(sessionID)
	var result entity.Selection
	txf := func(tx *redis.Tx) error {
		cur, _, err := readSelection(ctx, tx, key)
		if err != nil {
			return err
		}
		next, err := fn(cur)
		if err != nil {
			return err
		}
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal selection: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err == nil {
			result = next
		}
		return err
	}

	for i := 0; i < selectionMaxRetries; i++ {
		err := s.client.rdb.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		span.RecordError(err)
		return entity.Selection{}, err
	}
	span.RecordError(ErrSelectionContention)
	return entity.Selection{}, ErrSelectionContention
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readSelection(ctx context.Context, c stringGetter, key string) (entity.Selection, bool, error) {
	raw, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if IsNil(err) {
			return entity.Selection{}, false, nil
		}
		return entity.Selection{}, false, err
	}
	var sel entity.Selection
	if err := json.Unmarshal(raw, &sel); err != nil {
		return entity.Selection{}, false, fmt.Errorf("failed to decode selection: %w", err)
	}
	return sel, true, nil
}
