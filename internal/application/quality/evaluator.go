package quality

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"copystudio-api/internal/domain/entity"
	"copystudio-api/pkg/logger"
)

// Evaluator 深度评估端口，返回 Source=deep 的评分
type Evaluator interface {
	Evaluate(ctx context.Context, text string) (entity.QualityScore, error)
}

// DeepScoreKeyPrefix 深度评分缓存键前缀
const DeepScoreKeyPrefix = "quality:deep:"

// ScoreCache 读穿缓存（由 redis.Cache 实现）
type ScoreCache interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error)
}

// CachedEvaluator 按文本摘要缓存深度评估结果
type CachedEvaluator struct {
	inner     Evaluator
	cache     ScoreCache
	ttl       time.Duration
	namespace string
}

// NewCachedEvaluator 创建带缓存的评估器；namespace 用于区分模型/提供商
func NewCachedEvaluator(inner Evaluator, cache ScoreCache, ttl time.Duration, namespace string) *CachedEvaluator {
	return &CachedEvaluator{inner: inner, cache: cache, ttl: ttl, namespace: namespace}
}

// CacheKey 缓存键：quality:deep:<namespace>:<sha256(text)>
func (e *CachedEvaluator) CacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return DeepScoreKeyPrefix + e.namespace + ":" + hex.EncodeToString(sum[:])
}

// Evaluate 命中缓存直接返回；缓存不可用时退化为直接调用
func (e *CachedEvaluator) Evaluate(ctx context.Context, text string) (entity.QualityScore, error) {
	var loadErr error
	loaded := false
	raw, err := e.cache.GetOrLoad(ctx, e.CacheKey(text), e.ttl, func(ctx context.Context) ([]byte, error) {
		loaded = true
		score, err := e.inner.Evaluate(ctx, text)
		if err != nil {
			loadErr = err
			return nil, err
		}
		return json.Marshal(score)
	})
	if err != nil {
		if loadErr != nil || loaded {
			return entity.QualityScore{}, err
		}
		logger.Warn(ctx, "deep score cache unavailable, evaluating directly", "error", err.Error())
		return e.inner.Evaluate(ctx, text)
	}

	var score entity.QualityScore
	if err := json.Unmarshal(raw, &score); err != nil {
		return entity.QualityScore{}, fmt.Errorf("decode cached deep score: %w", err)
	}
	return score, nil
}
