package quality

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copystudio-api/internal/domain/entity"
	apperrors "copystudio-api/pkg/errors"
)

type countingEvaluator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (e *countingEvaluator) Evaluate(_ context.Context, _ string) (entity.QualityScore, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.err != nil {
		return entity.QualityScore{}, e.err
	}
	return entity.QualityScore{Overall: 77, Source: entity.ScoreSourceDeep}, nil
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *memoryCache) GetOrLoad(ctx context.Context, key string, _ time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	raw, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.data[key] = raw
	return raw, nil
}

type brokenCache struct{}

func (brokenCache) GetOrLoad(context.Context, string, time.Duration, func(context.Context) ([]byte, error)) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func TestCachedEvaluator_CachesByText(t *testing.T) {
	inner := &countingEvaluator{}
	cache := &memoryCache{data: map[string][]byte{}}
	ev := NewCachedEvaluator(inner, cache, time.Hour, "openai")

	for i := 0; i < 3; i++ {
		score, err := ev.Evaluate(context.Background(), "mesmo texto")
		require.NoError(t, err)
		assert.Equal(t, 77, score.Overall)
		assert.Equal(t, entity.ScoreSourceDeep, score.Source)
	}
	_, err := ev.Evaluate(context.Background(), "outro texto")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
	assert.NotEqual(t, ev.CacheKey("a"), ev.CacheKey("b"))
	assert.True(t, strings.HasPrefix(ev.CacheKey("a"), DeepScoreKeyPrefix+"openai:"))
}

func TestCachedEvaluator_LoaderErrorIsReturned(t *testing.T) {
	inner := &countingEvaluator{err: errors.New("model down")}
	ev := NewCachedEvaluator(inner, &memoryCache{data: map[string][]byte{}}, time.Hour, "openai")

	_, err := ev.Evaluate(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedEvaluator_FallsBackWhenCacheIsDown(t *testing.T) {
	inner := &countingEvaluator{}
	ev := NewCachedEvaluator(inner, brokenCache{}, time.Hour, "openai")

	score, err := ev.Evaluate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, 77, score.Overall)
}

func TestService_DeepDisabled(t *testing.T) {
	svc := NewService(nil, "", 0)
	assert.False(t, svc.DeepEnabled())

	_, err := svc.Deep(context.Background(), "texto")
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavailable)
}

func TestService_DeepWrapsEvaluatorErrors(t *testing.T) {
	svc := NewService(&countingEvaluator{err: errors.New("boom")}, "openai", 100)

	_, err := svc.Deep(context.Background(), "texto")
	assert.ErrorIs(t, err, apperrors.ErrEvaluationFailed)

	_, err = svc.Deep(context.Background(), "  ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)
}
