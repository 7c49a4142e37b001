package llm

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copystudio-api/internal/config"
)

type stubModel struct{ name string }

func (s *stubModel) Generate(context.Context, []*schema.Message, ...model.Option) (*schema.Message, error) {
	return schema.AssistantMessage(s.name, nil), nil
}

func (s *stubModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, nil
}

func newTestRegistry(builds *int32) *Registry {
	r := NewRegistry(&config.LLMConfig{
		DefaultProvider: "openai",
		Providers: map[string]config.ProviderConfig{
			"openai":   {APIKey: "k", Model: "gpt-test"},
			"nokey":    {Model: "m"},
			"deepseek": {APIKey: "k2", Model: "ds"},
		},
	})
	r.build = func(_ context.Context, p config.ProviderConfig) (model.BaseChatModel, error) {
		atomic.AddInt32(builds, 1)
		return &stubModel{name: p.Model}, nil
	}
	return r
}

func TestRegistry_GetDefaultAndCache(t *testing.T) {
	var builds int32
	r := newTestRegistry(&builds)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := r.Get(context.Background(), "")
			assert.NoError(t, err)
			assert.Equal(t, "gpt-test", m.(*stubModel).name)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&builds))
	assert.Equal(t, "gpt-test", r.ModelName(""))
	assert.Equal(t, "ds", r.ModelName("deepseek"))
}

func TestRegistry_Errors(t *testing.T) {
	var builds int32
	r := newTestRegistry(&builds)

	_, err := r.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")

	_, err = r.Get(context.Background(), "nokey")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
	assert.Zero(t, atomic.LoadInt32(&builds))
}

func TestRegistry_Names(t *testing.T) {
	var builds int32
	assert.Equal(t, []string{"deepseek", "nokey", "openai"}, newTestRegistry(&builds).Names())
}
