// Package llm 按提供商名称构建并缓存 Eino ChatModel
package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"golang.org/x/sync/singleflight"

	"copystudio-api/internal/config"
)

// builder 由提供商配置创建模型，测试中可替换
type builder func(ctx context.Context, p config.ProviderConfig) (model.BaseChatModel, error)

// Registry 提供商名称到 ChatModel 的惰性缓存，并发安全
type Registry struct {
	defaultName string
	providers   map[string]config.ProviderConfig
	build       builder

	models sync.Map // name -> model.BaseChatModel
	group  singleflight.Group
}

// NewRegistry 基于 llm 配置创建注册表
func NewRegistry(cfg *config.LLMConfig) *Registry {
	return &Registry{
		defaultName: cfg.DefaultProvider,
		providers:   cfg.Providers,
		build:       openAICompatible,
	}
}

// Resolve 空名称取默认提供商
func (r *Registry) Resolve(name string) string {
	if name == "" {
		return r.defaultName
	}
	return name
}

// ModelName 提供商配置的模型名，未配置时为空
func (r *Registry) ModelName(name string) string {
	return r.providers[r.Resolve(name)].Model
}

// Names 已配置的提供商名称（排序）
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get 返回提供商的 ChatModel；首次访问时构建，并发首访只构建一次
func (r *Registry) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	name = r.Resolve(name)
	if m, ok := r.models.Load(name); ok {
		return m.(model.BaseChatModel), nil
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		if m, ok := r.models.Load(name); ok {
			return m, nil
		}
		p, ok := r.providers[name]
		if !ok {
			return nil, fmt.Errorf("llm provider %q is not configured (known: %v)", name, r.Names())
		}
		if p.APIKey == "" {
			return nil, fmt.Errorf("llm provider %q has no api_key", name)
		}
		m, err := r.build(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("build chat model for %q: %w", name, err)
		}
		r.models.Store(name, m)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(model.BaseChatModel), nil
}

// openAICompatible 所有提供商均走 OpenAI 兼容协议，通过 base_url 区分
func openAICompatible(ctx context.Context, p config.ProviderConfig) (model.BaseChatModel, error) {
	cfg := &openai.ChatModelConfig{
		APIKey:  p.APIKey,
		BaseURL: p.BaseURL,
		Model:   p.Model,
		Timeout: p.Timeout,
	}
	if p.MaxTokens > 0 {
		cfg.MaxTokens = &p.MaxTokens
	}
	if p.Temperature > 0 {
		t := float32(p.Temperature)
		cfg.Temperature = &t
	}
	return openai.NewChatModel(ctx, cfg)
}
