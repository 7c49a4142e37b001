// Package service 提供跨层共享的领域上下文
package service

import (
	"context"
	"strings"
)

const unknown = "unknown"

// LLMCall 一次模型调用的归属信息，用于指标与追踪标签
type LLMCall struct {
	Workflow string
	Provider string
}

type llmCallKey struct{}

// WithLLMCall 标记后续模型调用所属的流程（如 deep_score）与提供商；空值保持原有标记
func WithLLMCall(ctx context.Context, workflow, provider string) context.Context {
	call := LLMCallFrom(ctx)
	if w := strings.TrimSpace(workflow); w != "" {
		call.Workflow = w
	}
	if p := strings.TrimSpace(provider); p != "" {
		call.Provider = p
	}
	return context.WithValue(ctx, llmCallKey{}, call)
}

// LLMCallFrom 读取调用归属；未标记的字段为 unknown
func LLMCallFrom(ctx context.Context) LLMCall {
	call, _ := ctx.Value(llmCallKey{}).(LLMCall)
	if call.Workflow == "" {
		call.Workflow = unknown
	}
	if call.Provider == "" {
		call.Provider = unknown
	}
	return call
}
