package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLLMCall(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, LLMCall{Workflow: "unknown", Provider: "unknown"}, LLMCallFrom(ctx))

	ctx = WithLLMCall(ctx, " deep_score ", "openai")
	assert.Equal(t, LLMCall{Workflow: "deep_score", Provider: "openai"}, LLMCallFrom(ctx))

	// 空值不覆盖已有标记
	ctx = WithLLMCall(ctx, "", "azure")
	assert.Equal(t, LLMCall{Workflow: "deep_score", Provider: "azure"}, LLMCallFrom(ctx))
}
