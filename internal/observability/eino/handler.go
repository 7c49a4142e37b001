package eino

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"copystudio-api/internal/domain/service"
	"copystudio-api/pkg/metrics"
	"copystudio-api/pkg/tracer"
)

// callState OnStart 写入、OnEnd/OnError 读取的单次调用状态
type callState struct {
	start time.Time
	call  service.LLMCall
	model string
	span  trace.Span
}

type callStateKey struct{}

func stateFrom(ctx context.Context) *callState {
	st, _ := ctx.Value(callStateKey{}).(*callState)
	return st
}

func newChatModelCallbackHandler() *cbtemplate.ModelCallbackHandler {
	return &cbtemplate.ModelCallbackHandler{
		OnStart: onStart,
		OnEnd: func(ctx context.Context, _ *einocb.RunInfo, out *model.CallbackOutput) context.Context {
			var usage *model.TokenUsage
			if out != nil {
				usage = out.TokenUsage
				if out.Config != nil && out.Config.Model != "" {
					if st := stateFrom(ctx); st != nil {
						st.model = out.Config.Model
					}
				}
			}
			finish(ctx, usage, nil)
			return ctx
		},
		OnError: func(ctx context.Context, _ *einocb.RunInfo, err error) context.Context {
			finish(ctx, nil, err)
			return ctx
		},
	}
}

func onStart(ctx context.Context, info *einocb.RunInfo, in *model.CallbackInput) context.Context {
	st := &callState{start: time.Now(), call: service.LLMCallFrom(ctx)}
	if in != nil && in.Config != nil {
		st.model = in.Config.Model
	}

	attrs := []attribute.KeyValue{
		attribute.String("eino.workflow", st.call.Workflow),
		attribute.String("llm.provider", st.call.Provider),
		attribute.String("llm.model", st.model),
	}
	if in != nil {
		attrs = append(attrs, attribute.Int("llm.messages", len(in.Messages)), attribute.Int("llm.prompt_runes", promptRunes(in.Messages)))
	}
	if info != nil {
		attrs = append(attrs, attribute.String("eino.node_name", info.Name), attribute.String("eino.type", info.Type))
	}

	ctx, st.span = tracer.Start(ctx, "llm.generate", trace.WithAttributes(attrs...))
	return context.WithValue(ctx, callStateKey{}, st)
}

// finish 结束 span 并记录指标；err 非空时状态为 error
func finish(ctx context.Context, usage *model.TokenUsage, err error) {
	st := stateFrom(ctx)
	if st == nil {
		return
	}
	labels := []string{st.call.Workflow, st.call.Provider, st.model}

	status := "success"
	if err != nil {
		status = "error"
		st.span.RecordError(err)
		st.span.SetStatus(codes.Error, err.Error())
	}
	metrics.LLMCallTotal.WithLabelValues(append(labels, status)...).Inc()
	metrics.LLMCallDuration.WithLabelValues(labels...).Observe(time.Since(st.start).Seconds())

	if usage != nil {
		metrics.LLMTokensUsed.WithLabelValues(append(labels, "prompt")...).Add(float64(usage.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(append(labels, "completion")...).Add(float64(usage.CompletionTokens))
		st.span.SetAttributes(
			attribute.Int("llm.prompt_tokens", usage.PromptTokens),
			attribute.Int("llm.completion_tokens", usage.CompletionTokens),
		)
	}
	st.span.End()
}

func promptRunes(msgs []*schema.Message) int {
	n := 0
	for _, m := range msgs {
		if m != nil {
			n += len([]rune(m.Content))
		}
	}
	return n
}
