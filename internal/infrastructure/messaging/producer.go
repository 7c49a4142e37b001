package messaging

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const defaultMaxLen = 100000

var tracer = otel.Tracer("messaging")

// Producer Redis Stream 生产者，按 MAXLEN ~ 裁剪
type Producer struct {
	client *redis.Client
	maxLen int64
}

// NewProducer 创建生产者；maxLen<=0 时使用默认值
func NewProducer(client *redis.Client, maxLen int64) *Producer {
	if maxLen <= 0 {
		maxLen = defaultMaxLen
	}
	return &Producer{client: client, maxLen: maxLen}
}

// Publish 发布一批消息；使用 MULTI/EXEC，要么全部写入要么全部失败
func (p *Producer) Publish(ctx context.Context, stream Stream, msgs ...*Message) ([]string, error) {
	if len(msgs) == 0 {
		return nil, nil
	}
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.Int("message.count", len(msgs)),
		))
	defer span.End()

	pipe := p.client.TxPipeline()
	cmds := make([]*redis.StringCmd, len(msgs))
	for i, msg := range msgs {
		injectTraceContext(ctx, msg)
		cmds[i] = pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: string(stream),
			MaxLen: p.maxLen,
			Approx: true,
			Values: msg.streamValues(),
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("publish %d messages to %s: %w", len(msgs), stream, err)
	}

	ids := make([]string, len(cmds))
	for i, cmd := range cmds {
		ids[i] = cmd.Val()
	}
	return ids, nil
}

// PublishRunStatus 发布一批运行状态变更
func (p *Producer) PublishRunStatus(ctx context.Context, changes ...*RunStatusMessage) ([]string, error) {
	msgs := make([]*Message, 0, len(changes))
	for _, c := range changes {
		msg, err := c.toMessage()
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return p.Publish(ctx, StreamRunStatus, msgs...)
}

// injectTraceContext 将 traceparent 写入元数据，消费者可据此续接链路
func injectTraceContext(ctx context.Context, msg *Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.SetMetadata(k, v)
	}
}
