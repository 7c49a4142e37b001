package runwatch

import (
	"context"
	"time"

	"copystudio-api/internal/infrastructure/messaging"
	"copystudio-api/pkg/logger"
)

// RunStatusPublisher 由 messaging.Producer 实现
type RunStatusPublisher interface {
	PublishRunStatus(ctx context.Context, changes ...*messaging.RunStatusMessage) ([]string, error)
}

// StreamSink 将变化发布到 Redis Stream
type StreamSink struct {
	publisher RunStatusPublisher
}

func NewStreamSink(publisher RunStatusPublisher) *StreamSink {
	return &StreamSink{publisher: publisher}
}

// Publish 一次轮询的全部变化作为一批写入
func (s *StreamSink) Publish(ctx context.Context, changes []StatusChange) error {
	if len(changes) == 0 {
		return nil
	}
	msgs := make([]*messaging.RunStatusMessage, len(changes))
	for i, c := range changes {
		msgs[i] = &messaging.RunStatusMessage{
			RunID:      c.Run.RunID,
			ThreadID:   c.Run.ThreadID,
			From:       string(c.From),
			To:         string(c.To),
			FinishedAt: c.Run.FinishedAt,
			ObservedAt: c.ObservedAt.UTC().Format(time.RFC3339Nano),
		}
	}
	ids, err := s.publisher.PublishRunStatus(ctx, msgs...)
	if err != nil {
		return err
	}
	logger.Debug(ctx, "run status published", "count", len(ids))
	return nil
}

// LogSink 只记录日志
type LogSink struct{}

func (LogSink) Publish(ctx context.Context, changes []StatusChange) error {
	for _, c := range changes {
		logger.Info(ctx, "run status changed",
			"run_id", c.Run.RunID,
			"thread_id", c.Run.ThreadID,
			"from", string(c.From),
			"to", string(c.To),
			"terminal", c.To.Terminal(),
		)
	}
	return nil
}
