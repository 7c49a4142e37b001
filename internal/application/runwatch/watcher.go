// Package runwatch 周期性拉取后端运行列表，检测状态变化并推送给订阅方。
//
// Watcher.Run 阻塞到 ctx 取消为止，返回时内部定时器已停止，不会遗留 goroutine。
package runwatch

import (
	"context"
	"time"

	"copystudio-api/internal/application/adapter"
	"copystudio-api/internal/domain/entity"
	"copystudio-api/internal/infrastructure/messaging"
	"copystudio-api/pkg/logger"
	"copystudio-api/pkg/metrics"
)

// RunSource 运行列表来源，返回原始 JSON
type RunSource interface {
	FetchRuns(ctx context.Context) ([]byte, error)
}

// StatusChange 单个运行的状态变化；From 为空表示新出现的运行
type StatusChange struct {
	Run        entity.Run          `json:"run"`
	From       entity.RecordStatus `json:"from,omitempty"`
	To         entity.RecordStatus `json:"to"`
	ObservedAt time.Time           `json:"observed_at"`
}

// Sink 状态变化接收方
type Sink interface {
	Publish(ctx context.Context, changes []StatusChange) error
}

// SinkFunc 函数适配器
type SinkFunc func(ctx context.Context, changes []StatusChange) error

func (f SinkFunc) Publish(ctx context.Context, changes []StatusChange) error {
	return f(ctx, changes)
}

// Watcher 运行状态轮询器，不可并发调用 Run
type Watcher struct {
	source   RunSource
	sink     Sink
	interval time.Duration
	backoff  messaging.BackoffConfig
	now      func() time.Time

	last   map[string]entity.RecordStatus
	primed bool
}

// New 创建轮询器
func New(source RunSource, sink Sink, interval time.Duration, backoff messaging.BackoffConfig) *Watcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Watcher{
		source:   source,
		sink:     sink,
		interval: interval,
		backoff:  backoff,
		now:      time.Now,
		last:     make(map[string]entity.RecordStatus),
	}
}

// Run 立即执行第一次轮询，之后按间隔轮询；失败时按退避策略延后
func (w *Watcher) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		next := w.interval
		if err := w.Poll(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			failures++
			next = max(w.interval, w.backoff.CalculateBackoff(failures-1))
			logger.Warn(ctx, "run watch poll failed",
				"error", err.Error(),
				"failures", failures,
				"retry_in", next.String(),
			)
		} else {
			failures = 0
		}
		timer.Reset(next)
	}
}

// Poll 执行一次轮询。首次成功轮询只建立基线，不产生变化。
// 推送失败时不提交快照，下一次轮询会重新计算同样的变化。
func (w *Watcher) Poll(ctx context.Context) error {
	raw, err := w.source.FetchRuns(ctx)
	if err != nil {
		metrics.RunWatchPollsTotal.WithLabelValues("fetch_error").Inc()
		return err
	}

	runs := adapter.MapRunsResponse(raw)
	changes, snapshot := Diff(w.last, runs, w.now())
	if !w.primed {
		w.last, w.primed = snapshot, true
		metrics.RunWatchPollsTotal.WithLabelValues("success").Inc()
		logger.Debug(ctx, "run watch baseline established", "runs", len(snapshot))
		return nil
	}

	if len(changes) > 0 {
		if err := w.sink.Publish(ctx, changes); err != nil {
			metrics.RunWatchPollsTotal.WithLabelValues("publish_error").Inc()
			return err
		}
		for _, c := range changes {
			metrics.RunWatchChangesTotal.WithLabelValues(string(c.To)).Inc()
		}
	}
	w.last = snapshot
	metrics.RunWatchPollsTotal.WithLabelValues("success").Inc()
	return nil
}

// Diff 比较上一快照与当前运行列表，返回变化（按当前列表顺序）与新快照。
// 没有 run_id 的记录被忽略；同一 run_id 重复出现时以第一条为准。
func Diff(prev map[string]entity.RecordStatus, runs []entity.Run, at time.Time) ([]StatusChange, map[string]entity.RecordStatus) {
	snapshot := make(map[string]entity.RecordStatus, len(runs))
	changes := make([]StatusChange, 0)
	for _, run := range runs {
		if run.RunID == "" {
			continue
		}
		if _, dup := snapshot[run.RunID]; dup {
			continue
		}
		snapshot[run.RunID] = run.Status

		before, seen := prev[run.RunID]
		if seen && before == run.Status {
			continue
		}
		changes = append(changes, StatusChange{
			Run:        run,
			From:       before,
			To:         run.Status,
			ObservedAt: at,
		})
	}
	return changes, snapshot
}
