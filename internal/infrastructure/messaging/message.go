// Package messaging 将领域事件发布到 Redis Stream
package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"copystudio-api/internal/config"
)

// Stream 流名称
type Stream string

const (
	StreamRunStatus Stream = "stream:runs:status"
)

// 消息类型
const (
	TypeRunStatus = "run_status"
)

// Message 流上的消息信封；Metadata 以扁平字段写入流，消费者无需解析 Payload 即可过滤
type Message struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Payload   json.RawMessage   `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewMessage 生成带随机 ID 的消息
func NewMessage(msgType string, payload any) (*Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	return &Message{
		ID:        uuid.NewString(),
		Type:      msgType,
		Payload:   raw,
		Metadata:  map[string]string{},
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SetMetadata 设置元数据，空值忽略
func (m *Message) SetMetadata(key, value string) {
	if value == "" {
		return
	}
	if m.Metadata == nil {
		m.Metadata = map[string]string{}
	}
	m.Metadata[key] = value
}

// UnmarshalPayload 解析消息载荷
func (m *Message) UnmarshalPayload(v any) error {
	return json.Unmarshal(m.Payload, v)
}

// streamValues XADD 字段：id/type/created_at/payload 以及 meta.<key>
func (m *Message) streamValues() map[string]any {
	values := map[string]any{
		"id":         m.ID,
		"type":       m.Type,
		"created_at": m.CreatedAt.Format(time.RFC3339Nano),
		"payload":    string(m.Payload),
	}
	for k, v := range m.Metadata {
		values["meta."+k] = v
	}
	return values
}

// RunStatusMessage 运行状态变更载荷
type RunStatusMessage struct {
	RunID      string `json:"run_id"`
	ThreadID   string `json:"thread_id,omitempty"`
	From       string `json:"from,omitempty"`
	To         string `json:"to"`
	FinishedAt string `json:"finished_at,omitempty"`
	ObservedAt string `json:"observed_at"`
}

// toMessage 运行 ID、线程 ID 与目标状态同时写入元数据
func (r *RunStatusMessage) toMessage() (*Message, error) {
	msg, err := NewMessage(TypeRunStatus, r)
	if err != nil {
		return nil, err
	}
	msg.SetMetadata("run_id", r.RunID)
	msg.SetMetadata("thread_id", r.ThreadID)
	msg.SetMetadata("to", r.To)
	return msg, nil
}

// BackoffConfig 指数退避参数
type BackoffConfig struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// DefaultBackoffConfig 1s 起步，翻倍，上限 1m
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		Initial:    time.Second,
		Max:        time.Minute,
		Multiplier: 2,
	}
}

// BackoffFromConfig 由配置构造，非法值回退到默认
func BackoffFromConfig(cfg config.BackoffConfig) BackoffConfig {
	def := DefaultBackoffConfig()
	out := BackoffConfig{Initial: cfg.Initial, Max: cfg.Max, Multiplier: cfg.Multiplier}
	if out.Initial <= 0 {
		out.Initial = def.Initial
	}
	if out.Max < out.Initial {
		out.Max = max(def.Max, out.Initial)
	}
	if out.Multiplier < 1 {
		out.Multiplier = def.Multiplier
	}
	return out
}

// CalculateBackoff 第 retryCount 次重试（从 0 开始）前的等待时间
func (c BackoffConfig) CalculateBackoff(retryCount int) time.Duration {
	backoff := c.Initial
	for i := 0; i < retryCount; i++ {
		backoff = time.Duration(float64(backoff) * c.Multiplier)
		if backoff > c.Max {
			return c.Max
		}
	}
	return backoff
}
