// Package llmeval 通过 Eino ChatModel 对文案做深度质量评估。
package llmeval

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"copystudio-api/internal/application/quality"
	"copystudio-api/internal/application/textutil"
	"copystudio-api/internal/domain/entity"
	"copystudio-api/internal/domain/service"
)

//go:embed prompts/*.txt
var promptsFS embed.FS

const (
	promptVersion = "deep_score_v1"
	workflowName  = "deep_score"
)

// ChatModelProvider 按提供商名称获取模型（由 llm.Registry 实现）
type ChatModelProvider interface {
	Get(ctx context.Context, name string) (model.BaseChatModel, error)
}

// Evaluator 实现 quality.Evaluator
type Evaluator struct {
	models   ChatModelProvider
	provider string
	tpl      einoprompt.ChatTemplate
}

var _ quality.Evaluator = (*Evaluator)(nil)

// New 创建深度评估器
func New(models ChatModelProvider, provider string) (*Evaluator, error) {
	system, err := readPrompt(promptVersion + ".system.txt")
	if err != nil {
		return nil, err
	}
	user, err := readPrompt(promptVersion + ".user.txt")
	if err != nil {
		return nil, err
	}
	return &Evaluator{
		models:   models,
		provider: provider,
		tpl: einoprompt.FromMessages(
			schema.GoTemplate,
			schema.SystemMessage(system),
			schema.UserMessage(user),
		),
	}, nil
}

// CacheNamespace 缓存命名空间：提供商 + 提示词版本
func (e *Evaluator) CacheNamespace() string {
	return e.provider + ":" + promptVersion
}

// Evaluate 调用模型并解析评分
func (e *Evaluator) Evaluate(ctx context.Context, text string) (entity.QualityScore, error) {
	ctx = service.WithLLMCall(ctx, workflowName, e.provider)
	ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      workflowName,
		Type:      e.provider,
		Component: components.ComponentOfChatModel,
	})

	cm, err := e.models.Get(ctx, e.provider)
	if err != nil {
		return entity.QualityScore{}, err
	}
	msgs, err := e.tpl.Format(ctx, map[string]any{"text": text})
	if err != nil {
		return entity.QualityScore{}, fmt.Errorf("format deep score prompt: %w", err)
	}
	out, err := cm.Generate(ctx, msgs)
	if err != nil {
		return entity.QualityScore{}, err
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return entity.QualityScore{}, fmt.Errorf("empty llm response")
	}
	return ParseScore(out.Content)
}

type rawScore struct {
	Overall         *float64           `json:"overall"`
	Criteria        map[string]float64 `json:"criteria"`
	Recommendations []string           `json:"recommendations"`
}

// ParseScore 从模型输出中解析评分；缺少任一维度视为无效输出
func ParseScore(content string) (entity.QualityScore, error) {
	var raw rawScore
	if err := json.Unmarshal([]byte(textutil.ExtractJSONObject(content)), &raw); err != nil {
		return entity.QualityScore{}, fmt.Errorf("decode deep score: %w", err)
	}

	values := make(map[string]int, len(entity.CriterionNames))
	for _, name := range entity.CriterionNames {
		v, ok := raw.Criteria[name]
		if !ok {
			return entity.QualityScore{}, fmt.Errorf("deep score missing criterion %q", name)
		}
		values[name] = clamp(v)
	}
	criteria := entity.QualityCriteria{
		Completude:     values[entity.CriterionCompletude],
		Estrutura:      values[entity.CriterionEstrutura],
		Clareza:        values[entity.CriterionClareza],
		CTA:            values[entity.CriterionCTA],
		Acionabilidade: values[entity.CriterionAcionabilidade],
	}

	overall := quality.Overall(criteria)
	if raw.Overall != nil {
		overall = clamp(*raw.Overall)
	}

	recs := make([]string, 0, len(raw.Recommendations))
	for _, r := range raw.Recommendations {
		if r = strings.TrimSpace(r); r != "" {
			recs = append(recs, r)
		}
	}

	return entity.QualityScore{
		Overall:         overall,
		Criteria:        criteria,
		Recommendations: recs,
		Source:          entity.ScoreSourceDeep,
	}, nil
}

func clamp(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return int(v + 0.5)
	}
}

func readPrompt(name string) (string, error) {
	b, err := promptsFS.ReadFile("prompts/" + name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
