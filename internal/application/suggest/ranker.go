// Package suggest 根据用户的自由文本需求为内容模板打分并给出推荐。
//
// 计算是纯函数式的：相同的目录与请求文本总是得到相同的推荐顺序。
package suggest

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"copystudio-api/internal/application/textutil"
	"copystudio-api/internal/domain/entity"
)

const (
	// MaxSuggestions 推荐数量上限
	MaxSuggestions = 3

	summaryMaxRunes = 80
	reasonMaxRunes  = 120
	minTokenRunes   = 4

	keywordWeight = 3
	tokenWeight   = 1
)

// 模板 ID
const (
	TemplateLandingConversion = "landing-conversion"
	TemplateEmailNurturing    = "email-nurturing"
	TemplateContentStrategy   = "content-strategy"
)

// DefaultKeywords 每个模板 ID 的固定关键词（已归一化）
var DefaultKeywords = map[string][]string{
	TemplateLandingConversion: {"landing", "pagina de vendas", "conversao", "converter", "leads", "captura", "saas"},
	TemplateEmailNurturing:    {"email", "e-mail", "newsletter", "nutricao", "sequencia", "automacao"},
	TemplateContentStrategy:   {"estrategia", "planejamento", "calendario", "editorial", "pauta", "blog"},
}

// DefaultFallbackOrder 无信号时的固定推荐顺序
var DefaultFallbackOrder = []string{
	TemplateLandingConversion,
	TemplateEmailNurturing,
	TemplateContentStrategy,
}

const (
	fallbackReason = "Sugestão inicial: não identificamos um objetivo claro no pedido, revise e escolha o modelo manualmente."
	strategyReason = "Ajuda a organizar o planejamento estratégico com objetivos, canais e próximos passos do conteúdo."
)

var cannedReasons = map[string]string{
	TemplateLandingConversion: "Indicado para captar leads e converter visitantes com uma página focada em uma única oferta.",
	TemplateEmailNurturing:    "Ideal para nutrir contatos com uma sequência de e-mails que conduz até a decisão de compra.",
}

// Result 推荐结果
type Result struct {
	Suggestions               []entity.SuggestedTemplate `json:"suggestions"`
	FallbackToManualSelection bool                       `json:"fallback_to_manual_selection"`
}

// Ranker 模板推荐器，零值不可用，请使用 New 或 Default
type Ranker struct {
	keywords map[string][]string
	fallback []string
}

// Option Ranker 配置项
type Option func(*Ranker)

// WithKeywords 覆盖关键词表（会再次归一化）
func WithKeywords(keywords map[string][]string) Option {
	return func(r *Ranker) {
		r.keywords = normalizeKeywords(keywords)
	}
}

// WithFallbackOrder 覆盖兜底顺序
func WithFallbackOrder(ids []string) Option {
	return func(r *Ranker) {
		r.fallback = append([]string(nil), ids...)
	}
}

// New 创建推荐器
func New(opts ...Option) *Ranker {
	r := &Ranker{
		keywords: normalizeKeywords(DefaultKeywords),
		fallback: append([]string(nil), DefaultFallbackOrder...),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRanker = New()

// Default 返回使用默认关键词表的推荐器
func Default() *Ranker {
	return defaultRanker
}

// Suggest 使用默认推荐器
func Suggest(requestText string, templates []entity.Template) Result {
	return defaultRanker.Suggest(requestText, templates)
}

// Suggest 为请求文本挑选最多 MaxSuggestions 个模板
func (r *Ranker) Suggest(requestText string, templates []entity.Template) Result {
	request := textutil.Fold(requestText)

	scores := make([]int, len(templates))
	signal := false
	if request != "" {
		for i := range templates {
			scores[i] = r.Score(request, templates[i])
			if scores[i] > 0 {
				signal = true
			}
		}
	}

	if !signal {
		chosen := r.fallbackPick(templates)
		out := make([]entity.SuggestedTemplate, 0, len(chosen))
		for _, tpl := range chosen {
			out = append(out, buildSuggestion(tpl, fallbackReason))
		}
		return Result{Suggestions: out, FallbackToManualSelection: true}
	}

	order := make([]int, len(templates))
	for i := range order {
		order[i] = i
	}
	// collate.Collator 非并发安全，每次调用单独创建
	col := collate.New(language.BrazilianPortuguese)
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if scores[ia] != scores[ib] {
			return scores[ia] > scores[ib]
		}
		return col.CompareString(templates[ia].Name, templates[ib].Name) < 0
	})

	n := min(MaxSuggestions, len(order))
	out := make([]entity.SuggestedTemplate, 0, n)
	for _, idx := range order[:n] {
		tpl := templates[idx]
		out = append(out, buildSuggestion(tpl, reasonFor(tpl.ID)))
	}
	return Result{Suggestions: out}
}

// Score 计算单个模板对归一化请求文本的相关度。
// normalizedRequest 必须已经过 textutil.Fold。
func (r *Ranker) Score(normalizedRequest string, tpl entity.Template) int {
	if normalizedRequest == "" {
		return 0
	}
	score := 0
	for _, kw := range r.keywords[tpl.ID] {
		if strings.Contains(normalizedRequest, kw) {
			score += keywordWeight
		}
	}
	for _, tok := range templateTokens(tpl) {
		if utf8.RuneCountInString(tok) >= minTokenRunes && strings.Contains(normalizedRequest, tok) {
			score += tokenWeight
		}
	}
	return score
}

// fallbackPick 先按固定顺序取存在于目录中的模板，再按目录顺序补齐
func (r *Ranker) fallbackPick(templates []entity.Template) []entity.Template {
	byID := make(map[string]int, len(templates))
	for i, tpl := range templates {
		if _, ok := byID[tpl.ID]; !ok {
			byID[tpl.ID] = i
		}
	}

	used := make(map[string]struct{}, MaxSuggestions)
	chosen := make([]entity.Template, 0, MaxSuggestions)
	for _, id := range r.fallback {
		if len(chosen) == MaxSuggestions {
			break
		}
		idx, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := used[id]; dup {
			continue
		}
		used[id] = struct{}{}
		chosen = append(chosen, templates[idx])
	}
	for _, tpl := range templates {
		if len(chosen) == MaxSuggestions {
			break
		}
		if _, dup := used[tpl.ID]; dup {
			continue
		}
		used[tpl.ID] = struct{}{}
		chosen = append(chosen, tpl)
	}
	return chosen
}

func templateTokens(tpl entity.Template) []string {
	tokens := strings.Fields(textutil.Fold(tpl.Name))
	for _, tag := range tpl.Tags {
		tokens = append(tokens, strings.Fields(textutil.Fold(tag))...)
	}
	return tokens
}

func reasonFor(id string) string {
	if reason, ok := cannedReasons[id]; ok {
		return reason
	}
	return strategyReason
}

func buildSuggestion(tpl entity.Template, reason string) entity.SuggestedTemplate {
	return entity.SuggestedTemplate{
		TemplateID:   tpl.ID,
		TemplateName: tpl.Name,
		Summary:      textutil.Ellipsize(tpl.Description, summaryMaxRunes),
		Reason:       textutil.TruncateByRunes(reason, reasonMaxRunes),
	}
}

func normalizeKeywords(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for id, kws := range in {
		list := make([]string, 0, len(kws))
		for _, kw := range kws {
			if n := textutil.Fold(kw); n != "" {
				list = append(list, n)
			}
		}
		out[id] = list
	}
	return out
}
