// Package quality 对生成的营销文案做启发式质量评分，并提供深度评估（LLM）的端口与缓存装饰器。
package quality

import (
	"math"
	"regexp"
	"strings"

	"copystudio-api/internal/domain/entity"
)

var (
	wordPattern     = regexp.MustCompile(`\p{L}[\p{L}\p{M}\p{N}'’_-]*`)
	headingPattern  = regexp.MustCompile(`^#{1,6}[ \t]+`)
	listPattern     = regexp.MustCompile(`^[ \t]*(?:[-*+]|\d+[.)])[ \t]+`)
	sentencePattern = regexp.MustCompile(`[.!?]+\s+`)
)

// CTATerms 行动号召词
var CTATerms = []string{
	"clique", "cadastre", "inscreva", "compre", "assine", "baixe",
	"agende", "fale conosco", "saiba mais", "comece", "garanta", "experimente",
}

// ActionTerms 行动动词
var ActionTerms = []string{
	"aumente", "reduza", "melhore", "crie", "defina", "implemente",
	"otimize", "teste", "mensure", "acompanhe", "publique", "envie",
}

// 低于该分数的维度会给出建议
const recommendationThreshold = 60

var recommendations = map[string]string{
	entity.CriterionCompletude:     "Desenvolva mais o conteúdo: aprofunde os tópicos e distribua-os em seções com títulos.",
	entity.CriterionEstrutura:      "Organize o texto com títulos (#) e listas para facilitar a leitura rápida.",
	entity.CriterionClareza:        "Ajuste o tamanho das frases: prefira sentenças entre 6 e 24 palavras.",
	entity.CriterionCTA:            "Inclua uma chamada para ação clara, como \"Saiba mais\" ou \"Agende uma demonstração\".",
	entity.CriterionAcionabilidade: "Transforme as ideias em passos práticos, com verbos de ação e listas de tarefas.",
}

// Signals 从文本提取的原始信号
type Signals struct {
	WordCount           int     `json:"word_count"`
	HeadingCount        int     `json:"heading_count"`
	ListCount           int     `json:"list_count"`
	SentenceCount       int     `json:"sentence_count"`
	AvgWordsPerSentence float64 `json:"avg_words_per_sentence"`
	CTAHits             int     `json:"cta_hits"`
	ActionHits          int     `json:"action_hits"`
}

// Extract 计算文本信号
func Extract(markdown string) Signals {
	text := strings.TrimSpace(markdown)

	var s Signals
	s.WordCount = len(wordPattern.FindAllStringIndex(text, -1))

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if headingPattern.MatchString(line) {
			s.HeadingCount++
		}
		if listPattern.MatchString(line) {
			s.ListCount++
		}
	}

	for _, seg := range sentencePattern.Split(text, -1) {
		if strings.TrimSpace(seg) != "" {
			s.SentenceCount++
		}
	}
	if s.SentenceCount < 1 {
		s.SentenceCount = 1
	}
	s.AvgWordsPerSentence = float64(s.WordCount) / float64(s.SentenceCount)

	lower := strings.ToLower(text)
	s.CTAHits = countTerms(lower, CTATerms)
	s.ActionHits = countTerms(lower, ActionTerms)
	return s
}

// Score 计算启发式质量评分
func Score(markdown string) entity.QualityScore {
	return ScoreSignals(Extract(markdown))
}

// ScoreSignals 由信号计算各维度得分
func ScoreSignals(s Signals) entity.QualityScore {
	criteria := entity.QualityCriteria{
		Completude:     clampRound(float64(completudeBase(s.WordCount) + min(s.HeadingCount, 3)*5)),
		Estrutura:      clampRound(float64(estrutura(s))),
		Clareza:        clampRound(float64(clareza(s))),
		CTA:            clampRound(float64(s.CTAHits*30 + s.ActionHits*8)),
		Acionabilidade: clampRound(float64(s.ListCount*20 + s.ActionHits*15 + s.CTAHits*10)),
	}
	return entity.QualityScore{
		Overall:         Overall(criteria),
		Criteria:        criteria,
		Recommendations: Recommendations(criteria),
		Source:          entity.ScoreSourceHeuristic,
	}
}

// Overall 五个维度的算术平均（四舍五入）
func Overall(c entity.QualityCriteria) int {
	sum := 0
	values := c.Values()
	for _, v := range values {
		sum += v
	}
	return clampRound(float64(sum) / float64(len(values)))
}

// Recommendations 按固定维度顺序返回低分维度的建议
func Recommendations(c entity.QualityCriteria) []string {
	out := make([]string, 0, len(entity.CriterionNames))
	for _, name := range entity.CriterionNames {
		if c.Get(name) < recommendationThreshold {
			out = append(out, recommendations[name])
		}
	}
	return out
}

func completudeBase(words int) int {
	switch {
	case words >= 220:
		return 85
	case words >= 140:
		return 70
	case words >= 80:
		return 55
	case words >= 40:
		return 40
	default:
		return 20
	}
}

func estrutura(s Signals) int {
	v := s.HeadingCount*22 + s.ListCount*10
	if s.HeadingCount >= 3 {
		v += 10
	}
	return v
}

func clareza(s Signals) int {
	var v int
	switch {
	case s.WordCount == 0:
		v = 0
	case s.AvgWordsPerSentence >= 6 && s.AvgWordsPerSentence <= 24:
		v = 80
	case s.AvgWordsPerSentence <= 32:
		v = 65
	default:
		v = 45
	}
	if s.ListCount > 0 {
		v += 10
	}
	if s.WordCount < 20 {
		v -= 20
	}
	return v
}

func countTerms(lower string, terms []string) int {
	hits := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			hits++
		}
	}
	return hits
}

func clampRound(v float64) int {
	return int(math.Round(math.Max(0, math.Min(100, v))))
}
