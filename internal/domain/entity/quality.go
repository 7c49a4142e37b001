package entity

// ScoreSource 评分来源
type ScoreSource string

const (
	ScoreSourceHeuristic ScoreSource = "heuristic"
	ScoreSourceDeep      ScoreSource = "deep"
)

// 评分维度名称
const (
	CriterionCompletude     = "completude"
	CriterionEstrutura      = "estrutura"
	CriterionClareza        = "clareza"
	CriterionCTA            = "cta"
	CriterionAcionabilidade = "acionabilidade"
)

// CriterionNames 固定的维度顺序
var CriterionNames = []string{
	CriterionCompletude,
	CriterionEstrutura,
	CriterionClareza,
	CriterionCTA,
	CriterionAcionabilidade,
}

// QualityCriteria 各维度得分（0-100）
type QualityCriteria struct {
	Completude     int `json:"completude"`
	Estrutura      int `json:"estrutura"`
	Clareza        int `json:"clareza"`
	CTA            int `json:"cta"`
	Acionabilidade int `json:"acionabilidade"`
}

// Get 按维度名称取值，未知名称返回 0
func (c QualityCriteria) Get(name string) int {
	switch name {
	case CriterionCompletude:
		return c.Completude
	case CriterionEstrutura:
		return c.Estrutura
	case CriterionClareza:
		return c.Clareza
	case CriterionCTA:
		return c.CTA
	case CriterionAcionabilidade:
		return c.Acionabilidade
	default:
		return 0
	}
}

// Values 按 CriterionNames 顺序返回各维度得分
func (c QualityCriteria) Values() []int {
	out := make([]int, 0, len(CriterionNames))
	for _, name := range CriterionNames {
		out = append(out, c.Get(name))
	}
	return out
}

// QualityScore 文本质量评分
type QualityScore struct {
	Overall         int             `json:"overall"`
	Criteria        QualityCriteria `json:"criteria"`
	Recommendations []string        `json:"recommendations"`
	Source          ScoreSource     `json:"source"`
}
