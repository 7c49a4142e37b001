package quality

import "copystudio-api/internal/domain/entity"

// ScoreComparison 两次评分的差值（current - baseline）
type ScoreComparison struct {
	OverallDelta  int                    `json:"overall_delta"`
	CriteriaDelta entity.QualityCriteria `json:"criteria_delta"`
	Improved      []string               `json:"improved"`
	Regressed     []string               `json:"regressed"`
}

// CompareScores 比较两次评分
func CompareScores(baseline, current entity.QualityScore) ScoreComparison {
	b, c := baseline.Criteria, current.Criteria
	cmp := ScoreComparison{
		OverallDelta: current.Overall - baseline.Overall,
		CriteriaDelta: entity.QualityCriteria{
			Completude:     c.Completude - b.Completude,
			Estrutura:      c.Estrutura - b.Estrutura,
			Clareza:        c.Clareza - b.Clareza,
			CTA:            c.CTA - b.CTA,
			Acionabilidade: c.Acionabilidade - b.Acionabilidade,
		},
		Improved:  []string{},
		Regressed: []string{},
	}
	for _, name := range entity.CriterionNames {
		switch d := cmp.CriteriaDelta.Get(name); {
		case d > 0:
			cmp.Improved = append(cmp.Improved, name)
		case d < 0:
			cmp.Regressed = append(cmp.Regressed, name)
		}
	}
	return cmp
}
