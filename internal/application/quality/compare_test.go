package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"copystudio-api/internal/domain/entity"
)

func TestCompareScores_SameScoreIsZero(t *testing.T) {
	for _, text := range []string{"", "texto curto", structuredDoc} {
		s := Score(text)
		cmp := CompareScores(s, s)

		assert.Zero(t, cmp.OverallDelta)
		assert.Equal(t, entity.QualityCriteria{}, cmp.CriteriaDelta)
		assert.Empty(t, cmp.Improved)
		assert.Empty(t, cmp.Regressed)
	}
}

func TestCompareScores_Deltas(t *testing.T) {
	baseline := entity.QualityScore{Overall: 40, Criteria: entity.QualityCriteria{Completude: 40, Estrutura: 50, Clareza: 80, CTA: 10, Acionabilidade: 20}}
	current := entity.QualityScore{Overall: 50, Criteria: entity.QualityCriteria{Completude: 55, Estrutura: 50, Clareza: 65, CTA: 40, Acionabilidade: 40}}

	cmp := CompareScores(baseline, current)

	assert.Equal(t, 10, cmp.OverallDelta)
	assert.Equal(t, entity.QualityCriteria{Completude: 15, Estrutura: 0, Clareza: -15, CTA: 30, Acionabilidade: 20}, cmp.CriteriaDelta)
	assert.Equal(t, []string{entity.CriterionCompletude, entity.CriterionCTA, entity.CriterionAcionabilidade}, cmp.Improved)
	assert.Equal(t, []string{entity.CriterionClareza}, cmp.Regressed)
}
