package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copystudio-api/internal/domain/entity"
)

const structuredDoc = `# Landing page para SaaS

## Problema
Equipes de marketing perdem leads porque a página não comunica valor de forma clara e objetiva.

## Solução
- Defina uma proposta de valor em uma frase curta.
- Crie provas sociais com depoimentos reais de clientes.
- Otimize o formulário para reduzir o atrito na conversão.

## Próximos passos
Agende uma demonstração hoje mesmo. Clique no botão abaixo e comece o teste gratuito.
`

func TestScore_ShortText(t *testing.T) {
	score := Score("texto curto")

	assert.Equal(t, entity.QualityCriteria{Completude: 20, Estrutura: 0, Clareza: 45, CTA: 0, Acionabilidade: 0}, score.Criteria)
	assert.Equal(t, 13, score.Overall)
	assert.Equal(t, entity.ScoreSourceHeuristic, score.Source)
	require.NotEmpty(t, score.Recommendations)
	assert.Len(t, score.Recommendations, 5)
}

func TestScore_EmptyText(t *testing.T) {
	score := Score("   \n ")

	assert.Equal(t, 20, score.Criteria.Completude)
	assert.Equal(t, 0, score.Criteria.Clareza)
	assert.Equal(t, 4, score.Overall)
}

func TestScore_Formulas(t *testing.T) {
	score := Score("# Título\n- Clique aqui e saiba mais\n- Defina metas")

	assert.Equal(t, entity.QualityCriteria{
		Completude:     25,
		Estrutura:      42,
		Clareza:        70,
		CTA:            68,
		Acionabilidade: 75,
	}, score.Criteria)
	assert.Equal(t, 56, score.Overall)
	assert.Equal(t, []string{
		recommendations[entity.CriterionCompletude],
		recommendations[entity.CriterionEstrutura],
	}, score.Recommendations)
}

func TestScore_StructuredBeatsPlain(t *testing.T) {
	structured := Score(structuredDoc)
	plain := Score("texto curto")

	assert.Greater(t, structured.Overall, plain.Overall)
	assert.Equal(t, 100, structured.Criteria.Acionabilidade)
}

func TestScore_RecommendationPerLowCriterion(t *testing.T) {
	for _, text := range []string{"", "texto curto", structuredDoc, "# A\n# B\n# C\nclique"} {
		score := Score(text)
		for _, name := range entity.CriterionNames {
			if score.Criteria.Get(name) < 60 {
				assert.Contains(t, score.Recommendations, recommendations[name], "%q / %s", text, name)
			} else {
				assert.NotContains(t, score.Recommendations, recommendations[name], "%q / %s", text, name)
			}
		}
	}
}

func TestExtract(t *testing.T) {
	s := Extract("## Título\n\n1. Primeiro passo. Segundo!\n2) outro\n* item\nTexto normal? fim")

	assert.Equal(t, 1, s.HeadingCount)
	assert.Equal(t, 3, s.ListCount)
	assert.Equal(t, 5, s.SentenceCount)
	assert.Equal(t, 9, s.WordCount)
}

func TestExtract_HashWithoutSpaceIsNotHeading(t *testing.T) {
	s := Extract("#hashtag\n####### sete")
	assert.Equal(t, 0, s.HeadingCount)
}

func TestExtract_DistinctTermHits(t *testing.T) {
	s := Extract("Clique, clique, CLIQUE e saiba mais. Teste e teste.")
	assert.Equal(t, 2, s.CTAHits)
	assert.Equal(t, 1, s.ActionHits)
}

func TestScoreSignals_Thresholds(t *testing.T) {
	tests := []struct {
		name string
		sig  Signals
		get  func(entity.QualityCriteria) int
		want int
	}{
		{"completude 39 words", Signals{WordCount: 39}, completudeOf, 20},
		{"completude 40 words", Signals{WordCount: 40}, completudeOf, 40},
		{"completude 79 words", Signals{WordCount: 79}, completudeOf, 40},
		{"completude 80 words", Signals{WordCount: 80}, completudeOf, 55},
		{"completude 139 words", Signals{WordCount: 139}, completudeOf, 55},
		{"completude 140 words", Signals{WordCount: 140}, completudeOf, 70},
		{"completude 219 words", Signals{WordCount: 219}, completudeOf, 70},
		{"completude 220 words", Signals{WordCount: 220}, completudeOf, 85},
		{"completude 2 headings", Signals{HeadingCount: 2}, completudeOf, 30},
		{"completude 3 headings", Signals{HeadingCount: 3}, completudeOf, 35},
		{"completude heading bonus capped at 3", Signals{HeadingCount: 7}, completudeOf, 35},
		{"completude clamped", Signals{WordCount: 300, HeadingCount: 4}, completudeOf, 100},

		{"estrutura 2 headings", Signals{HeadingCount: 2}, estruturaOf, 44},
		{"estrutura 3 headings gets bonus", Signals{HeadingCount: 3}, estruturaOf, 76},
		{"estrutura lists", Signals{HeadingCount: 1, ListCount: 2}, estruturaOf, 42},
		{"estrutura clamped", Signals{HeadingCount: 5}, estruturaOf, 100},

		{"clareza no words", Signals{}, clarezaOf, 0},
		{"clareza avg below 6", Signals{WordCount: 59, AvgWordsPerSentence: 5.9}, clarezaOf, 65},
		{"clareza avg 6", Signals{WordCount: 60, AvgWordsPerSentence: 6}, clarezaOf, 80},
		{"clareza avg 24", Signals{WordCount: 48, AvgWordsPerSentence: 24}, clarezaOf, 80},
		{"clareza avg above 24", Signals{WordCount: 48, AvgWordsPerSentence: 24.5}, clarezaOf, 65},
		{"clareza avg 32", Signals{WordCount: 64, AvgWordsPerSentence: 32}, clarezaOf, 65},
		{"clareza avg above 32", Signals{WordCount: 66, AvgWordsPerSentence: 33}, clarezaOf, 45},
		{"clareza list bonus", Signals{WordCount: 30, AvgWordsPerSentence: 10, ListCount: 1}, clarezaOf, 90},
		{"clareza 19 words penalty", Signals{WordCount: 19, AvgWordsPerSentence: 9.5}, clarezaOf, 60},
		{"clareza 20 words no penalty", Signals{WordCount: 20, AvgWordsPerSentence: 10}, clarezaOf, 80},

		{"cta 3 hits", Signals{CTAHits: 3}, ctaOf, 90},
		{"cta 4 hits clamped", Signals{CTAHits: 4}, ctaOf, 100},
		{"cta with actions clamped", Signals{CTAHits: 3, ActionHits: 2}, ctaOf, 100},

		{"acionabilidade mixed", Signals{ListCount: 1, ActionHits: 2, CTAHits: 1}, acionabilidadeOf, 60},
		{"acionabilidade clamped", Signals{ListCount: 6}, acionabilidadeOf, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.get(ScoreSignals(tt.sig).Criteria))
		})
	}
}

func completudeOf(c entity.QualityCriteria) int     { return c.Completude }
func estruturaOf(c entity.QualityCriteria) int      { return c.Estrutura }
func clarezaOf(c entity.QualityCriteria) int        { return c.Clareza }
func ctaOf(c entity.QualityCriteria) int            { return c.CTA }
func acionabilidadeOf(c entity.QualityCriteria) int { return c.Acionabilidade }

func TestScoreSignals_StrongSignals(t *testing.T) {
	score := ScoreSignals(Signals{WordCount: 300, HeadingCount: 5, ListCount: 6, CTAHits: 4, ActionHits: 4, AvgWordsPerSentence: 12})
	assert.Equal(t, entity.QualityCriteria{Completude: 100, Estrutura: 100, Clareza: 90, CTA: 100, Acionabilidade: 100}, score.Criteria)
	assert.Equal(t, 98, score.Overall)
	assert.Empty(t, score.Recommendations)
}
