package quality

import (
	"context"
	"strings"
	"time"

	"copystudio-api/internal/application/textutil"
	"copystudio-api/internal/domain/entity"
	apperrors "copystudio-api/pkg/errors"
	"copystudio-api/pkg/logger"
	"copystudio-api/pkg/metrics"
)

// Service 质量评分应用服务
type Service struct {
	evaluator     Evaluator
	provider      string
	maxInputRunes int
}

// NewService 创建服务；evaluator 为 nil 时深度评估不可用
func NewService(evaluator Evaluator, provider string, maxInputRunes int) *Service {
	return &Service{evaluator: evaluator, provider: provider, maxInputRunes: maxInputRunes}
}

// Heuristic 启发式评分
func (s *Service) Heuristic(text string) entity.QualityScore {
	score := Score(text)
	metrics.QualityOverallScore.WithLabelValues(string(score.Source)).Observe(float64(score.Overall))
	return score
}

// DeepEnabled 深度评估是否可用
func (s *Service) DeepEnabled() bool {
	return s.evaluator != nil
}

// Deep 深度评估
func (s *Service) Deep(ctx context.Context, text string) (entity.QualityScore, error) {
	if s.evaluator == nil {
		return entity.QualityScore{}, apperrors.ErrServiceUnavailable.WithDetail("deep evaluation is disabled")
	}
	if strings.TrimSpace(text) == "" {
		return entity.QualityScore{}, apperrors.ErrInvalidParam.WithDetail("text is empty")
	}
	if s.maxInputRunes > 0 {
		text = textutil.TruncateByRunes(text, s.maxInputRunes)
	}

	start := time.Now()
	score, err := s.evaluator.Evaluate(ctx, text)
	metrics.DeepEvalDuration.WithLabelValues(s.provider).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DeepEvalTotal.WithLabelValues("error").Inc()
		logger.Error(ctx, "deep evaluation failed", err, "provider", s.provider)
		if apperrors.IsAppError(err) {
			return entity.QualityScore{}, err
		}
		return entity.QualityScore{}, apperrors.ErrEvaluationFailed.WithError(err)
	}
	metrics.DeepEvalTotal.WithLabelValues("success").Inc()
	metrics.QualityOverallScore.WithLabelValues(string(entity.ScoreSourceDeep)).Observe(float64(score.Overall))
	return score, nil
}

// Compare 比较两段文本的启发式评分
func (s *Service) Compare(baseline, current string) (entity.QualityScore, entity.QualityScore, ScoreComparison) {
	b := s.Heuristic(baseline)
	c := s.Heuristic(current)
	return b, c, CompareScores(b, c)
}
