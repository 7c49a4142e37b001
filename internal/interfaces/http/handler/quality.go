package handler

import (
	"github.com/gin-gonic/gin"

	"copystudio-api/internal/application/quality"
	"copystudio-api/internal/interfaces/http/dto"
)

// QualityHandler 质量评分处理器
type QualityHandler struct {
	svc *quality.Service
}

// NewQualityHandler 创建质量评分处理器
func NewQualityHandler(svc *quality.Service) *QualityHandler {
	return &QualityHandler{svc: svc}
}

// Score 启发式评分
// @Summary 启发式评分
// @Tags Quality
// @Accept json
// @Produce json
// @Param body body dto.ScoreRequest true "文本"
// @Success 200 {object} dto.Response[entity.QualityScore]
// @Router /v1/quality/score [post]
func (h *QualityHandler) Score(c *gin.Context) {
	var req dto.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}
	dto.Success(c, h.svc.Heuristic(req.Text))
}

// Deep 深度评估（LLM），未启用时返回 503
// @Summary 深度评估
// @Tags Quality
// @Accept json
// @Produce json
// @Param body body dto.DeepScoreRequest true "文本"
// @Success 200 {object} dto.Response[entity.QualityScore]
// @Failure 502 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/quality/deep [post]
func (h *QualityHandler) Deep(c *gin.Context) {
	var req dto.DeepScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}

	score, err := h.svc.Deep(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, "deep evaluation failed", err)
		return
	}
	dto.Success(c, score)
}

// Compare 比较两段文本的评分
// @Summary 评分对比
// @Tags Quality
// @Accept json
// @Produce json
// @Param body body dto.ScoreCompareRequest true "基线与当前文本"
// @Success 200 {object} dto.Response[dto.ScoreCompareResponse]
// @Router /v1/quality/compare [post]
func (h *QualityHandler) Compare(c *gin.Context) {
	var req dto.ScoreCompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}

	baseline, current, cmp := h.svc.Compare(req.Baseline, req.Current)
	dto.Success(c, &dto.ScoreCompareResponse{
		Baseline:   baseline,
		Current:    current,
		Comparison: cmp,
	})
}
