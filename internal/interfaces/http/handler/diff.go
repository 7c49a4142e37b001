package handler

import (
	"github.com/gin-gonic/gin"

	"copystudio-api/internal/application/preview"
	"copystudio-api/internal/application/textdiff"
	"copystudio-api/internal/domain/entity"
	"copystudio-api/internal/interfaces/http/dto"
	apperrors "copystudio-api/pkg/errors"
	"copystudio-api/pkg/metrics"
)

// DiffHandler 文本差异与预览处理器
type DiffHandler struct{}

// NewDiffHandler 创建差异处理器
func NewDiffHandler() *DiffHandler {
	return &DiffHandler{}
}

// Diff 行级差异
// @Summary 行级差异
// @Tags Content
// @Accept json
// @Produce json
// @Param body body dto.DiffRequest true "基线与当前文本"
// @Success 200 {object} dto.Response[dto.DiffResponse]
// @Router /v1/diff [post]
func (h *DiffHandler) Diff(c *gin.Context) {
	var req dto.DiffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}

	lines := textdiff.Lines(req.Baseline, req.Current)
	stats := textdiff.Summarize(lines)
	recordDiffMetrics(stats)

	dto.Success(c, &dto.DiffResponse{Lines: lines, Stats: stats})
}

// Preview Markdown 渲染预览
// @Summary Markdown 预览
// @Tags Content
// @Accept json
// @Produce json
// @Param body body dto.PreviewRequest true "Markdown 内容"
// @Success 200 {object} dto.Response[dto.PreviewResponse]
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/content/preview [post]
func (h *DiffHandler) Preview(c *gin.Context) {
	var req dto.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}

	html, err := preview.Render(req.Content)
	if err != nil {
		respondError(c, "markdown render failed", apperrors.ErrRenderFailed.WithError(err))
		return
	}
	dto.Success(c, &dto.PreviewResponse{HTML: html})
}

func recordDiffMetrics(stats textdiff.DiffStats) {
	metrics.DiffLinesTotal.WithLabelValues(string(entity.DiffLineAdded)).Add(float64(stats.Added))
	metrics.DiffLinesTotal.WithLabelValues(string(entity.DiffLineRemoved)).Add(float64(stats.Removed))
	metrics.DiffLinesTotal.WithLabelValues(string(entity.DiffLineUnchanged)).Add(float64(stats.Unchanged))
}
