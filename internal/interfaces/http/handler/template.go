package handler

import (
	"github.com/gin-gonic/gin"

	"copystudio-api/internal/application/suggest"
	"copystudio-api/internal/domain/entity"
	"copystudio-api/internal/interfaces/http/dto"
	apperrors "copystudio-api/pkg/errors"
	"copystudio-api/pkg/metrics"
)

// TemplateCatalog 模板目录快照
type TemplateCatalog interface {
	Templates() []entity.Template
	Get(id string) (entity.Template, bool)
}

// TemplateHandler 模板处理器
type TemplateHandler struct {
	catalog TemplateCatalog
	ranker  *suggest.Ranker
}

// NewTemplateHandler 创建模板处理器
func NewTemplateHandler(catalog TemplateCatalog, ranker *suggest.Ranker) *TemplateHandler {
	if ranker == nil {
		ranker = suggest.Default()
	}
	return &TemplateHandler{catalog: catalog, ranker: ranker}
}

// List 获取模板目录
// @Summary 获取模板目录
// @Tags Templates
// @Produce json
// @Success 200 {object} dto.Response[dto.TemplateListResponse]
// @Router /v1/templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	dto.Success(c, dto.ToTemplateListResponse(h.catalog.Templates()))
}

// Get 按 ID 获取单个模板
// @Summary 获取模板
// @Tags Templates
// @Produce json
// @Param id path string true "模板 ID"
// @Success 200 {object} dto.Response[dto.TemplateResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/templates/{id} [get]
func (h *TemplateHandler) Get(c *gin.Context) {
	id := c.Param("id")
	tpl, ok := h.catalog.Get(id)
	if !ok {
		dto.HandleError(c, apperrors.ErrTemplateNotFound.WithDetail(id))
		return
	}
	dto.Success(c, dto.ToTemplateResponse(tpl))
}

// Suggest 根据需求文本推荐模板
// @Summary 推荐模板
// @Tags Templates
// @Accept json
// @Produce json
// @Param body body dto.SuggestRequest true "需求文本"
// @Success 200 {object} dto.Response[dto.SuggestResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/templates/suggest [post]
func (h *TemplateHandler) Suggest(c *gin.Context) {
	var req dto.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}

	result := h.ranker.Suggest(req.Request, h.catalog.Templates())

	mode := "ranked"
	if result.FallbackToManualSelection {
		mode = "fallback"
	}
	metrics.SuggestTotal.WithLabelValues(mode).Inc()

	dto.Success(c, result)
}
