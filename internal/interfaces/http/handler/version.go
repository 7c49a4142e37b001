package handler

import (
	"github.com/gin-gonic/gin"

	"copystudio-api/internal/application/versions"
	"copystudio-api/internal/interfaces/http/dto"
)

// VersionHandler 内容版本处理器
type VersionHandler struct {
	svc *versions.Service
}

// NewVersionHandler 创建内容版本处理器
func NewVersionHandler(svc *versions.Service) *VersionHandler {
	return &VersionHandler{svc: svc}
}

// Create 保存新版本；内容未变化时返回 200 与已有版本
// @Summary 保存内容版本
// @Tags Versions
// @Accept json
// @Produce json
// @Param did path string true "文档 ID"
// @Param body body dto.CreateVersionRequest true "版本内容"
// @Success 201 {object} dto.Response[dto.CreateVersionResponse]
// @Success 200 {object} dto.Response[dto.CreateVersionResponse]
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/documents/{did}/versions [post]
func (h *VersionHandler) Create(c *gin.Context) {
	did, err := dto.BindDocumentID(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	var req dto.CreateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}

	v, created, err := h.svc.Create(c.Request.Context(), req.ToInput(did))
	if err != nil {
		respondError(c, "failed to create content version", err)
		return
	}

	resp := &dto.CreateVersionResponse{Version: dto.ToVersionResponse(v, true), Created: created}
	if created {
		dto.Created(c, resp)
		return
	}
	dto.Success(c, resp)
}

// List 分页列出版本（按版本号倒序）
// @Summary 版本列表
// @Tags Versions
// @Produce json
// @Param did path string true "文档 ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[dto.VersionListResponse]
// @Router /v1/documents/{did}/versions [get]
func (h *VersionHandler) List(c *gin.Context) {
	did, err := dto.BindDocumentID(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	result, err := h.svc.List(c.Request.Context(), did, dto.BindPage(c))
	if err != nil {
		respondError(c, "failed to list content versions", err)
		return
	}
	dto.SuccessWithPage(c, dto.ToVersionListResponse(result.Items), dto.PageMetaOf(result))
}

// Compare 对比两个版本；to 省略时取最新版本
// @Summary 版本对比
// @Tags Versions
// @Produce json
// @Param did path string true "文档 ID"
// @Param from query string true "基线版本 ID"
// @Param to query string false "目标版本 ID"
// @Success 200 {object} dto.Response[dto.VersionCompareResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/documents/{did}/compare [get]
func (h *VersionHandler) Compare(c *gin.Context) {
	did, err := dto.BindDocumentID(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	cmp, err := h.svc.Compare(c.Request.Context(), did, c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, "failed to compare content versions", err)
		return
	}
	dto.Success(c, cmp)
}
