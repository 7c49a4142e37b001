package handler

import (
	"github.com/gin-gonic/gin"

	"copystudio-api/internal/application/selection"
	"copystudio-api/internal/interfaces/http/dto"
)

// SelectionHandler 看板选择状态处理器
type SelectionHandler struct {
	svc *selection.Service
}

// NewSelectionHandler 创建选择状态处理器
func NewSelectionHandler(svc *selection.Service) *SelectionHandler {
	return &SelectionHandler{svc: svc}
}

// Get 获取会话选择状态
// @Summary 获取选择状态
// @Tags Selection
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.SelectionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/selection [get]
func (h *SelectionHandler) Get(c *gin.Context) {
	sid, err := dto.BindSessionID(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	sel, err := h.svc.Get(c.Request.Context(), sid)
	if err != nil {
		respondError(c, "failed to get selection", err)
		return
	}
	dto.Success(c, &dto.SelectionResponse{SessionID: sid, Selection: sel})
}

// Put 整体替换会话选择状态
// @Summary 替换选择状态
// @Tags Selection
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.SelectionRequest true "选择状态"
// @Success 200 {object} dto.Response[dto.SelectionResponse]
// @Router /v1/sessions/{sid}/selection [put]
func (h *SelectionHandler) Put(c *gin.Context) {
	sid, err := dto.BindSessionID(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	var req dto.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}

	sel, err := h.svc.Replace(c.Request.Context(), sid, req.ToEntity())
	if err != nil {
		respondError(c, "failed to replace selection", err)
		return
	}
	dto.Success(c, &dto.SelectionResponse{SessionID: sid, Selection: sel})
}

// Dispatch 按顺序应用选择动作
// @Summary 应用选择动作
// @Tags Selection
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.SelectionActionsRequest true "动作列表"
// @Success 200 {object} dto.Response[dto.SelectionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/selection/actions [post]
func (h *SelectionHandler) Dispatch(c *gin.Context) {
	sid, err := dto.BindSessionID(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	var req dto.SelectionActionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}

	sel, err := h.svc.Dispatch(c.Request.Context(), sid, req.ToActions()...)
	if err != nil {
		respondError(c, "failed to dispatch selection actions", err)
		return
	}
	dto.Success(c, &dto.SelectionResponse{SessionID: sid, Selection: sel})
}
