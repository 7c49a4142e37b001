package handler

import (
	"github.com/gin-gonic/gin"

	"copystudio-api/internal/application/adapter"
	"copystudio-api/internal/interfaces/http/dto"
	apperrors "copystudio-api/pkg/errors"
	"copystudio-api/pkg/metrics"
)

// AdapterHandler 后端响应归一化处理器
type AdapterHandler struct{}

// NewAdapterHandler 创建适配处理器
func NewAdapterHandler() *AdapterHandler {
	return &AdapterHandler{}
}

// Map 将请求体中的后端原始响应归一化为强类型列表；非法 JSON 视为空列表
// @Summary 归一化后端响应
// @Tags Adapters
// @Accept json
// @Produce json
// @Param kind path string true "tasks|runs|threads|brands|projects"
// @Success 200 {object} dto.Response[dto.AdapterResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/adapters/{kind} [post]
func (h *AdapterHandler) Map(c *gin.Context) {
	kind := adapter.Kind(c.Param("kind"))

	raw, err := c.GetRawData()
	if err != nil {
		dto.BindError(c, err)
		return
	}

	records, err := adapter.Map(kind, raw)
	if err != nil {
		respondError(c, "unknown adapter kind", apperrors.ErrUnknownAdapter.WithDetail(err.Error()))
		return
	}
	metrics.AdapterRecordsTotal.WithLabelValues(string(kind)).Add(float64(records.Len()))

	dto.Success(c, dto.ToAdapterResponse(records))
}
