package dto

import (
	"strings"

	"github.com/gin-gonic/gin"

	"copystudio-api/internal/domain/repository"
	apperrors "copystudio-api/pkg/errors"
)

// maxPathIDLength 会话/文档 ID 的长度上限
const maxPathIDLength = 128

// PageRequest 分页查询参数；缺省或非法值由 Pagination 规范化
type PageRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Pagination 转为仓储分页参数
func (r PageRequest) Pagination() repository.Pagination {
	return repository.NewPagination(r.Page, r.PageSize)
}

// BindPage 绑定分页查询参数；无法解析的值视为缺省
func BindPage(c *gin.Context) repository.Pagination {
	var req PageRequest
	_ = c.ShouldBindQuery(&req)
	return req.Pagination()
}

// PageMetaOf 由分页结果构建响应元数据
func PageMetaOf[T any](r *repository.PagedResult[T]) *PageMeta {
	return &PageMeta{
		Page:       r.Page,
		PageSize:   r.PageSize,
		Total:      int(r.Total),
		TotalPages: r.TotalPages,
	}
}

// BindSessionID 读取路径参数 sid
func BindSessionID(c *gin.Context) (string, error) {
	return pathID(c, "sid")
}

// BindDocumentID 读取路径参数 did
func BindDocumentID(c *gin.Context) (string, error) {
	return pathID(c, "did")
}

func pathID(c *gin.Context, name string) (string, error) {
	id := strings.TrimSpace(c.Param(name))
	if id == "" || len(id) > maxPathIDLength {
		return "", apperrors.ErrInvalidParam.WithDetail(name + " must be 1-128 characters")
	}
	return id, nil
}
