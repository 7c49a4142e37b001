package dto

import (
	"copystudio-api/internal/application/textdiff"
	"copystudio-api/internal/domain/entity"
)

// DiffRequest 文本差异请求
type DiffRequest struct {
	Baseline string `json:"baseline"`
	Current  string `json:"current"`
}

// DiffResponse 文本差异响应
type DiffResponse struct {
	Lines []entity.DiffLine  `json:"lines"`
	Stats textdiff.DiffStats `json:"stats"`
}

// PreviewRequest Markdown 预览请求
type PreviewRequest struct {
	Content string `json:"content"`
}

// PreviewResponse Markdown 预览响应
type PreviewResponse struct {
	HTML string `json:"html"`
}
