package dto

import (
	"time"

	"copystudio-api/internal/application/versions"
	"copystudio-api/internal/domain/entity"
)

// CreateVersionRequest 创建内容版本请求
type CreateVersionRequest struct {
	Label     string `json:"label" binding:"max=128"`
	Content   string `json:"content" binding:"required"`
	CreatedBy string `json:"created_by" binding:"max=128"`
}

// ToInput 转换为应用层输入
func (r *CreateVersionRequest) ToInput(documentID string) versions.CreateInput {
	return versions.CreateInput{
		DocumentID: documentID,
		Label:      r.Label,
		Content:    r.Content,
		CreatedBy:  r.CreatedBy,
	}
}

// VersionResponse 内容版本响应
type VersionResponse struct {
	ID          string  `json:"id"`
	DocumentID  string  `json:"document_id"`
	VersionNo   int     `json:"version_no"`
	Label       string  `json:"label,omitempty"`
	Content     string  `json:"content,omitempty"`
	ContentHash string  `json:"content_hash"`
	CreatedBy   *string `json:"created_by,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// CreateVersionResponse 创建结果；Created=false 表示内容未变化，返回的是已有版本
type CreateVersionResponse struct {
	Version *VersionResponse `json:"version"`
	Created bool             `json:"created"`
}

// VersionListResponse 版本列表（不含正文）
type VersionListResponse struct {
	Versions []*VersionResponse `json:"versions"`
}

// VersionCompareResponse 版本对比响应
type VersionCompareResponse = versions.Comparison

// ToVersionResponse 转换为响应
func ToVersionResponse(v *entity.ContentVersion, withContent bool) *VersionResponse {
	if v == nil {
		return nil
	}
	resp := &VersionResponse{
		ID:          v.ID,
		DocumentID:  v.DocumentID,
		VersionNo:   v.VersionNo,
		Label:       v.Label,
		ContentHash: v.ContentHash,
		CreatedBy:   v.CreatedBy,
		CreatedAt:   v.CreatedAt.UTC().Format(time.RFC3339),
	}
	if withContent {
		resp.Content = v.Content
	}
	return resp
}

// ToVersionListResponse 转换为列表响应
func ToVersionListResponse(items []*entity.ContentVersion) *VersionListResponse {
	out := make([]*VersionResponse, 0, len(items))
	for _, v := range items {
		out = append(out, ToVersionResponse(v, false))
	}
	return &VersionListResponse{Versions: out}
}
