package dto

import (
	"copystudio-api/internal/application/suggest"
	"copystudio-api/internal/domain/entity"
)

// TemplateResponse 模板响应
type TemplateResponse struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	Description   string                     `json:"description"`
	Tags          []string                   `json:"tags"`
	EstimatedTime string                     `json:"estimated_time"`
	Parameters    []entity.TemplateParameter `json:"parameters"`
}

// TemplateListResponse 模板列表响应
type TemplateListResponse struct {
	Templates []*TemplateResponse `json:"templates"`
}

// SuggestRequest 模板推荐请求；空文本返回兜底推荐
type SuggestRequest struct {
	Request string `json:"request"`
}

// SuggestResponse 模板推荐响应
type SuggestResponse = suggest.Result

// ToTemplateResponse 转换为响应
func ToTemplateResponse(t entity.Template) *TemplateResponse {
	tags := []string(t.Tags)
	if tags == nil {
		tags = []string{}
	}
	params := []entity.TemplateParameter(t.Parameters)
	if params == nil {
		params = []entity.TemplateParameter{}
	}
	return &TemplateResponse{
		ID:            t.ID,
		Name:          t.Name,
		Description:   t.Description,
		Tags:          tags,
		EstimatedTime: t.EstimatedTime,
		Parameters:    params,
	}
}

// ToTemplateListResponse 转换为列表响应
func ToTemplateListResponse(tpls []entity.Template) *TemplateListResponse {
	out := make([]*TemplateResponse, 0, len(tpls))
	for _, t := range tpls {
		out = append(out, ToTemplateResponse(t))
	}
	return &TemplateListResponse{Templates: out}
}
