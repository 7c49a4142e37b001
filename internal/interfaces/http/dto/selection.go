package dto

import (
	"copystudio-api/internal/application/selection"
	"copystudio-api/internal/domain/entity"
)

// SelectionRequest 整体替换选择状态
type SelectionRequest struct {
	BrandID   string `json:"brand_id"`
	ProjectID string `json:"project_id"`
	ThreadID  string `json:"thread_id"`
	RunID     string `json:"run_id"`
}

// ToEntity 转换为实体
func (r *SelectionRequest) ToEntity() entity.Selection {
	return entity.Selection{
		BrandID:   r.BrandID,
		ProjectID: r.ProjectID,
		ThreadID:  r.ThreadID,
		RunID:     r.RunID,
	}
}

// SelectionActionRequest 单个选择动作
type SelectionActionRequest struct {
	Type string `json:"type" binding:"required"`
	ID   string `json:"id"`
}

// SelectionActionsRequest 一组按顺序应用的动作
type SelectionActionsRequest struct {
	Actions []SelectionActionRequest `json:"actions" binding:"required,min=1,dive"`
}

// ToActions 转换为 reducer 动作
func (r *SelectionActionsRequest) ToActions() []selection.Action {
	out := make([]selection.Action, 0, len(r.Actions))
	for _, a := range r.Actions {
		out = append(out, selection.Action{Type: selection.ActionType(a.Type), ID: a.ID})
	}
	return out
}

// SelectionResponse 选择状态响应
type SelectionResponse struct {
	SessionID string           `json:"session_id"`
	Selection entity.Selection `json:"selection"`
}
