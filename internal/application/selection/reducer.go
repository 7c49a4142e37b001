// Package selection 管理看板的当前选择（品牌/项目/线程/运行）。
// 状态只通过纯函数 Reduce 演进，持久化按会话隔离。
package selection

import (
	"errors"
	"fmt"
	"strings"

	"copystudio-api/internal/domain/entity"
)

// ActionType 动作类型
type ActionType string

const (
	ActionSelectBrand   ActionType = "select_brand"
	ActionSelectProject ActionType = "select_project"
	ActionSelectThread  ActionType = "select_thread"
	ActionSelectRun     ActionType = "select_run"
	ActionReset         ActionType = "reset"
)

// Action 选择动作
type Action struct {
	Type ActionType `json:"type" binding:"required"`
	ID   string     `json:"id"`
}

var (
	ErrUnknownAction = errors.New("unknown selection action")
	ErrMissingID     = errors.New("selection action requires an id")
)

// Reduce 计算动作作用后的新状态。选择上级会清空其下级；重复选择同一项保持原状态。
func Reduce(state entity.Selection, action Action) (entity.Selection, error) {
	id := strings.TrimSpace(action.ID)
	if action.Type != ActionReset && id == "" {
		return state, fmt.Errorf("%w: %s", ErrMissingID, action.Type)
	}

	switch action.Type {
	case ActionReset:
		return entity.Selection{}, nil
	case ActionSelectBrand:
		if state.BrandID == id {
			return state, nil
		}
		return entity.Selection{BrandID: id}, nil
	case ActionSelectProject:
		if state.ProjectID == id {
			return state, nil
		}
		return entity.Selection{BrandID: state.BrandID, ProjectID: id}, nil
	case ActionSelectThread:
		if state.ThreadID == id {
			return state, nil
		}
		return entity.Selection{BrandID: state.BrandID, ProjectID: state.ProjectID, ThreadID: id}, nil
	case ActionSelectRun:
		next := state
		next.RunID = id
		return next, nil
	default:
		return state, fmt.Errorf("%w: %q", ErrUnknownAction, action.Type)
	}
}

// ReduceAll 依次应用多个动作，遇到错误时停止并返回已演进的状态
func ReduceAll(state entity.Selection, actions ...Action) (entity.Selection, error) {
	for _, a := range actions {
		next, err := Reduce(state, a)
		if err != nil {
			return state, err
		}
		state = next
	}
	return state, nil
}
