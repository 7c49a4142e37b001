// Package adapter 将后端返回的、形状不稳定的列表响应归一化为强类型记录。
//
// 所有映射函数都不会失败：缺失或类型不符的字段取默认值，非法 JSON 视为空列表。
package adapter

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"copystudio-api/internal/domain/entity"
)

// Kind 响应类型
type Kind string

const (
	KindTasks    Kind = "tasks"
	KindRuns     Kind = "runs"
	KindThreads  Kind = "threads"
	KindBrands   Kind = "brands"
	KindProjects Kind = "projects"
)

// Kinds 全部支持的类型
func Kinds() []Kind {
	return []Kind{KindTasks, KindRuns, KindThreads, KindBrands, KindProjects}
}

// ErrUnknownKind 未知响应类型
var ErrUnknownKind = errors.New("unknown adapter kind")

// Records 归一化结果（封闭集合：Tasks/Runs/Threads/Brands/Projects）
type Records interface {
	Kind() Kind
	Len() int
	sealed()
}

type (
	Tasks    []entity.Task
	Runs     []entity.Run
	Threads  []entity.Thread
	Brands   []entity.Brand
	Projects []entity.Project
)

func (Tasks) Kind() Kind    { return KindTasks }
func (r Tasks) Len() int    { return len(r) }
func (Tasks) sealed()       {}
func (Runs) Kind() Kind     { return KindRuns }
func (r Runs) Len() int     { return len(r) }
func (Runs) sealed()        {}
func (Threads) Kind() Kind  { return KindThreads }
func (r Threads) Len() int  { return len(r) }
func (Threads) sealed()     {}
func (Brands) Kind() Kind   { return KindBrands }
func (r Brands) Len() int   { return len(r) }
func (Brands) sealed()      {}
func (Projects) Kind() Kind { return KindProjects }
func (r Projects) Len() int { return len(r) }
func (Projects) sealed()    {}

// Map 按类型分发；只有未知类型会返回错误
func Map(kind Kind, raw []byte) (Records, error) {
	switch kind {
	case KindTasks:
		return Tasks(MapTasksResponse(raw)), nil
	case KindRuns:
		return Runs(MapRunsResponse(raw)), nil
	case KindThreads:
		return Threads(MapThreadsResponse(raw)), nil
	case KindBrands:
		return Brands(MapBrandsResponse(raw)), nil
	case KindProjects:
		return Projects(MapProjectsResponse(raw)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// FromValue 将已解码的任意值重新编码为 JSON；无法编码时返回 nil（即空列表）
func FromValue(v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}

// MapTasksResponse 归一化任务列表（键 items）
func MapTasksResponse(raw []byte) []entity.Task {
	return mapList(listOf(raw, "items"), func(el gjson.Result) entity.Task {
		return entity.Task{
			TaskID:     str(el, "task_id"),
			Title:      str(el, "title"),
			Status:     status(el),
			AssignedTo: str(el, "assigned_to"),
			DueDate:    str(el, "due_date"),
			Metadata:   object(el, "metadata"),
		}
	})
}

// MapRunsResponse 归一化运行列表（优先 runs，兼容旧版 items）
func MapRunsResponse(raw []byte) []entity.Run {
	return mapList(listOf(raw, "runs", "items"), func(el gjson.Result) entity.Run {
		return entity.Run{
			RunID:      str(el, "run_id"),
			ThreadID:   str(el, "thread_id"),
			Status:     status(el),
			CreatedAt:  str(el, "created_at"),
			FinishedAt: str(el, "finished_at"),
			Output:     object(el, "output"),
		}
	})
}

// MapThreadsResponse 归一化线程列表
func MapThreadsResponse(raw []byte) []entity.Thread {
	return mapList(listOf(raw, "items"), func(el gjson.Result) entity.Thread {
		return entity.Thread{
			ThreadID:  str(el, "thread_id"),
			Title:     str(el, "title"),
			Status:    status(el),
			ProjectID: str(el, "project_id"),
		}
	})
}

// MapBrandsResponse 归一化品牌列表
func MapBrandsResponse(raw []byte) []entity.Brand {
	return mapList(listOf(raw, "items"), func(el gjson.Result) entity.Brand {
		return entity.Brand{
			BrandID:  str(el, "brand_id"),
			Name:     str(el, "name"),
			Metadata: object(el, "metadata"),
		}
	})
}

// MapProjectsResponse 归一化项目列表
func MapProjectsResponse(raw []byte) []entity.Project {
	return mapList(listOf(raw, "items"), func(el gjson.Result) entity.Project {
		return entity.Project{
			ProjectID: str(el, "project_id"),
			BrandID:   str(el, "brand_id"),
			Name:      str(el, "name"),
			Status:    status(el),
		}
	})
}

// listOf 返回第一个为数组的键对应的元素
func listOf(raw []byte, keys ...string) []gjson.Result {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return nil
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil
	}
	for _, key := range keys {
		if v := root.Get(key); v.IsArray() {
			return v.Array()
		}
	}
	return nil
}

func mapList[T any](elems []gjson.Result, fn func(gjson.Result) T) []T {
	out := make([]T, 0, len(elems))
	for _, el := range elems {
		if !el.IsObject() {
			el = gjson.Result{}
		}
		out = append(out, fn(el))
	}
	return out
}

func str(el gjson.Result, key string) string {
	if v := el.Get(key); v.Type == gjson.String {
		return v.Str
	}
	return ""
}

func status(el gjson.Result) entity.RecordStatus {
	if s := str(el, "status"); s != "" {
		return entity.RecordStatus(s)
	}
	return entity.StatusPending
}

func object(el gjson.Result, key string) map[string]any {
	if v := el.Get(key); v.IsObject() {
		if m, ok := v.Value().(map[string]any); ok {
			return m
		}
	}
	return map[string]any{}
}
