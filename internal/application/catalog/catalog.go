// Package catalog 维护运行期只读的模板目录快照，支持内置、YAML 文件和 PostgreSQL 三种来源。
package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"copystudio-api/internal/domain/entity"
	"copystudio-api/pkg/metrics"
)

// Source 模板来源
type Source interface {
	Load(ctx context.Context) ([]entity.Template, error)
}

// SourceFunc 函数适配器
type SourceFunc func(ctx context.Context) ([]entity.Template, error)

func (f SourceFunc) Load(ctx context.Context) ([]entity.Template, error) {
	return f(ctx)
}

// BuiltinSource 内置目录
var BuiltinSource Source = SourceFunc(func(context.Context) ([]entity.Template, error) {
	return Builtin(), nil
})

// Catalog 模板目录。快照发布后不再修改，读取方拿到的是副本。
type Catalog struct {
	mu        sync.RWMutex
	templates []entity.Template
	byID      map[string]int
}

// New 以初始模板创建目录
func New(initial []entity.Template) *Catalog {
	c := &Catalog{}
	c.publish(initial)
	return c
}

// Load 从来源加载并创建目录
func Load(ctx context.Context, src Source) (*Catalog, error) {
	c := New(nil)
	if err := c.Reload(ctx, src); err != nil {
		return nil, err
	}
	return c, nil
}

// Templates 返回当前快照（目录顺序）
func (c *Catalog) Templates() []entity.Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.templates)
}

// Get 按 ID 查找模板
func (c *Catalog) Get(id string) (entity.Template, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx, ok := c.byID[id]
	if !ok {
		return entity.Template{}, false
	}
	return c.templates[idx], true
}

// Len 模板数量
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}

// Reload 从来源重新加载；失败时保留旧快照
func (c *Catalog) Reload(ctx context.Context, src Source) error {
	tpls, err := src.Load(ctx)
	if err == nil {
		err = Validate(tpls)
	}
	if err != nil {
		metrics.CatalogReloadTotal.WithLabelValues("error").Inc()
		return err
	}
	c.publish(tpls)
	metrics.CatalogReloadTotal.WithLabelValues("success").Inc()
	return nil
}

func (c *Catalog) publish(tpls []entity.Template) {
	snapshot := slices.Clone(tpls)
	if snapshot == nil {
		snapshot = []entity.Template{}
	}
	byID := make(map[string]int, len(snapshot))
	for i := range snapshot {
		snapshot[i].Position = i
		if _, ok := byID[snapshot[i].ID]; !ok {
			byID[snapshot[i].ID] = i
		}
	}

	c.mu.Lock()
	c.templates = snapshot
	c.byID = byID
	c.mu.Unlock()

	metrics.CatalogTemplates.Set(float64(len(snapshot)))
}

// Validate 校验模板列表：ID 与名称非空，ID 唯一
func Validate(tpls []entity.Template) error {
	seen := make(map[string]struct{}, len(tpls))
	for i, tpl := range tpls {
		id := strings.TrimSpace(tpl.ID)
		if id == "" {
			return fmt.Errorf("template #%d: id is required", i)
		}
		if strings.TrimSpace(tpl.Name) == "" {
			return fmt.Errorf("template %q: name is required", id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("template %q: duplicate id", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
