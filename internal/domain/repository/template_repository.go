package repository

import (
	"context"

	"copystudio-api/internal/domain/entity"
)

// TemplateRepository 模板目录仓储
type TemplateRepository interface {
	// ListAll 按 position 升序返回全部模板（即目录顺序）
	ListAll(ctx context.Context) ([]entity.Template, error)
	GetByID(ctx context.Context, id string) (*entity.Template, error)
	// Upsert 按 id 插入或覆盖
	Upsert(ctx context.Context, tpl *entity.Template) error
	Delete(ctx context.Context, id string) error
}
