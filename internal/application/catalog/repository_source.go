package catalog

import (
	"context"

	"copystudio-api/internal/domain/entity"
	"copystudio-api/internal/domain/repository"
)

// RepositorySource 从模板仓储读取目录
type RepositorySource struct {
	Repo repository.TemplateRepository
}

func (s RepositorySource) Load(ctx context.Context) ([]entity.Template, error) {
	return s.Repo.ListAll(ctx)
}

// Seed 将模板按目录顺序写入仓储
func Seed(ctx context.Context, repo repository.TemplateRepository, tpls []entity.Template) error {
	if err := Validate(tpls); err != nil {
		return err
	}
	for i := range tpls {
		tpl := tpls[i]
		tpl.Position = i
		if err := repo.Upsert(ctx, &tpl); err != nil {
			return err
		}
	}
	return nil
}
