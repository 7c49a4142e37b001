package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"copystudio-api/internal/domain/entity"
)

type TemplateRepository struct {
	client *Client
}

func NewTemplateRepository(client *Client) *TemplateRepository {
	return &TemplateRepository{client: client}
}

func (r *TemplateRepository) ListAll(ctx context.Context) ([]entity.Template, error) {
	ctx, span := tracer.Start(ctx, "postgres.TemplateRepository.ListAll")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var tpls []entity.Template
	if err := db.Order("position ASC").Order("id ASC").Find(&tpls).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return tpls, nil
}

func (r *TemplateRepository) GetByID(ctx context.Context, id string) (*entity.Template, error) {
	ctx, span := tracer.Start(ctx, "postgres.TemplateRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var tpl entity.Template
	if err := db.First(&tpl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &tpl, nil
}

func (r *TemplateRepository) Upsert(ctx context.Context, tpl *entity.Template) error {
	ctx, span := tracer.Start(ctx, "postgres.TemplateRepository.Upsert")
	defer span.End()

	db := getDB(ctx, r.client.db)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "tags", "estimated_time", "parameters", "position", "updated_at"}),
	}).Create(tpl).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert template: %w", err)
	}
	return nil
}

func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.TemplateRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.Template{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}
