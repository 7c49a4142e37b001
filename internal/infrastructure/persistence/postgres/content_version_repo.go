// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"copystudio-api/internal/domain/entity"
	"copystudio-api/internal/domain/repository"
)

type ContentVersionRepository struct {
	client *Client
}

func NewContentVersionRepository(client *Client) *ContentVersionRepository {
	return &ContentVersionRepository{client: client}
}

func (r *ContentVersionRepository) CreateVersion(ctx context.Context, version *entity.ContentVersion) error {
	ctx, span := tracer.Start(ctx, "postgres.ContentVersionRepository.CreateVersion")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(version).Error; err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("document %s version %d: %w", version.DocumentID, version.VersionNo, repository.ErrVersionConflict)
		}
		return fmt.Errorf("failed to create content version: %w", err)
	}
	return nil
}

func (r *ContentVersionRepository) GetLatestVersionNo(ctx context.Context, documentID string) (int, error) {
	ctx, span := tracer.Start(ctx, "postgres.ContentVersionRepository.GetLatestVersionNo")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var maxNo *int
	if err := db.Model(&entity.ContentVersion{}).
		Where("document_id = ?", documentID).
		Select("MAX(version_no)").
		Scan(&maxNo).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to get latest version_no: %w", err)
	}
	if maxNo == nil {
		return 0, nil
	}
	return *maxNo, nil
}

func (r *ContentVersionRepository) GetVersionByID(ctx context.Context, id string) (*entity.ContentVersion, error) {
	ctx, span := tracer.Start(ctx, "postgres.ContentVersionRepository.GetVersionByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var v entity.ContentVersion
	if err := db.First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get content version: %w", err)
	}
	return &v, nil
}

func (r *ContentVersionRepository) GetLatestVersion(ctx context.Context, documentID string) (*entity.ContentVersion, error) {
	ctx, span := tracer.Start(ctx, "postgres.ContentVersionRepository.GetLatestVersion")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var v entity.ContentVersion
	if err := db.Where("document_id = ?", documentID).Order("version_no DESC").First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get latest content version: %w", err)
	}
	return &v, nil
}

func (r *ContentVersionRepository) ListVersions(ctx context.Context, documentID string, pagination repository.Pagination) (*repository.PagedResult[*entity.ContentVersion], error) {
	ctx, span := tracer.Start(ctx, "postgres.ContentVersionRepository.ListVersions")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.ContentVersion{}).Where("document_id = ?", documentID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count content versions: %w", err)
	}

	var versions []*entity.ContentVersion
	if err := query.Order("version_no DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&versions).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list content versions: %w", err)
	}

	return repository.NewPagedResult(versions, total, pagination), nil
}
