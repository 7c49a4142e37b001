package repository

import (
	"context"
	"errors"

	"copystudio-api/internal/domain/entity"
)

// ErrVersionConflict 同一文档的 version_no 已被并发写入占用
var ErrVersionConflict = errors.New("content version number already taken")

// ContentVersionRepository 文档内容版本仓储
type ContentVersionRepository interface {
	// CreateVersion 创建新版本（要求 version_no 单调递增）；编号冲突时返回 ErrVersionConflict
	CreateVersion(ctx context.Context, version *entity.ContentVersion) error
	GetLatestVersionNo(ctx context.Context, documentID string) (int, error)
	GetVersionByID(ctx context.Context, id string) (*entity.ContentVersion, error)
	GetLatestVersion(ctx context.Context, documentID string) (*entity.ContentVersion, error)
	ListVersions(ctx context.Context, documentID string, pagination Pagination) (*PagedResult[*entity.ContentVersion], error)
}
