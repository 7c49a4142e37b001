// Package versions 管理文档内容版本，并基于版本做差异与评分对比。
package versions

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"copystudio-api/internal/application/quality"
	"copystudio-api/internal/application/textdiff"
	"copystudio-api/internal/domain/entity"
	"copystudio-api/internal/domain/repository"
	apperrors "copystudio-api/pkg/errors"
	"copystudio-api/pkg/logger"
)

// 并发写入同一文档时编号冲突的最大尝试次数
const maxCreateAttempts = 3

// Service 内容版本服务
type Service struct {
	repo repository.ContentVersionRepository
	tx   repository.Transactor
}

func NewService(repo repository.ContentVersionRepository, tx repository.Transactor) *Service {
	return &Service{repo: repo, tx: tx}
}

// CreateInput 创建版本参数
type CreateInput struct {
	DocumentID string
	Label      string
	Content    string
	CreatedBy  string
}

// Create 保存新版本。内容与最新版本一致时直接返回最新版本。
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.ContentVersion, bool, error) {
	docID := strings.TrimSpace(in.DocumentID)
	if docID == "" {
		return nil, false, apperrors.ErrInvalidParam.WithDetail("document id is required")
	}

	v := entity.NewContentVersion(docID, strings.TrimSpace(in.Label), in.Content)
	if by := strings.TrimSpace(in.CreatedBy); by != "" {
		v.CreatedBy = &by
	}

	var created bool
	var err error
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		v, created, err = s.createOnce(ctx, v)
		if !errors.Is(err, repository.ErrVersionConflict) || attempt == maxCreateAttempts {
			break
		}
		logger.Warn(ctx, "content version number taken, retrying",
			"document_id", docID, "version_no", v.VersionNo, "attempt", attempt)
	}
	switch {
	case errors.Is(err, repository.ErrVersionConflict):
		return nil, false, apperrors.ErrVersionConflict.WithDetail(docID).WithError(err)
	case err != nil:
		return nil, false, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create content version")
	}

	if created {
		logger.Info(ctx, "content version created",
			"document_id", docID,
			"version_no", v.VersionNo,
			"content_hash", v.ContentHash,
		)
	}
	return v, created, nil
}

// createOnce 在一个事务内读取最新版本并写入下一个编号
func (s *Service) createOnce(ctx context.Context, v *entity.ContentVersion) (*entity.ContentVersion, bool, error) {
	out, created := v, false
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		latest, err := s.repo.GetLatestVersion(ctx, v.DocumentID)
		if err != nil {
			return err
		}
		if latest != nil && latest.ContentHash == v.ContentHash {
			out = latest
			return nil
		}
		v.VersionNo = 1
		if latest != nil {
			v.VersionNo = latest.VersionNo + 1
		}
		if err := s.repo.CreateVersion(ctx, v); err != nil {
			return err
		}
		created = true
		return nil
	})
	return out, created, err
}

// Get 获取版本，版本不属于该文档时视为不存在
func (s *Service) Get(ctx context.Context, documentID, versionID string) (*entity.ContentVersion, error) {
	v, err := s.repo.GetVersionByID(ctx, versionID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to get content version")
	}
	if v == nil || v.DocumentID != documentID {
		return nil, apperrors.ErrVersionNotFound.WithDetail(versionID)
	}
	return v, nil
}

// Latest 获取文档最新版本
func (s *Service) Latest(ctx context.Context, documentID string) (*entity.ContentVersion, error) {
	v, err := s.repo.GetLatestVersion(ctx, documentID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to get latest content version")
	}
	if v == nil {
		return nil, apperrors.ErrDocumentNotFound.WithDetail(documentID)
	}
	return v, nil
}

// List 分页列出版本（version_no 倒序）
func (s *Service) List(ctx context.Context, documentID string, pagination repository.Pagination) (*repository.PagedResult[*entity.ContentVersion], error) {
	res, err := s.repo.ListVersions(ctx, documentID, pagination)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list content versions")
	}
	return res, nil
}

// Comparison 两个版本的对比结果
type Comparison struct {
	From       *entity.ContentVersion  `json:"from"`
	To         *entity.ContentVersion  `json:"to"`
	Lines      []entity.DiffLine       `json:"lines"`
	Stats      textdiff.DiffStats      `json:"stats"`
	FromScore  entity.QualityScore     `json:"from_score"`
	ToScore    entity.QualityScore     `json:"to_score"`
	Comparison quality.ScoreComparison `json:"comparison"`
}

// Compare 比较两个版本；toID 为空时取最新版本
func (s *Service) Compare(ctx context.Context, documentID, fromID, toID string) (*Comparison, error) {
	if strings.TrimSpace(fromID) == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("from version id is required")
	}

	var from, to *entity.ContentVersion
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.Get(gctx, documentID, fromID)
		from = v
		return err
	})
	g.Go(func() error {
		var v *entity.ContentVersion
		var err error
		if strings.TrimSpace(toID) == "" {
			v, err = s.Latest(gctx, documentID)
		} else {
			v, err = s.Get(gctx, documentID, toID)
		}
		to = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return CompareContent(from, to), nil
}

// CompareContent 对两个版本计算差异与评分
func CompareContent(from, to *entity.ContentVersion) *Comparison {
	lines := textdiff.Lines(from.Content, to.Content)
	fromScore := quality.Score(from.Content)
	toScore := quality.Score(to.Content)
	return &Comparison{
		From:       from,
		To:         to,
		Lines:      lines,
		Stats:      textdiff.Summarize(lines),
		FromScore:  fromScore,
		ToScore:    toScore,
		Comparison: quality.CompareScores(fromScore, toScore),
	}
}
