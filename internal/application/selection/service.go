package selection

import (
	"context"
	"errors"
	"strings"

	"copystudio-api/internal/domain/entity"
	apperrors "copystudio-api/pkg/errors"
	"copystudio-api/pkg/logger"
)

// Store 会话选择状态存储
type Store interface {
	// Get 读取会话状态，不存在时 found=false
	Get(ctx context.Context, sessionID string) (sel entity.Selection, found bool, err error)
	Put(ctx context.Context, sessionID string, sel entity.Selection) error
	// Update 原子地读-改-写；不存在时以零值为初始状态
	Update(ctx context.Context, sessionID string, fn func(entity.Selection) (entity.Selection, error)) (entity.Selection, error)
}

// Service 选择状态应用服务
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get 获取会话选择
func (s *Service) Get(ctx context.Context, sessionID string) (entity.Selection, error) {
	if err := validSession(sessionID); err != nil {
		return entity.Selection{}, err
	}
	sel, found, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return entity.Selection{}, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to load selection")
	}
	if !found {
		return entity.Selection{}, apperrors.ErrSessionNotFound
	}
	return sel, nil
}

// Replace 整体替换会话选择
func (s *Service) Replace(ctx context.Context, sessionID string, sel entity.Selection) (entity.Selection, error) {
	if err := validSession(sessionID); err != nil {
		return entity.Selection{}, err
	}
	if err := s.store.Put(ctx, sessionID, sel); err != nil {
		return entity.Selection{}, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to save selection")
	}
	return sel, nil
}

// Dispatch 对会话状态应用一组动作
func (s *Service) Dispatch(ctx context.Context, sessionID string, actions ...Action) (entity.Selection, error) {
	if err := validSession(sessionID); err != nil {
		return entity.Selection{}, err
	}
	sel, err := s.store.Update(ctx, sessionID, func(cur entity.Selection) (entity.Selection, error) {
		return ReduceAll(cur, actions...)
	})
	if err != nil {
		if errors.Is(err, ErrUnknownAction) || errors.Is(err, ErrMissingID) {
			return entity.Selection{}, apperrors.ErrInvalidParam.WithDetail(err.Error())
		}
		return entity.Selection{}, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to update selection")
	}
	logger.Debug(ctx, "selection updated", "session_id", sessionID, "actions", len(actions))
	return sel, nil
}

func validSession(id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.ErrInvalidParam.WithDetail("session id is required")
	}
	return nil
}
