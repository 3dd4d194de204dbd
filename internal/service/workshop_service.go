package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"talleres/internal/dto"
	"talleres/internal/model"
	"talleres/internal/repository"
	pkgerrors "talleres/pkg/errors"
)

// ── 工作坊模块业务错误 ──

var (
	ErrWorkshopNotFound     = errors.New("工作坊不存在")
	ErrWorkshopHasSchedules = errors.New("工作坊下仍有启用的时段，无法删除")
)

// WorkshopService 工作坊业务接口
type WorkshopService interface {
	Create(ctx context.Context, req *dto.CreateWorkshopRequest, callerID string) (*dto.WorkshopResponse, error)
	GetByID(ctx context.Context, id string) (*dto.WorkshopResponse, error)
	List(ctx context.Context, req *dto.ListRequest) ([]dto.WorkshopResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateWorkshopRequest, callerID string) (*dto.WorkshopResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type workshopService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewWorkshopService 创建 WorkshopService 实例
func NewWorkshopService(repo *repository.Repository, logger *zap.Logger) WorkshopService {
	return &workshopService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *workshopService) Create(ctx context.Context, req *dto.CreateWorkshopRequest, callerID string) (*dto.WorkshopResponse, error) {
	w := &model.Workshop{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		IsActive:    true,
	}
	w.Version = 1
	w.CreatedBy = &callerID
	w.UpdatedBy = &callerID

	if err := s.repo.Workshop.Create(ctx, w); err != nil {
		s.logger.Error("创建工作坊失败", zap.Error(err))
		return nil, err
	}

	return toWorkshopResponse(w), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *workshopService) GetByID(ctx context.Context, id string) (*dto.WorkshopResponse, error) {
	w, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toWorkshopResponse(w), nil
}

// ────────────────────── List ──────────────────────

func (s *workshopService) List(ctx context.Context, req *dto.ListRequest) ([]dto.WorkshopResponse, error) {
	workshops, err := s.repo.Workshop.List(ctx, req.IncludeInactive)
	if err != nil {
		s.logger.Error("列出工作坊失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.WorkshopResponse, 0, len(workshops))
	for i := range workshops {
		result = append(result, *toWorkshopResponse(&workshops[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *workshopService) Update(ctx context.Context, id string, req *dto.UpdateWorkshopRequest, callerID string) (*dto.WorkshopResponse, error) {
	w, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.Version != req.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	if req.Name != nil {
		w.Name = *req.Name
	}
	if req.Description != nil {
		w.Description = *req.Description
	}
	if req.Capacity != nil {
		w.Capacity = *req.Capacity
	}
	if req.IsActive != nil {
		w.IsActive = *req.IsActive
	}
	w.UpdatedBy = &callerID

	if err := s.repo.Workshop.Update(ctx, w); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		s.logger.Error("更新工作坊失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toWorkshopResponse(w), nil
}

// ────────────────────── Delete ──────────────────────

func (s *workshopService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	schedules, err := s.repo.Schedule.List(ctx, repository.ScheduleFilter{WorkshopID: id})
	if err != nil {
		s.logger.Error("查询工作坊时段失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if len(schedules) > 0 {
		return ErrWorkshopHasSchedules
	}

	if err := s.repo.Workshop.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除工作坊失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *workshopService) get(ctx context.Context, id string) (*model.Workshop, error) {
	w, err := s.repo.Workshop.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkshopNotFound
		}
		s.logger.Error("查询工作坊失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return w, nil
}

func toWorkshopResponse(w *model.Workshop) *dto.WorkshopResponse {
	return &dto.WorkshopResponse{
		ID:          w.WorkshopID,
		Name:        w.Name,
		Description: w.Description,
		Capacity:    w.Capacity,
		IsActive:    w.IsActive,
		Version:     w.Version,
		CreatedAt:   formatTime(w.CreatedAt),
		UpdatedAt:   formatTime(w.UpdatedAt),
	}
}
