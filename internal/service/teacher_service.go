package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"talleres/internal/dto"
	"talleres/internal/model"
	"talleres/internal/repository"
)

// ── 老师模块业务错误 ──

var (
	ErrTeacherNotFound = errors.New("老师不存在")
)

// TeacherService 授课老师业务接口
type TeacherService interface {
	Create(ctx context.Context, req *dto.CreateTeacherRequest, callerID string) (*dto.TeacherResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TeacherResponse, error)
	List(ctx context.Context, req *dto.ListRequest) ([]dto.TeacherResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTeacherRequest, callerID string) (*dto.TeacherResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type teacherService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTeacherService 创建 TeacherService 实例
func NewTeacherService(repo *repository.Repository, logger *zap.Logger) TeacherService {
	return &teacherService{repo: repo, logger: logger}
}

func (s *teacherService) Create(ctx context.Context, req *dto.CreateTeacherRequest, callerID string) (*dto.TeacherResponse, error) {
	teacher := &model.Teacher{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		IsActive: true,
	}
	teacher.CreatedBy = &callerID
	teacher.UpdatedBy = &callerID

	if err := s.repo.Teacher.Create(ctx, teacher); err != nil {
		s.logger.Error("创建老师失败", zap.Error(err))
		return nil, err
	}
	return toTeacherResponse(teacher), nil
}

func (s *teacherService) GetByID(ctx context.Context, id string) (*dto.TeacherResponse, error) {
	teacher, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTeacherResponse(teacher), nil
}

func (s *teacherService) List(ctx context.Context, req *dto.ListRequest) ([]dto.TeacherResponse, error) {
	teachers, err := s.repo.Teacher.List(ctx, req.IncludeInactive)
	if err != nil {
		s.logger.Error("列出老师失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TeacherResponse, 0, len(teachers))
	for i := range teachers {
		result = append(result, *toTeacherResponse(&teachers[i]))
	}
	return result, nil
}

func (s *teacherService) Update(ctx context.Context, id string, req *dto.UpdateTeacherRequest, callerID string) (*dto.TeacherResponse, error) {
	teacher, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		teacher.Name = *req.Name
	}
	if req.Email != nil {
		teacher.Email = *req.Email
	}
	if req.Phone != nil {
		teacher.Phone = *req.Phone
	}
	if req.IsActive != nil {
		teacher.IsActive = *req.IsActive
	}
	teacher.UpdatedBy = &callerID

	if err := s.repo.Teacher.Update(ctx, teacher); err != nil {
		s.logger.Error("更新老师失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toTeacherResponse(teacher), nil
}

func (s *teacherService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Teacher.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除老师失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *teacherService) get(ctx context.Context, id string) (*model.Teacher, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("查询老师失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return teacher, nil
}

func toTeacherResponse(t *model.Teacher) *dto.TeacherResponse {
	return &dto.TeacherResponse{
		ID:        t.TeacherID,
		Name:      t.Name,
		Email:     t.Email,
		Phone:     t.Phone,
		IsActive:  t.IsActive,
		CreatedAt: formatTime(t.CreatedAt),
		UpdatedAt: formatTime(t.UpdatedAt),
	}
}
