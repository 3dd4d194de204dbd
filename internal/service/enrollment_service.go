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

// ── 报名模块业务错误 ──

var (
	ErrEnrollmentNotFound  = errors.New("报名记录不存在")
	ErrScheduleInactive    = errors.New("时段已停用，无法报名")
	ErrScheduleFull        = errors.New("时段名额已满")
	ErrEnrollmentCancelled = errors.New("报名已取消")
)

// EnrollmentService 报名业务接口
type EnrollmentService interface {
	// Enroll 报名；时段容量优先，未设置时沿用工作坊容量，0 表示不限
	Enroll(ctx context.Context, scheduleID string, req *dto.EnrollRequest, callerID string) (*dto.EnrollmentResponse, error)
	Cancel(ctx context.Context, enrollmentID string, callerID string) (*dto.EnrollmentResponse, error)
	ListBySchedule(ctx context.Context, scheduleID string, req *dto.EnrollmentListRequest) ([]dto.EnrollmentResponse, error)
}

type enrollmentService struct {
	repo   *repository.Repository
	clock  Clock
	logger *zap.Logger
}

// NewEnrollmentService 创建 EnrollmentService 实例
func NewEnrollmentService(repo *repository.Repository, clock Clock, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{repo: repo, clock: clock, logger: logger}
}

// ────────────────────── Enroll ──────────────────────

func (s *enrollmentService) Enroll(ctx context.Context, scheduleID string, req *dto.EnrollRequest, callerID string) (*dto.EnrollmentResponse, error) {
	var created *model.Enrollment

	// 锁住时段行后再计数，避免并发报名超出名额
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Schedule.Lock(ctx, scheduleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrScheduleNotFound
			}
			return err
		}
		sched, err := tx.Schedule.GetByID(ctx, scheduleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrScheduleNotFound
			}
			return err
		}
		if !sched.IsActive || (sched.Workshop != nil && !sched.Workshop.IsActive) {
			return ErrScheduleInactive
		}

		if capacity := sched.EffectiveCapacity(); capacity > 0 {
			count, err := tx.Enrollment.CountActive(ctx, scheduleID)
			if err != nil {
				return err
			}
			if count >= int64(capacity) {
				return ErrScheduleFull
			}
		}

		created = &model.Enrollment{
			ScheduleID:   scheduleID,
			StudentName:  req.StudentName,
			StudentEmail: req.StudentEmail,
			Status:       model.EnrollmentActive,
		}
		created.CreatedBy = &callerID
		created.UpdatedBy = &callerID
		return tx.Enrollment.Create(ctx, created)
	})
	if err != nil {
		if !isBusinessError(err) {
			s.logger.Error("报名失败", zap.String("schedule_id", scheduleID), zap.Error(err))
		}
		return nil, err
	}

	return toEnrollmentResponse(created), nil
}

// ────────────────────── Cancel ──────────────────────

func (s *enrollmentService) Cancel(ctx context.Context, enrollmentID string, callerID string) (*dto.EnrollmentResponse, error) {
	enr, err := s.repo.Enrollment.GetByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		s.logger.Error("查询报名失败", zap.String("id", enrollmentID), zap.Error(err))
		return nil, err
	}
	if enr.Status == model.EnrollmentCancelled {
		return nil, ErrEnrollmentCancelled
	}

	now := s.clock()
	enr.Status = model.EnrollmentCancelled
	enr.CancelledAt = &now
	enr.UpdatedBy = &callerID

	if err := s.repo.Enrollment.Update(ctx, enr); err != nil {
		s.logger.Error("取消报名失败", zap.String("id", enrollmentID), zap.Error(err))
		return nil, err
	}
	return toEnrollmentResponse(enr), nil
}

// ────────────────────── ListBySchedule ──────────────────────

func (s *enrollmentService) ListBySchedule(ctx context.Context, scheduleID string, req *dto.EnrollmentListRequest) ([]dto.EnrollmentResponse, error) {
	if _, err := s.repo.Schedule.GetByID(ctx, scheduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("查询时段失败", zap.String("id", scheduleID), zap.Error(err))
		return nil, err
	}

	list, err := s.repo.Enrollment.ListBySchedule(ctx, scheduleID, req.IncludeCancelled)
	if err != nil {
		s.logger.Error("列出报名失败", zap.String("schedule_id", scheduleID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.EnrollmentResponse, 0, len(list))
	for i := range list {
		result = append(result, *toEnrollmentResponse(&list[i]))
	}
	return result, nil
}

// ── 内部辅助方法 ──

func toEnrollmentResponse(e *model.Enrollment) *dto.EnrollmentResponse {
	return &dto.EnrollmentResponse{
		ID:           e.EnrollmentID,
		ScheduleID:   e.ScheduleID,
		StudentName:  e.StudentName,
		StudentEmail: e.StudentEmail,
		Status:       e.Status,
		CreatedAt:    formatTime(e.CreatedAt),
		CancelledAt:  formatTimePtr(e.CancelledAt),
	}
}

// isBusinessError 业务错误不记 error 日志
func isBusinessError(err error) bool {
	for _, target := range []error{
		ErrScheduleNotFound, ErrScheduleInactive, ErrScheduleFull,
		ErrEnrollmentNotFound, ErrEnrollmentCancelled,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

