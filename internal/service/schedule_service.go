package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"talleres/internal/agenda"
	"talleres/internal/dto"
	"talleres/internal/model"
	"talleres/internal/repository"
	pkgerrors "talleres/pkg/errors"
)

// ── 时段模块业务错误 ──

var (
	ErrScheduleNotFound  = errors.New("时段不存在")
	ErrScheduleDaySpec   = errors.New("无法从星期描述中识别任何一天")
	ErrScheduleTime      = errors.New("时间格式无效，应为 HH:MM 或 HH:MM:SS")
	ErrScheduleTimeRange = errors.New("结束时间必须晚于开始时间")
)

// ScheduleService 工作坊时段业务接口
type ScheduleService interface {
	Create(ctx context.Context, req *dto.CreateScheduleRequest, callerID string) (*dto.ScheduleResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ScheduleResponse, error)
	List(ctx context.Context, req *dto.ScheduleListRequest) ([]dto.ScheduleResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateScheduleRequest, callerID string) (*dto.ScheduleResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	// Audit 检查所有启用时段中无法展开或无法实时分类的数据
	Audit(ctx context.Context) ([]dto.ScheduleIssueResponse, error)
}

type scheduleService struct {
	repo   *repository.Repository
	engine *agenda.Engine
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, engine *agenda.Engine, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, engine: engine, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *scheduleService) Create(ctx context.Context, req *dto.CreateScheduleRequest, callerID string) (*dto.ScheduleResponse, error) {
	sched := &model.WorkshopSchedule{
		WorkshopID: req.WorkshopID,
		TeacherID:  req.TeacherID,
		LocationID: req.LocationID,
		DaySpec:    req.DaySpec,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Capacity:   req.Capacity,
		IsActive:   true,
	}
	if err := s.validate(sched); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, sched); err != nil {
		return nil, err
	}

	sched.Version = 1
	sched.CreatedBy = &callerID
	sched.UpdatedBy = &callerID

	if err := s.repo.Schedule.Create(ctx, sched); err != nil {
		s.logger.Error("创建时段失败", zap.String("workshop_id", req.WorkshopID), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, sched.ScheduleID)
}

// ────────────────────── GetByID ──────────────────────

func (s *scheduleService) GetByID(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	sched, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toScheduleResponse(sched), nil
}

// ────────────────────── List ──────────────────────

func (s *scheduleService) List(ctx context.Context, req *dto.ScheduleListRequest) ([]dto.ScheduleResponse, error) {
	schedules, err := s.repo.Schedule.List(ctx, repository.ScheduleFilter{
		WorkshopID:      req.WorkshopID,
		TeacherID:       req.TeacherID,
		LocationID:      req.LocationID,
		IncludeInactive: req.IncludeInactive,
	})
	if err != nil {
		s.logger.Error("列出时段失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		// day_spec 是自由文本，星期筛选只能在解析后进行
		if req.Weekday != nil && !s.engine.Resolver().Resolve(schedules[i].DaySpec).Has(time.Weekday(*req.Weekday)) {
			continue
		}
		result = append(result, *s.toScheduleResponse(&schedules[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *scheduleService) Update(ctx context.Context, id string, req *dto.UpdateScheduleRequest, callerID string) (*dto.ScheduleResponse, error) {
	sched, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sched.Version != req.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	if req.TeacherID != nil {
		sched.TeacherID = emptyToNil(req.TeacherID)
	}
	if req.LocationID != nil {
		sched.LocationID = emptyToNil(req.LocationID)
	}
	if req.DaySpec != nil {
		sched.DaySpec = *req.DaySpec
	}
	if req.StartTime != nil {
		sched.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		sched.EndTime = *req.EndTime
	}
	if req.Capacity != nil {
		sched.Capacity = req.Capacity
	}
	if req.IsActive != nil {
		sched.IsActive = *req.IsActive
	}

	if err := s.validate(sched); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, sched); err != nil {
		return nil, err
	}
	sched.UpdatedBy = &callerID

	if err := s.repo.Schedule.Update(ctx, sched); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		s.logger.Error("更新时段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *scheduleService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Schedule.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除时段失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Audit ──────────────────────

func (s *scheduleService) Audit(ctx context.Context) ([]dto.ScheduleIssueResponse, error) {
	schedules, err := s.repo.Schedule.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询启用时段失败", zap.Error(err))
		return nil, err
	}

	issues := s.engine.Audit(toScheduleRecords(schedules))
	result := make([]dto.ScheduleIssueResponse, 0, len(issues))
	for _, is := range issues {
		result = append(result, dto.ScheduleIssueResponse{
			ScheduleID: is.ScheduleID,
			Kind:       string(is.Kind),
			Value:      is.Value,
		})
	}
	return result, nil
}

// ── 内部辅助方法 ──

func (s *scheduleService) get(ctx context.Context, id string) (*model.WorkshopSchedule, error) {
	sched, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("查询时段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return sched, nil
}

// validate 写入前要求 day_spec 至少识别出一天且时间可解析。
// 历史数据不受此约束，展开时仍按宽松规则处理。
func (s *scheduleService) validate(sched *model.WorkshopSchedule) error {
	issues := s.engine.AuditRecord(toScheduleRecord(sched))
	if len(issues) == 0 {
		return nil
	}

	first := issues[0]
	switch first.Kind {
	case agenda.IssueDaySpec:
		return fmt.Errorf("%w: %q", ErrScheduleDaySpec, first.Value)
	case agenda.IssueRange:
		return fmt.Errorf("%w: %s", ErrScheduleTimeRange, first.Value)
	default:
		return fmt.Errorf("%w: %q", ErrScheduleTime, first.Value)
	}
}

func (s *scheduleService) checkReferences(ctx context.Context, sched *model.WorkshopSchedule) error {
	if _, err := s.repo.Workshop.GetByID(ctx, sched.WorkshopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkshopNotFound
		}
		return err
	}
	if sched.TeacherID != nil {
		if _, err := s.repo.Teacher.GetByID(ctx, *sched.TeacherID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeacherNotFound
			}
			return err
		}
	}
	if sched.LocationID != nil {
		if _, err := s.repo.Location.GetByID(ctx, *sched.LocationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLocationNotFound
			}
			return err
		}
	}
	return nil
}

func (s *scheduleService) toScheduleResponse(sched *model.WorkshopSchedule) *dto.ScheduleResponse {
	resp := &dto.ScheduleResponse{
		ID:         sched.ScheduleID,
		WorkshopID: sched.WorkshopID,
		TeacherID:  sched.TeacherID,
		LocationID: sched.LocationID,
		DaySpec:    sched.DaySpec,
		Weekdays:   weekdayKeys(s.engine.Resolver().Resolve(sched.DaySpec)),
		StartTime:  sched.StartTime,
		EndTime:    sched.EndTime,
		Capacity:   sched.Capacity,
		IsActive:   sched.IsActive,
		Version:    sched.Version,
		CreatedAt:  formatTime(sched.CreatedAt),
		UpdatedAt:  formatTime(sched.UpdatedAt),
	}
	if sched.Workshop != nil {
		resp.WorkshopName = sched.Workshop.Name
	}
	if sched.Teacher != nil {
		resp.TeacherName = sched.Teacher.Name
	}
	if sched.Location != nil {
		resp.LocationName = sched.Location.Label()
	}
	return resp
}

// emptyToNil 更新请求中传空字符串表示解除关联
func emptyToNil(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return p
}
