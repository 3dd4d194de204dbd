package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"talleres/internal/agenda"
	"talleres/internal/dto"
	"talleres/internal/model"
	"talleres/internal/repository"
)

// ── 出勤模块业务错误 ──

var (
	ErrAttendanceWrongDay      = errors.New("该日期不是此时段的上课日")
	ErrAttendanceFutureDate    = errors.New("不能登记未来日期的出勤")
	ErrEnrollmentNotInSchedule = errors.New("报名记录不属于该时段")
)

// AttendanceService 出勤业务接口
type AttendanceService interface {
	// Record 登记（或覆盖）某次课的出勤；日期必须落在时段的上课星期上
	Record(ctx context.Context, scheduleID string, req *dto.RecordAttendanceRequest, callerID string) (*dto.AttendanceResponse, error)
	ListByScheduleAndDate(ctx context.Context, scheduleID string, req *dto.AttendanceListRequest) ([]dto.AttendanceResponse, error)
}

type attendanceService struct {
	repo   *repository.Repository
	engine *agenda.Engine
	clock  Clock
	logger *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, engine *agenda.Engine, clock Clock, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, engine: engine, clock: clock, logger: logger}
}

// ────────────────────── Record ──────────────────────

func (s *attendanceService) Record(ctx context.Context, scheduleID string, req *dto.RecordAttendanceRequest, callerID string) (*dto.AttendanceResponse, error) {
	now := s.clock()
	classDate, err := time.ParseInLocation(dto.DateLayout, req.ClassDate, now.Location())
	if err != nil {
		return nil, ErrInvalidDate
	}
	if classDate.After(agenda.DateOf(now)) {
		return nil, ErrAttendanceFutureDate
	}

	sched, err := s.repo.Schedule.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("查询时段失败", zap.String("id", scheduleID), zap.Error(err))
		return nil, err
	}
	if !s.engine.Resolver().Resolve(sched.DaySpec).Has(classDate.Weekday()) {
		return nil, ErrAttendanceWrongDay
	}

	enr, err := s.repo.Enrollment.GetByID(ctx, req.EnrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		s.logger.Error("查询报名失败", zap.String("id", req.EnrollmentID), zap.Error(err))
		return nil, err
	}
	if enr.ScheduleID != scheduleID {
		return nil, ErrEnrollmentNotInSchedule
	}
	if enr.Status != model.EnrollmentActive {
		return nil, ErrEnrollmentCancelled
	}

	record := &model.Attendance{
		EnrollmentID: enr.EnrollmentID,
		ScheduleID:   scheduleID,
		ClassDate:    classDate,
		Present:      req.Present,
		Note:         req.Note,
	}
	record.CreatedBy = &callerID
	record.UpdatedBy = &callerID

	if err := s.repo.Attendance.Upsert(ctx, record); err != nil {
		s.logger.Error("登记出勤失败",
			zap.String("schedule_id", scheduleID),
			zap.String("enrollment_id", enr.EnrollmentID),
			zap.String("class_date", req.ClassDate),
			zap.Error(err),
		)
		return nil, err
	}

	resp := toAttendanceResponse(record)
	resp.StudentName = enr.StudentName
	return &resp, nil
}

// ────────────────────── ListByScheduleAndDate ──────────────────────

func (s *attendanceService) ListByScheduleAndDate(ctx context.Context, scheduleID string, req *dto.AttendanceListRequest) ([]dto.AttendanceResponse, error) {
	classDate, err := time.ParseInLocation(dto.DateLayout, req.ClassDate, s.clock().Location())
	if err != nil {
		return nil, ErrInvalidDate
	}

	list, err := s.repo.Attendance.ListByScheduleAndDate(ctx, scheduleID, classDate)
	if err != nil {
		s.logger.Error("查询出勤失败", zap.String("schedule_id", scheduleID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.AttendanceResponse, 0, len(list))
	for i := range list {
		resp := toAttendanceResponse(&list[i])
		if list[i].Enrollment != nil {
			resp.StudentName = list[i].Enrollment.StudentName
		}
		result = append(result, resp)
	}
	return result, nil
}

func toAttendanceResponse(a *model.Attendance) dto.AttendanceResponse {
	return dto.AttendanceResponse{
		ID:           a.AttendanceID,
		EnrollmentID: a.EnrollmentID,
		ScheduleID:   a.ScheduleID,
		ClassDate:    a.ClassDate.Format(dto.DateLayout),
		Present:      a.Present,
		Note:         a.Note,
	}
}
