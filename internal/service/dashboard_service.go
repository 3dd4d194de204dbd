package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"talleres/internal/agenda"
	"talleres/internal/dto"
	"talleres/internal/repository"
)

// DashboardService 实时看板业务接口
//
// 每次请求都重新读取时段并重新展开，结果不缓存：分类只对读取时钟的那一刻成立。
type DashboardService interface {
	// Today 今日进行中与即将开始的课次
	Today(ctx context.Context) (*dto.TodayResponse, error)
	// Week 指定日期（缺省今天）所在周的全部课次，按日分组
	Week(ctx context.Context, req *dto.WeekRequest) (*dto.WeekResponse, error)
	// Snapshot 当前时刻的完整计算结果，供定时任务使用
	Snapshot(ctx context.Context) (agenda.Snapshot, error)
}

type dashboardService struct {
	repo   *repository.Repository
	engine *agenda.Engine
	clock  Clock
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, engine *agenda.Engine, clock Clock, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, engine: engine, clock: clock, logger: logger}
}

// ────────────────────── Today ──────────────────────

func (s *dashboardService) Today(ctx context.Context) (*dto.TodayResponse, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.TodayResponse{
		Now:        formatTime(snap.Now),
		Today:      snap.Now.Format(dto.DateLayout),
		WeekStart:  snap.Week.Start.Format(dto.DateLayout),
		WeekEnd:    snap.Week.End.Format(dto.DateLayout),
		InProgress: toOccurrenceResponses(snap.InProgress),
		Upcoming:   toOccurrenceResponses(snap.Upcoming),
		TodayTotal: snap.TodayTotal,
	}, nil
}

// ────────────────────── Week ──────────────────────

func (s *dashboardService) Week(ctx context.Context, req *dto.WeekRequest) (*dto.WeekResponse, error) {
	ref := s.clock()
	if req != nil && req.Date != "" {
		d, err := time.ParseInLocation(dto.DateLayout, req.Date, ref.Location())
		if err != nil {
			return nil, ErrInvalidDate
		}
		ref = d
	}

	records, names, err := loadAgenda(ctx, s.repo, s.logger)
	if err != nil {
		return nil, err
	}

	week := agenda.ComputeWeek(ref)
	occ := s.engine.Materialize(records, week, names)

	resp := &dto.WeekResponse{
		WeekStart: week.Start.Format(dto.DateLayout),
		WeekEnd:   week.End.Format(dto.DateLayout),
		Days:      make([]dto.WeekDayResponse, 0, 7),
		Total:     len(occ),
	}
	for _, date := range week.Dates() {
		resp.Days = append(resp.Days, dto.WeekDayResponse{
			Date:        date.Format(dto.DateLayout),
			Weekday:     weekdayKey(date.Weekday()),
			Occurrences: toOccurrenceResponses(agenda.Today(occ, date)),
		})
	}
	return resp, nil
}

// ────────────────────── Snapshot ──────────────────────

func (s *dashboardService) Snapshot(ctx context.Context) (agenda.Snapshot, error) {
	records, names, err := loadAgenda(ctx, s.repo, s.logger)
	if err != nil {
		return agenda.Snapshot{}, err
	}
	return s.engine.Snapshot(records, names, s.clock()), nil
}

// loadAgenda 读取启用时段与工作坊名称表，看板与导出共用
func loadAgenda(ctx context.Context, repo *repository.Repository, logger *zap.Logger) ([]agenda.ScheduleRecord, map[string]string, error) {
	schedules, err := repo.Schedule.ListActive(ctx)
	if err != nil {
		logger.Error("查询启用时段失败", zap.Error(err))
		return nil, nil, err
	}
	names, err := repo.Workshop.NameTable(ctx)
	if err != nil {
		logger.Error("查询工作坊名称失败", zap.Error(err))
		return nil, nil, err
	}
	return toScheduleRecords(schedules), names, nil
}
