package service

import (
	"go.uber.org/zap"

	"talleres/config"
	"talleres/internal/agenda"
	"talleres/internal/repository"
	"talleres/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Workshop   WorkshopService
	Teacher    TeacherService
	Location   LocationService
	Schedule   ScheduleService
	Enrollment EnrollmentService
	Attendance AttendanceService
	Dashboard  DashboardService
	Export     ExportService
}

// NewService 创建 Service 聚合
//
// 看板、出勤、导出共用同一个 agenda.Engine 与时钟，保证三者对"今天"和"本周"的判断一致。
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	revoker TokenRevoker,
	clock Clock,
	logger *zap.Logger,
) *Service {
	engine := NewEngine(cfg)

	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, revoker, logger),
		Workshop:   NewWorkshopService(repo, logger),
		Teacher:    NewTeacherService(repo, logger),
		Location:   NewLocationService(repo, logger),
		Schedule:   NewScheduleService(repo, engine, logger),
		Enrollment: NewEnrollmentService(repo, clock, logger),
		Attendance: NewAttendanceService(repo, engine, clock, logger),
		Dashboard:  NewDashboardService(repo, engine, clock, logger),
		Export:     NewExportService(repo, engine, clock, logger),
	}
}

// NewEngine 按看板配置创建课次引擎
func NewEngine(cfg *config.Config) *agenda.Engine {
	return agenda.NewEngine(
		agenda.WithUpcomingLimit(cfg.Dashboard.UpcomingLimit),
		agenda.WithPlaceholder(cfg.Dashboard.UnnamedWorkshop),
	)
}
