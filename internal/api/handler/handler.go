package handler

import "talleres/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Workshop   *WorkshopHandler
	Teacher    *TeacherHandler
	Location   *LocationHandler
	Schedule   *ScheduleHandler
	Enrollment *EnrollmentHandler
	Attendance *AttendanceHandler
	Dashboard  *DashboardHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Workshop:   NewWorkshopHandler(svc.Workshop),
		Teacher:    NewTeacherHandler(svc.Teacher),
		Location:   NewLocationHandler(svc.Location),
		Schedule:   NewScheduleHandler(svc.Schedule),
		Enrollment: NewEnrollmentHandler(svc.Enrollment),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Dashboard:  NewDashboardHandler(svc.Dashboard),
		Export:     NewExportHandler(svc.Export),
	}
}
