package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"talleres/internal/dto"
	"talleres/internal/service"
	"talleres/pkg/response"
)

// AttendanceHandler 出勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// ListAttendance 某时段某天的出勤
// GET /api/v1/schedules/:id/attendance?class_date=YYYY-MM-DD
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	scheduleID, ok := pathID(c, "id", "时段ID不能为空")
	if !ok {
		return
	}

	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.attendanceSvc.ListByScheduleAndDate(c.Request.Context(), scheduleID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// RecordAttendance 登记出勤，同一学生同一天重复提交会覆盖
// POST /api/v1/schedules/:id/attendance
func (h *AttendanceHandler) RecordAttendance(c *gin.Context) {
	scheduleID, ok := pathID(c, "id", "时段ID不能为空")
	if !ok {
		return
	}

	var req dto.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	record, err := h.attendanceSvc.Record(c.Request.Context(), scheduleID, &req, callerID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, record)
}

func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 10006, "日期格式无效，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 14001, "时段不存在")
	case errors.Is(err, service.ErrEnrollmentNotFound):
		response.NotFound(c, 15001, "报名记录不存在")
	case errors.Is(err, service.ErrEnrollmentCancelled):
		response.Conflict(c, 15004, "报名已取消")
	case errors.Is(err, service.ErrAttendanceWrongDay):
		response.BadRequest(c, 17001, "该日期不是此时段的上课日")
	case errors.Is(err, service.ErrAttendanceFutureDate):
		response.BadRequest(c, 17002, "不能登记未来日期的出勤")
	case errors.Is(err, service.ErrEnrollmentNotInSchedule):
		response.BadRequest(c, 17003, "报名记录不属于该时段")
	default:
		respondUnexpected(c, err)
	}
}
