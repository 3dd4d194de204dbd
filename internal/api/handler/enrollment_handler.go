package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"talleres/internal/dto"
	"talleres/internal/service"
	"talleres/pkg/response"
)

// EnrollmentHandler 报名模块 HTTP 处理器
type EnrollmentHandler struct {
	enrollmentSvc service.EnrollmentService
}

// NewEnrollmentHandler 创建 EnrollmentHandler
func NewEnrollmentHandler(enrollmentSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentSvc: enrollmentSvc}
}

// ListEnrollments 某时段的报名名单
// GET /api/v1/schedules/:id/enrollments
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	scheduleID, ok := pathID(c, "id", "时段ID不能为空")
	if !ok {
		return
	}

	var req dto.EnrollmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.enrollmentSvc.ListBySchedule(c.Request.Context(), scheduleID, &req)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// Enroll 报名某时段
// POST /api/v1/schedules/:id/enrollments
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	scheduleID, ok := pathID(c, "id", "时段ID不能为空")
	if !ok {
		return
	}

	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentSvc.Enroll(c.Request.Context(), scheduleID, &req, callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}

	response.Created(c, enrollment)
}

// CancelEnrollment 取消报名
// POST /api/v1/enrollments/:id/cancel
func (h *EnrollmentHandler) CancelEnrollment(c *gin.Context) {
	id, ok := pathID(c, "id", "报名ID不能为空")
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentSvc.Cancel(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}

	response.OK(c, enrollment)
}

func (h *EnrollmentHandler) handleEnrollmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 14001, "时段不存在")
	case errors.Is(err, service.ErrEnrollmentNotFound):
		response.NotFound(c, 15001, "报名记录不存在")
	case errors.Is(err, service.ErrScheduleFull):
		response.Conflict(c, 15002, "时段名额已满")
	case errors.Is(err, service.ErrScheduleInactive):
		response.Conflict(c, 15003, "时段已停用，无法报名")
	case errors.Is(err, service.ErrEnrollmentCancelled):
		response.Conflict(c, 15004, "报名已取消")
	default:
		respondUnexpected(c, err)
	}
}
