package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"talleres/internal/dto"
	"talleres/internal/service"
	pkgerrors "talleres/pkg/errors"
	"talleres/pkg/response"
)

// ScheduleHandler 时段模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// ListSchedules 获取时段列表，可按工作坊、老师、地点、星期过滤
// GET /api/v1/schedules
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	var req dto.ScheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	schedules, err := h.scheduleSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKList(c, schedules, len(schedules))
}

// GetSchedule 获取时段详情
// GET /api/v1/schedules/:id
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	id, ok := pathID(c, "id", "时段ID不能为空")
	if !ok {
		return
	}

	schedule, err := h.scheduleSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, schedule)
}

// CreateSchedule 创建时段
// POST /api/v1/schedules
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	schedule, err := h.scheduleSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.Created(c, schedule)
}

// UpdateSchedule 更新时段
// PUT /api/v1/schedules/:id
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	id, ok := pathID(c, "id", "时段ID不能为空")
	if !ok {
		return
	}

	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	schedule, err := h.scheduleSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, schedule)
}

// DeleteSchedule 删除时段
// DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	id, ok := pathID(c, "id", "时段ID不能为空")
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.scheduleSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

// AuditSchedules 列出无法展开或无法实时分类的启用时段
// GET /api/v1/schedules/audit
func (h *ScheduleHandler) AuditSchedules(c *gin.Context) {
	issues, err := h.scheduleSvc.Audit(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKList(c, issues, len(issues))
}

// handleScheduleError 统一处理时段模块业务错误
func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 14001, "时段不存在")
	case errors.Is(err, service.ErrScheduleDaySpec):
		response.ErrorWithDetails(c, http.StatusBadRequest, 14002, "无法从星期描述中识别任何一天", err.Error())
	case errors.Is(err, service.ErrScheduleTime):
		response.ErrorWithDetails(c, http.StatusBadRequest, 14003, "时间格式无效", err.Error())
	case errors.Is(err, service.ErrScheduleTimeRange):
		response.ErrorWithDetails(c, http.StatusBadRequest, 14004, "结束时间必须晚于开始时间", err.Error())
	case errors.Is(err, service.ErrWorkshopNotFound):
		response.NotFound(c, 12001, "工作坊不存在")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 13001, "老师不存在")
	case errors.Is(err, service.ErrLocationNotFound):
		response.NotFound(c, 16001, "地点不存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10009, "数据已被其他操作修改，请刷新后重试")
	default:
		respondUnexpected(c, err)
	}
}
