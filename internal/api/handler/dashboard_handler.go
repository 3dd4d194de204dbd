package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"talleres/internal/dto"
	"talleres/internal/service"
	"talleres/pkg/response"
)

// DashboardHandler 首页课次看板
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Today 今日进行中与即将开始的课次
// GET /api/v1/dashboard/today
func (h *DashboardHandler) Today(c *gin.Context) {
	result, err := h.dashboardSvc.Today(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Week 指定日期所在周的全部课次
// GET /api/v1/dashboard/week?date=YYYY-MM-DD
func (h *DashboardHandler) Week(c *gin.Context) {
	var req dto.WeekRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.dashboardSvc.Week(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			response.BadRequest(c, 10006, "日期格式无效，应为 YYYY-MM-DD")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
