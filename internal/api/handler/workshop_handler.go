package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"talleres/internal/dto"
	"talleres/internal/service"
	pkgerrors "talleres/pkg/errors"
	"talleres/pkg/response"
)

// WorkshopHandler 工作坊模块 HTTP 处理器
type WorkshopHandler struct {
	workshopSvc service.WorkshopService
}

// NewWorkshopHandler 创建 WorkshopHandler
func NewWorkshopHandler(workshopSvc service.WorkshopService) *WorkshopHandler {
	return &WorkshopHandler{workshopSvc: workshopSvc}
}

// ListWorkshops 获取工作坊列表
// GET /api/v1/workshops
func (h *WorkshopHandler) ListWorkshops(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	workshops, err := h.workshopSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKList(c, workshops, len(workshops))
}

// GetWorkshop 获取工作坊详情
// GET /api/v1/workshops/:id
func (h *WorkshopHandler) GetWorkshop(c *gin.Context) {
	id, ok := pathID(c, "id", "工作坊ID不能为空")
	if !ok {
		return
	}

	workshop, err := h.workshopSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleWorkshopError(c, err)
		return
	}

	response.OK(c, workshop)
}

// CreateWorkshop 创建工作坊
// POST /api/v1/workshops
func (h *WorkshopHandler) CreateWorkshop(c *gin.Context) {
	var req dto.CreateWorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	workshop, err := h.workshopSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleWorkshopError(c, err)
		return
	}

	response.Created(c, workshop)
}

// UpdateWorkshop 更新工作坊
// PUT /api/v1/workshops/:id
func (h *WorkshopHandler) UpdateWorkshop(c *gin.Context) {
	id, ok := pathID(c, "id", "工作坊ID不能为空")
	if !ok {
		return
	}

	var req dto.UpdateWorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	workshop, err := h.workshopSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleWorkshopError(c, err)
		return
	}

	response.OK(c, workshop)
}

// DeleteWorkshop 删除工作坊
// DELETE /api/v1/workshops/:id
func (h *WorkshopHandler) DeleteWorkshop(c *gin.Context) {
	id, ok := pathID(c, "id", "工作坊ID不能为空")
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.workshopSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleWorkshopError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleWorkshopError 统一处理工作坊模块业务错误
func (h *WorkshopHandler) handleWorkshopError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorkshopNotFound):
		response.NotFound(c, 12001, "工作坊不存在")
	case errors.Is(err, service.ErrWorkshopHasSchedules):
		response.Conflict(c, 12002, "工作坊下仍有启用的时段，无法删除")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10009, "数据已被其他操作修改，请刷新后重试")
	default:
		respondUnexpected(c, err)
	}
}
