package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"talleres/internal/dto"
	"talleres/internal/service"
	"talleres/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportWeek 导出一周课次 Excel
// GET /api/v1/export/week?date=YYYY-MM-DD
func (h *ExportHandler) ExportWeek(c *gin.Context) {
	var req dto.WeekRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	file, err := h.exportSvc.ExportWeekXLSX(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	response.Attachment(c, file.Filename, file.ContentType, file.Buf.Bytes())
}

// ExportCalendar 导出 iCalendar 订阅文件
// GET /api/v1/export/calendar.ics
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	file, err := h.exportSvc.ExportICS(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.Attachment(c, file.Filename, file.ContentType, file.Buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoSchedules):
		response.NotFound(c, 18001, "暂无启用的时段")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 10006, "日期格式无效，应为 YYYY-MM-DD")
	default:
		response.InternalError(c)
	}
}
