package dto

// ── 时段模块 DTO ──

// CreateScheduleRequest 创建时段请求
// day_spec 为自由文本，如 "Lunes, Miércoles"、"1/3/5"
type CreateScheduleRequest struct {
	WorkshopID string  `json:"workshop_id" binding:"required,uuid"`
	TeacherID  *string `json:"teacher_id"  binding:"omitempty,uuid"`
	LocationID *string `json:"location_id" binding:"omitempty,uuid"`
	DaySpec    string  `json:"day_spec"    binding:"required,max=100"`
	StartTime  string  `json:"start_time"  binding:"required,max=8,clock"`
	EndTime    string  `json:"end_time"    binding:"required,max=8,clock"`
	Capacity   *int    `json:"capacity"    binding:"omitempty,min=0,max=10000"`
}

// UpdateScheduleRequest 更新时段请求（version 用于乐观锁）
type UpdateScheduleRequest struct {
	TeacherID  *string `json:"teacher_id"  binding:"omitempty,uuid"`
	LocationID *string `json:"location_id" binding:"omitempty,uuid"`
	DaySpec    *string `json:"day_spec"    binding:"omitempty,max=100"`
	StartTime  *string `json:"start_time"  binding:"omitempty,max=8,clock"`
	EndTime    *string `json:"end_time"    binding:"omitempty,max=8,clock"`
	Capacity   *int    `json:"capacity"    binding:"omitempty,min=0,max=10000"`
	IsActive   *bool   `json:"is_active"`
	Version    int     `json:"version"     binding:"required,min=1"`
}

// ScheduleListRequest 时段列表查询参数
// weekday 取 0-6（周日=0），按 day_spec 解析结果过滤
type ScheduleListRequest struct {
	WorkshopID      string `form:"workshop_id" binding:"omitempty,uuid"`
	TeacherID       string `form:"teacher_id"  binding:"omitempty,uuid"`
	LocationID      string `form:"location_id" binding:"omitempty,uuid"`
	Weekday         *int   `form:"weekday"     binding:"omitempty,min=0,max=6"`
	IncludeInactive bool   `form:"include_inactive"`
}

// ScheduleResponse 时段信息响应
type ScheduleResponse struct {
	ID           string   `json:"id"`
	WorkshopID   string   `json:"workshop_id"`
	WorkshopName string   `json:"workshop_name,omitempty"`
	TeacherID    *string  `json:"teacher_id,omitempty"`
	TeacherName  string   `json:"teacher_name,omitempty"`
	LocationID   *string  `json:"location_id,omitempty"`
	LocationName string   `json:"location_name,omitempty"`
	DaySpec      string   `json:"day_spec"`
	Weekdays     []string `json:"weekdays"` // day_spec 解析结果，周一在前
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	Capacity     *int     `json:"capacity,omitempty"`
	IsActive     bool     `json:"is_active"`
	Version      int      `json:"version"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// ScheduleIssueResponse 时段数据质量问题
type ScheduleIssueResponse struct {
	ScheduleID string `json:"schedule_id"`
	Kind       string `json:"kind"`
	Value      string `json:"value"`
}
