package dto

// ── 看板模块 DTO ──

// OccurrenceResponse 一次具体课次
type OccurrenceResponse struct {
	ID           string `json:"id"` // <schedule_id>:<YYYY-MM-DD>
	ScheduleID   string `json:"schedule_id"`
	WorkshopID   string `json:"workshop_id"`
	WorkshopName string `json:"workshop_name"`
	Date         string `json:"date"`
	Weekday      string `json:"weekday"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	TeacherName  string `json:"teacher_name,omitempty"`
	LocationName string `json:"location_name,omitempty"`
	Capacity     *int   `json:"capacity,omitempty"`
	StartAt      string `json:"start_at,omitempty"` // 时间无法解析时为空
	EndAt        string `json:"end_at,omitempty"`
}

// TodayResponse 今日实时看板
type TodayResponse struct {
	Now        string               `json:"now"`
	Today      string               `json:"today"`
	WeekStart  string               `json:"week_start"`
	WeekEnd    string               `json:"week_end"`
	InProgress []OccurrenceResponse `json:"in_progress"`
	Upcoming   []OccurrenceResponse `json:"upcoming"`
	TodayTotal int                  `json:"today_total"`
}

// WeekDayResponse 一周中的某一天
type WeekDayResponse struct {
	Date        string               `json:"date"`
	Weekday     string               `json:"weekday"`
	Occurrences []OccurrenceResponse `json:"occurrences"`
}

// WeekResponse 本周课表
type WeekResponse struct {
	WeekStart string            `json:"week_start"`
	WeekEnd   string            `json:"week_end"`
	Days      []WeekDayResponse `json:"days"`
	Total     int               `json:"total"`
}

// WeekRequest 周课表查询参数，date 缺省为今天
type WeekRequest struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}
