package dto

// ── 出勤模块 DTO ──

// RecordAttendanceRequest 记录出勤请求
type RecordAttendanceRequest struct {
	EnrollmentID string `json:"enrollment_id" binding:"required,uuid"`
	ClassDate    string `json:"class_date"    binding:"required,datetime=2006-01-02"`
	Present      bool   `json:"present"`
	Note         string `json:"note"          binding:"omitempty,max=200"`
}

// AttendanceListRequest 出勤查询参数
type AttendanceListRequest struct {
	ClassDate string `form:"class_date" binding:"required,datetime=2006-01-02"`
}

// AttendanceResponse 出勤信息响应
type AttendanceResponse struct {
	ID           string `json:"id"`
	EnrollmentID string `json:"enrollment_id"`
	StudentName  string `json:"student_name,omitempty"`
	ScheduleID   string `json:"schedule_id"`
	ClassDate    string `json:"class_date"`
	Present      bool   `json:"present"`
	Note         string `json:"note,omitempty"`
}
