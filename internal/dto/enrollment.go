package dto

// ── 报名模块 DTO ──

// EnrollRequest 报名请求
type EnrollRequest struct {
	StudentName  string `json:"student_name"  binding:"required,min=2,max=100"`
	StudentEmail string `json:"student_email" binding:"omitempty,email"`
}

// EnrollmentListRequest 报名列表查询参数
type EnrollmentListRequest struct {
	IncludeCancelled bool `form:"include_cancelled"`
}

// EnrollmentResponse 报名信息响应
type EnrollmentResponse struct {
	ID           string `json:"id"`
	ScheduleID   string `json:"schedule_id"`
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	CancelledAt  string `json:"cancelled_at,omitempty"`
}
