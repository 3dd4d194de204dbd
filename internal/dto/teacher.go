package dto

// ── 老师模块 DTO ──

// CreateTeacherRequest 创建老师请求
type CreateTeacherRequest struct {
	Name  string `json:"name"  binding:"required,min=2,max=100"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty,max=30"`
}

// UpdateTeacherRequest 更新老师请求
type UpdateTeacherRequest struct {
	Name     *string `json:"name"  binding:"omitempty,min=2,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=30"`
	IsActive *bool   `json:"is_active"`
}

// TeacherResponse 老师信息响应
type TeacherResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
