package dto

// ── 工作坊模块 DTO ──

// CreateWorkshopRequest 创建工作坊请求
type CreateWorkshopRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Capacity    int    `json:"capacity"    binding:"omitempty,min=0,max=10000"`
}

// UpdateWorkshopRequest 更新工作坊请求（version 用于乐观锁）
type UpdateWorkshopRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Capacity    *int    `json:"capacity"    binding:"omitempty,min=0,max=10000"`
	IsActive    *bool   `json:"is_active"`
	Version     int     `json:"version"     binding:"required,min=1"`
}

// WorkshopResponse 工作坊信息响应
type WorkshopResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Capacity    int    `json:"capacity"`
	IsActive    bool   `json:"is_active"`
	Version     int    `json:"version"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
