package dto

// ── 地点模块 DTO ──

// CreateLocationRequest 创建地点请求
type CreateLocationRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Address  string `json:"address"  binding:"omitempty,max=200"`
	Room     string `json:"room"     binding:"omitempty,max=50"`
	Capacity *int   `json:"capacity" binding:"omitempty,min=1"`
}

// UpdateLocationRequest 更新地点请求
type UpdateLocationRequest struct {
	Name     *string `json:"name"     binding:"omitempty,min=2,max=100"`
	Address  *string `json:"address"  binding:"omitempty,max=200"`
	Room     *string `json:"room"     binding:"omitempty,max=50"`
	Capacity *int    `json:"capacity" binding:"omitempty,min=1"`
	IsActive *bool   `json:"is_active"`
}

// ListRequest 基础资料列表查询参数
type ListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// LocationResponse 地点信息响应
type LocationResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Label     string `json:"label"`
	Address   string `json:"address,omitempty"`
	Room      string `json:"room,omitempty"`
	Capacity  *int   `json:"capacity,omitempty"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
