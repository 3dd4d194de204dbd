package model

// Workshop 工作坊表，对应 workshops
type Workshop struct {
	WorkshopID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"workshop_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	Description string `gorm:"type:text"                                      json:"description,omitempty"`
	Capacity    int    `gorm:"not null;default:0"                             json:"capacity"` // 0 表示不限
	IsActive    bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Workshop) TableName() string { return "workshops" }
