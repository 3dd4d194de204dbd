package model

// WorkshopSchedule 工作坊每周重复时段，对应 workshop_schedules
//
// DaySpec / StartTime / EndTime 保留上游录入的原始文本（如 "Lunes, Miércoles"、"1/3/5"、"14:00"），
// 不在入库时强制规范化，由 agenda 包在展开时宽松解析。
type WorkshopSchedule struct {
	ScheduleID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	WorkshopID string  `gorm:"type:uuid;not null;index"                       json:"workshop_id"`
	TeacherID  *string `gorm:"type:uuid"                                      json:"teacher_id,omitempty"`
	LocationID *string `gorm:"type:uuid"                                      json:"location_id,omitempty"`
	DaySpec    string  `gorm:"type:varchar(100);not null"                     json:"day_spec"`
	StartTime  string  `gorm:"type:varchar(8);not null"                       json:"start_time"`
	EndTime    string  `gorm:"type:varchar(8);not null"                       json:"end_time"`
	Capacity   *int    `json:"capacity,omitempty"` // NULL 时沿用工作坊容量
	IsActive   bool    `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Workshop *Workshop `gorm:"foreignKey:WorkshopID;references:WorkshopID" json:"workshop,omitempty"`
	Teacher  *Teacher  `gorm:"foreignKey:TeacherID;references:TeacherID"   json:"teacher,omitempty"`
	Location *Location `gorm:"foreignKey:LocationID;references:LocationID" json:"location,omitempty"`
}

// TableName 指定表名
func (WorkshopSchedule) TableName() string { return "workshop_schedules" }

// EffectiveCapacity 时段容量，未设置时回退到工作坊容量；0 表示不限
func (s *WorkshopSchedule) EffectiveCapacity() int {
	if s.Capacity != nil {
		return *s.Capacity
	}
	if s.Workshop != nil {
		return s.Workshop.Capacity
	}
	return 0
}
