package model

// Teacher 授课老师表，对应 teachers
type Teacher struct {
	TeacherID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email     string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Phone     string `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	IsActive  bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }
