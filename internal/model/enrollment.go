package model

import "time"

// 报名状态
const (
	EnrollmentActive    = "active"
	EnrollmentCancelled = "cancelled"
)

// Enrollment 报名表，对应 enrollments
type Enrollment struct {
	EnrollmentID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"enrollment_id"`
	ScheduleID   string     `gorm:"type:uuid;not null;index"                       json:"schedule_id"`
	StudentName  string     `gorm:"type:varchar(100);not null"                     json:"student_name"`
	StudentEmail string     `gorm:"type:varchar(255)"                              json:"student_email,omitempty"`
	Status       string     `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | cancelled
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	BaseModel

	// 关联
	Schedule *WorkshopSchedule `gorm:"foreignKey:ScheduleID;references:ScheduleID" json:"schedule,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }
