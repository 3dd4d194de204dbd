package model

import "time"

// Attendance 出勤记录表，对应 attendances，(enrollment_id, class_date) 唯一
type Attendance struct {
	AttendanceID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"attendance_id"`
	EnrollmentID string    `gorm:"type:uuid;not null;uniqueIndex:uk_attendance_day" json:"enrollment_id"`
	ScheduleID   string    `gorm:"type:uuid;not null;index"                        json:"schedule_id"`
	ClassDate    time.Time `gorm:"type:date;not null;uniqueIndex:uk_attendance_day" json:"class_date"`
	Present      bool      `gorm:"not null;default:false"                          json:"present"`
	Note         string    `gorm:"type:varchar(200)"                               json:"note,omitempty"`
	BaseModel

	// 关联
	Enrollment *Enrollment `gorm:"foreignKey:EnrollmentID;references:EnrollmentID" json:"enrollment,omitempty"`
}

// TableName 指定表名
func (Attendance) TableName() string { return "attendances" }
