package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"talleres/internal/model"
)

// AttendanceRepository 出勤数据访问接口
type AttendanceRepository interface {
	// Upsert 按 (enrollment_id, class_date) 写入，已存在则覆盖 present / note
	Upsert(ctx context.Context, a *model.Attendance) error
	ListByScheduleAndDate(ctx context.Context, scheduleID string, classDate time.Time) ([]model.Attendance, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Upsert(ctx context.Context, a *model.Attendance) error {
	return r.db.WithContext(ctx).
		Omit("Enrollment").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "class_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"present", "note", "updated_by", "updated_at"}),
		}).
		Create(a).Error
}

func (r *attendanceRepo) ListByScheduleAndDate(ctx context.Context, scheduleID string, classDate time.Time) ([]model.Attendance, error) {
	var records []model.Attendance
	err := r.db.WithContext(ctx).
		Preload("Enrollment").
		Where("schedule_id = ? AND class_date = ?", scheduleID, classDate.Format("2006-01-02")).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}
