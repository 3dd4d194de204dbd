package repository

import (
	"context"

	"gorm.io/gorm"

	"talleres/internal/model"
)

// EnrollmentRepository 报名数据访问接口
type EnrollmentRepository interface {
	Create(ctx context.Context, e *model.Enrollment) error
	GetByID(ctx context.Context, id string) (*model.Enrollment, error)
	ListBySchedule(ctx context.Context, scheduleID string, includeCancelled bool) ([]model.Enrollment, error)
	CountActive(ctx context.Context, scheduleID string) (int64, error)
	Update(ctx context.Context, e *model.Enrollment) error
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Create(ctx context.Context, e *model.Enrollment) error {
	return r.db.WithContext(ctx).Omit("Schedule").Create(e).Error
}

func (r *enrollmentRepo) GetByID(ctx context.Context, id string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.db.WithContext(ctx).
		Where("enrollment_id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepo) ListBySchedule(ctx context.Context, scheduleID string, includeCancelled bool) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	db := r.db.WithContext(ctx).Where("schedule_id = ?", scheduleID)
	if !includeCancelled {
		db = db.Where("status = ?", model.EnrollmentActive)
	}
	err := db.Order("created_at ASC").Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepo) CountActive(ctx context.Context, scheduleID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("schedule_id = ? AND status = ?", scheduleID, model.EnrollmentActive).
		Count(&count).Error
	return count, err
}

func (r *enrollmentRepo) Update(ctx context.Context, e *model.Enrollment) error {
	return r.db.WithContext(ctx).Omit("Schedule").Save(e).Error
}
