package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"talleres/internal/model"
	pkgerrors "talleres/pkg/errors"
)

// ScheduleFilter 时段列表筛选条件
type ScheduleFilter struct {
	WorkshopID      string
	TeacherID       string
	LocationID      string
	IncludeInactive bool
}

// ScheduleRepository 工作坊时段数据访问接口
type ScheduleRepository interface {
	Create(ctx context.Context, s *model.WorkshopSchedule) error
	GetByID(ctx context.Context, id string) (*model.WorkshopSchedule, error)
	List(ctx context.Context, filter ScheduleFilter) ([]model.WorkshopSchedule, error)
	// ListActive 所有启用时段（工作坊也需启用），预加载关联，供课次展开使用
	ListActive(ctx context.Context) ([]model.WorkshopSchedule, error)
	Update(ctx context.Context, s *model.WorkshopSchedule) error
	// Lock 在当前事务中对时段行加 FOR UPDATE 锁，用于报名名额判断
	Lock(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type scheduleRepo struct {
	db *gorm.DB
}

// NewScheduleRepo 创建 ScheduleRepository 实例
func NewScheduleRepo(db *gorm.DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Workshop").
		Preload("Teacher").
		Preload("Location")
}

func (r *scheduleRepo) Create(ctx context.Context, s *model.WorkshopSchedule) error {
	return r.db.WithContext(ctx).Omit("Workshop", "Teacher", "Location").Create(s).Error
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string) (*model.WorkshopSchedule, error) {
	var s model.WorkshopSchedule
	err := r.withAssociations(ctx).
		Where("schedule_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scheduleRepo) List(ctx context.Context, filter ScheduleFilter) ([]model.WorkshopSchedule, error) {
	var schedules []model.WorkshopSchedule
	db := r.withAssociations(ctx)

	if filter.WorkshopID != "" {
		db = db.Where("workshop_id = ?", filter.WorkshopID)
	}
	if filter.TeacherID != "" {
		db = db.Where("teacher_id = ?", filter.TeacherID)
	}
	if filter.LocationID != "" {
		db = db.Where("location_id = ?", filter.LocationID)
	}
	if !filter.IncludeInactive {
		db = db.Where("is_active = ?", true)
	}

	err := db.Order("workshop_id ASC, start_time ASC").Find(&schedules).Error
	return schedules, err
}

func (r *scheduleRepo) ListActive(ctx context.Context) ([]model.WorkshopSchedule, error) {
	var schedules []model.WorkshopSchedule
	err := r.withAssociations(ctx).
		Joins("JOIN workshops ON workshops.workshop_id = workshop_schedules.workshop_id AND workshops.deleted_at IS NULL").
		Where("workshop_schedules.is_active = ? AND workshops.is_active = ?", true, true).
		Find(&schedules).Error
	return schedules, err
}

// Update 乐观锁更新：version 不匹配时返回 ErrOptimisticLock
func (r *scheduleRepo) Update(ctx context.Context, s *model.WorkshopSchedule) error {
	oldVersion := s.Version
	result := r.db.WithContext(ctx).
		Model(&model.WorkshopSchedule{}).
		Where("schedule_id = ? AND version = ?", s.ScheduleID, oldVersion).
		Updates(map[string]interface{}{
			"workshop_id": s.WorkshopID,
			"teacher_id":  s.TeacherID,
			"location_id": s.LocationID,
			"day_spec":    s.DaySpec,
			"start_time":  s.StartTime,
			"end_time":    s.EndTime,
			"capacity":    s.Capacity,
			"is_active":   s.IsActive,
			"updated_by":  s.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	s.Version = oldVersion + 1
	return nil
}

func (r *scheduleRepo) Lock(ctx context.Context, id string) error {
	var s model.WorkshopSchedule
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("schedule_id").
		Where("schedule_id = ?", id).
		First(&s).Error
}

func (r *scheduleRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return softDelete(ctx, r.db, &model.WorkshopSchedule{}, "schedule_id", id, deletedBy)
}
