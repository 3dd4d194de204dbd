package repository

import (
	"context"

	"gorm.io/gorm"

	"talleres/internal/model"
)

// LocationRepository 上课场地数据访问接口
type LocationRepository interface {
	Create(ctx context.Context, loc *model.Location) error
	GetByID(ctx context.Context, id string) (*model.Location, error)
	// List 按名称、教室排序；includeInactive=false 时只返回启用场地
	List(ctx context.Context, includeInactive bool) ([]model.Location, error)
	Update(ctx context.Context, loc *model.Location) error
	// CountActiveSchedules 仍在使用该场地的启用时段数（不含已删除）
	CountActiveSchedules(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string, deletedBy string) error
}

type locationRepo struct {
	db *gorm.DB
}

// NewLocationRepo 创建 LocationRepository 实例
func NewLocationRepo(db *gorm.DB) LocationRepository {
	return &locationRepo{db: db}
}

func (r *locationRepo) Create(ctx context.Context, loc *model.Location) error {
	return r.db.WithContext(ctx).Create(loc).Error
}

func (r *locationRepo) GetByID(ctx context.Context, id string) (*model.Location, error) {
	var loc model.Location
	if err := r.db.WithContext(ctx).First(&loc, "location_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *locationRepo) List(ctx context.Context, includeInactive bool) ([]model.Location, error) {
	q := r.db.WithContext(ctx).Model(&model.Location{})
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}

	var locations []model.Location
	err := q.Order("name ASC").Order("room ASC").Find(&locations).Error
	return locations, err
}

func (r *locationRepo) Update(ctx context.Context, loc *model.Location) error {
	return r.db.WithContext(ctx).
		Model(loc).
		Select("name", "address", "room", "capacity", "is_active", "updated_at", "updated_by").
		Updates(loc).Error
}

func (r *locationRepo) CountActiveSchedules(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.WorkshopSchedule{}).
		Where("location_id = ? AND is_active = ?", id, true).
		Count(&count).Error
	return count, err
}

func (r *locationRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return softDelete(ctx, r.db, &model.Location{}, "location_id", id, deletedBy)
}
