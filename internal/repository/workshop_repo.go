package repository

import (
	"context"

	"gorm.io/gorm"

	"talleres/internal/model"
	pkgerrors "talleres/pkg/errors"
)

// WorkshopRepository 工作坊数据访问接口
type WorkshopRepository interface {
	Create(ctx context.Context, w *model.Workshop) error
	GetByID(ctx context.Context, id string) (*model.Workshop, error)
	List(ctx context.Context, includeInactive bool) ([]model.Workshop, error)
	// NameTable 返回 workshop_id → name 的映射（含已停用的工作坊）
	NameTable(ctx context.Context) (map[string]string, error)
	Update(ctx context.Context, w *model.Workshop) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type workshopRepo struct {
	db *gorm.DB
}

// NewWorkshopRepo 创建 WorkshopRepository 实例
func NewWorkshopRepo(db *gorm.DB) WorkshopRepository {
	return &workshopRepo{db: db}
}

func (r *workshopRepo) Create(ctx context.Context, w *model.Workshop) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *workshopRepo) GetByID(ctx context.Context, id string) (*model.Workshop, error) {
	var w model.Workshop
	err := r.db.WithContext(ctx).
		Where("workshop_id = ?", id).
		First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *workshopRepo) List(ctx context.Context, includeInactive bool) ([]model.Workshop, error) {
	var workshops []model.Workshop
	db := r.db.WithContext(ctx)
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("name ASC").Find(&workshops).Error
	return workshops, err
}

func (r *workshopRepo) NameTable(ctx context.Context) (map[string]string, error) {
	var rows []struct {
		WorkshopID string
		Name       string
	}
	err := r.db.WithContext(ctx).
		Model(&model.Workshop{}).
		Select("workshop_id, name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(rows))
	for _, row := range rows {
		names[row.WorkshopID] = row.Name
	}
	return names, nil
}

// Update 乐观锁更新：version 不匹配时返回 ErrOptimisticLock
func (r *workshopRepo) Update(ctx context.Context, w *model.Workshop) error {
	oldVersion := w.Version
	result := r.db.WithContext(ctx).
		Model(&model.Workshop{}).
		Where("workshop_id = ? AND version = ?", w.WorkshopID, oldVersion).
		Updates(map[string]interface{}{
			"name":        w.Name,
			"description": w.Description,
			"capacity":    w.Capacity,
			"is_active":   w.IsActive,
			"updated_by":  w.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	w.Version = oldVersion + 1
	return nil
}

func (r *workshopRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return softDelete(ctx, r.db, &model.Workshop{}, "workshop_id", id, deletedBy)
}
