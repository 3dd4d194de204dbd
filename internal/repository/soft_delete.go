package repository

import (
	"context"

	"gorm.io/gorm"
)

// softDelete 写入 deleted_by / deleted_at，gorm 之后的查询会自动过滤该行
func softDelete(ctx context.Context, db *gorm.DB, m interface{}, idColumn, id, deletedBy string) error {
	return db.WithContext(ctx).
		Model(m).
		Where(idColumn+" = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
