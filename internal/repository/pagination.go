package repository

import (
	"github.com/ram-us/internal/constants"

	"gorm.io/gorm"
)

// paginate 分页 scope；pageSize <= 0 表示不分页，超过上限时截断
func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if pageSize > constants.MaxPageSize {
			pageSize = constants.MaxPageSize
		}
		if page < 1 {
			page = 1
		}
		return db.Limit(pageSize).Offset((page - 1) * pageSize)
	}
}

// eq 值非零时追加 column = value
func eq[V comparable](column string, value V) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		var zero V
		if value == zero {
			return db
		}
		return db.Where(column+" = ?", value)
	}
}

// findOne 取首行，没有记录时返回 nil, nil
func findOne[T any](query *gorm.DB) (*T, error) {
	var rows []T
	if err := query.Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// pageOf 先计数再按 order 取一页；query 需已指定 Model，findScopes 只作用于取数（如 Preload）
func pageOf[T any](query *gorm.DB, page, pageSize int, order string, findScopes ...func(*gorm.DB) *gorm.DB) ([]T, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := make([]T, 0)
	if total == 0 {
		return rows, 0, nil
	}
	if err := query.Scopes(findScopes...).Scopes(paginate(page, pageSize)).Order(order).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
