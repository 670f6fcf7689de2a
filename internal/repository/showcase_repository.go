package repository

import (
	"github.com/ram-us/internal/models"

	"gorm.io/gorm"
)

// ShowcaseRepository 橱窗数据访问接口
type ShowcaseRepository interface {
	List(withProduct bool) ([]models.ShowcaseItem, error)
	Replace(productIDs []uint) error
}

// GormShowcaseRepository GORM 实现
type GormShowcaseRepository struct {
	db *gorm.DB
}

// NewShowcaseRepository 创建橱窗仓库
func NewShowcaseRepository(db *gorm.DB) *GormShowcaseRepository {
	return &GormShowcaseRepository{db: db}
}

// List 按位置返回橱窗项
func (r *GormShowcaseRepository) List(withProduct bool) ([]models.ShowcaseItem, error) {
	query := r.db.Model(&models.ShowcaseItem{})
	if withProduct {
		query = query.Preload("Product")
	}
	items := make([]models.ShowcaseItem, 0)
	if err := query.Order("position ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Replace 整体替换橱窗顺序
func (r *GormShowcaseRepository) Replace(productIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.ShowcaseItem{}).Error; err != nil {
			return err
		}
		if len(productIDs) == 0 {
			return nil
		}
		items := make([]models.ShowcaseItem, 0, len(productIDs))
		for idx, productID := range productIDs {
			items = append(items, models.ShowcaseItem{ProductID: productID, Position: idx})
		}
		return tx.Create(&items).Error
	})
}
