package repository

import (
	"github.com/ram-us/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository 收藏数据访问接口
type FavoriteRepository interface {
	ListProductIDs(userID uint) ([]uint, error)
	Exists(userID, productID uint) (bool, error)
	Add(userID, productID uint) error
	Remove(userID, productID uint) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) FavoriteRepository
}

// GormFavoriteRepository GORM 实现
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository 创建收藏仓库
func NewFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// WithTx 绑定事务
func (r *GormFavoriteRepository) WithTx(tx *gorm.DB) FavoriteRepository {
	if tx == nil {
		return r
	}
	return &GormFavoriteRepository{db: tx}
}

// Transaction 执行事务
func (r *GormFavoriteRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// ListProductIDs 按收藏时间返回商品ID
func (r *GormFavoriteRepository) ListProductIDs(userID uint) ([]uint, error) {
	ids := make([]uint, 0)
	if err := r.db.Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Pluck("product_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Exists 判断是否已收藏
func (r *GormFavoriteRepository) Exists(userID, productID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Favorite{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Add 添加收藏，重复添加忽略
func (r *GormFavoriteRepository) Add(userID, productID uint) error {
	favorite := models.Favorite{UserID: userID, ProductID: productID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&favorite).Error
}

// Remove 取消收藏
func (r *GormFavoriteRepository) Remove(userID, productID uint) (int64, error) {
	result := r.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.Favorite{})
	return result.RowsAffected, result.Error
}
