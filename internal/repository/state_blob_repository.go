package repository

import (
	"errors"
	"time"

	"github.com/ram-us/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StateBlobRepository 客户端状态快照数据访问接口
type StateBlobRepository interface {
	Get(key string) (*models.StateBlob, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// GormStateBlobRepository GORM 实现
type GormStateBlobRepository struct {
	db *gorm.DB
}

// NewStateBlobRepository 创建状态快照仓库
func NewStateBlobRepository(db *gorm.DB) *GormStateBlobRepository {
	return &GormStateBlobRepository{db: db}
}

// Get 获取快照，不存在返回 nil
func (r *GormStateBlobRepository) Get(key string) (*models.StateBlob, error) {
	var blob models.StateBlob
	if err := r.db.Where("key = ?", key).First(&blob).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &blob, nil
}

// Put 写入快照（存在则覆盖）
func (r *GormStateBlobRepository) Put(key string, value []byte) error {
	blob := models.StateBlob{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&blob).Error
}

// Delete 删除快照
func (r *GormStateBlobRepository) Delete(key string) error {
	return r.db.Where("key = ?", key).Delete(&models.StateBlob{}).Error
}
