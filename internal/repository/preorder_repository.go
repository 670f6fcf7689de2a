package repository

import (
	"errors"

	"github.com/ram-us/internal/models"

	"gorm.io/gorm"
)

// PreorderRepository 预订请求数据访问接口
type PreorderRepository interface {
	Create(preorder *models.Preorder) error
	Update(preorder *models.Preorder) error
	GetByID(id uint) (*models.Preorder, error)
	List(filter PreorderListFilter) ([]models.Preorder, int64, error)
}

// GormPreorderRepository GORM 实现
type GormPreorderRepository struct {
	db *gorm.DB
}

// NewPreorderRepository 创建预订请求仓库
func NewPreorderRepository(db *gorm.DB) *GormPreorderRepository {
	return &GormPreorderRepository{db: db}
}

// Create 创建预订请求
func (r *GormPreorderRepository) Create(preorder *models.Preorder) error {
	return r.db.Create(preorder).Error
}

// Update 更新预订请求
func (r *GormPreorderRepository) Update(preorder *models.Preorder) error {
	return r.db.Save(preorder).Error
}

// GetByID 根据 ID 获取预订请求
func (r *GormPreorderRepository) GetByID(id uint) (*models.Preorder, error) {
	var preorder models.Preorder
	if err := r.db.First(&preorder, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &preorder, nil
}

// List 预订请求列表
func (r *GormPreorderRepository) List(filter PreorderListFilter) ([]models.Preorder, int64, error) {
	query := r.db.Model(&models.Preorder{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	query = applyKeywordSearch(query, filter.Keyword, "part_name", "part_number", "vin", "phone")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = query.Scopes(paginate(filter.Page, filter.PageSize))

	preorders := make([]models.Preorder, 0)
	if err := query.Order("id DESC").Find(&preorders).Error; err != nil {
		return nil, 0, err
	}
	return preorders, total, nil
}
