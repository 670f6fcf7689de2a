package repository

import (
	"github.com/ram-us/internal/models"

	"gorm.io/gorm"
)

// CategoryUsage 删除分类前需要为空的引用计数
type CategoryUsage struct {
	Products int64
	Children int64
}

// InUse 仍有商品或子分类
func (u CategoryUsage) InUse() bool {
	return u.Products > 0 || u.Children > 0
}

// CategoryRepository 配件分类
type CategoryRepository interface {
	List(onlyActive bool) ([]models.Category, error)
	GetByID(id uint) (*models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id uint) error
	SlugTaken(slug string, excludeID uint) (bool, error)
	Usage(categoryID uint) (CategoryUsage, error)
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// List 扁平列表，权重高的在前；树由调用方组装
func (r *GormCategoryRepository) List(onlyActive bool) ([]models.Category, error) {
	query := r.db.Model(&models.Category{})
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	categories := make([]models.Category, 0)
	if err := query.Order("sort_order DESC").Order("id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByID 不存在返回 nil
func (r *GormCategoryRepository) GetByID(id uint) (*models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("id = ?", id).Limit(1).Find(&categories).Error; err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, nil
	}
	return &categories[0], nil
}

// Create 创建
func (r *GormCategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// Update 整行保存
func (r *GormCategoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

// Delete 软删除
func (r *GormCategoryRepository) Delete(id uint) error {
	return r.db.Delete(&models.Category{}, id).Error
}

// SlugTaken slug 是否已被其他分类占用
func (r *GormCategoryRepository) SlugTaken(slug string, excludeID uint) (bool, error) {
	query := r.db.Model(&models.Category{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Usage 统计分类下的商品与直接子分类
func (r *GormCategoryRepository) Usage(categoryID uint) (CategoryUsage, error) {
	var usage CategoryUsage
	if err := r.db.Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&usage.Products).Error; err != nil {
		return usage, err
	}
	if err := r.db.Model(&models.Category{}).Where("parent_id = ?", categoryID).Count(&usage.Children).Error; err != nil {
		return usage, err
	}
	return usage, nil
}
