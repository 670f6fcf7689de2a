package repository

import (
	"errors"

	"github.com/ram-us/internal/models"

	"gorm.io/gorm"
)

// ListingRepository 二手商品数据访问接口
type ListingRepository interface {
	Create(listing *models.Listing) error
	Update(listing *models.Listing) error
	Delete(id uint) error
	GetByID(id uint) (*models.Listing, error)
	List(filter ListingListFilter) ([]models.Listing, int64, error)
}

// GormListingRepository GORM 实现
type GormListingRepository struct {
	db *gorm.DB
}

// NewListingRepository 创建二手商品仓库
func NewListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// Create 创建二手商品
func (r *GormListingRepository) Create(listing *models.Listing) error {
	return r.db.Omit("Seller").Create(listing).Error
}

// Update 更新二手商品
func (r *GormListingRepository) Update(listing *models.Listing) error {
	return r.db.Omit("Seller").Save(listing).Error
}

// Delete 删除二手商品
func (r *GormListingRepository) Delete(id uint) error {
	return r.db.Delete(&models.Listing{}, id).Error
}

// GetByID 根据 ID 获取二手商品
func (r *GormListingRepository) GetByID(id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.Preload("Seller").First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

// List 二手商品列表
func (r *GormListingRepository) List(filter ListingListFilter) ([]models.Listing, int64, error) {
	query := r.db.Model(&models.Listing{})
	if filter.WithSeller {
		query = query.Preload("Seller")
	}
	if filter.SellerID != 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CarMake != "" {
		query = query.Where("car_make = ?", filter.CarMake)
	}
	query = applyKeywordSearch(query, filter.Keyword, "title", "part_number", "car_model")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = query.Scopes(paginate(filter.Page, filter.PageSize))

	listings := make([]models.Listing, 0)
	if err := query.Order("id DESC").Find(&listings).Error; err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}
