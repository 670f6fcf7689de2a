package repository

import (
	"errors"

	"github.com/ram-us/internal/models"

	"gorm.io/gorm"
)

// SellerRepository 卖家数据访问接口
type SellerRepository interface {
	Create(seller *models.Seller) error
	Update(seller *models.Seller) error
	GetByID(id uint) (*models.Seller, error)
	GetByUserID(userID uint) (*models.Seller, error)
	List(filter SellerListFilter) ([]models.Seller, int64, error)
	WithTx(tx *gorm.DB) SellerRepository
}

// GormSellerRepository GORM 实现
type GormSellerRepository struct {
	db *gorm.DB
}

// NewSellerRepository 创建卖家仓库
func NewSellerRepository(db *gorm.DB) *GormSellerRepository {
	return &GormSellerRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSellerRepository) WithTx(tx *gorm.DB) SellerRepository {
	if tx == nil {
		return r
	}
	return &GormSellerRepository{db: tx}
}

// Create 创建卖家
func (r *GormSellerRepository) Create(seller *models.Seller) error {
	return r.db.Create(seller).Error
}

// Update 更新卖家
func (r *GormSellerRepository) Update(seller *models.Seller) error {
	return r.db.Save(seller).Error
}

// GetByID 根据 ID 获取卖家
func (r *GormSellerRepository) GetByID(id uint) (*models.Seller, error) {
	var seller models.Seller
	if err := r.db.First(&seller, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &seller, nil
}

// GetByUserID 根据用户获取卖家
func (r *GormSellerRepository) GetByUserID(userID uint) (*models.Seller, error) {
	var seller models.Seller
	if err := r.db.Where("user_id = ?", userID).First(&seller).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &seller, nil
}

// List 卖家列表
func (r *GormSellerRepository) List(filter SellerListFilter) ([]models.Seller, int64, error) {
	query := r.db.Model(&models.Seller{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	query = applyKeywordSearch(query, filter.Keyword, "shop_name", "phone", "city")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = query.Scopes(paginate(filter.Page, filter.PageSize))

	sellers := make([]models.Seller, 0)
	if err := query.Order("id DESC").Find(&sellers).Error; err != nil {
		return nil, 0, err
	}
	return sellers, total, nil
}
