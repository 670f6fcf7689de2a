package repository

import (
	"errors"
	"strings"

	"github.com/ram-us/internal/constants"
	"github.com/ram-us/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	ListBrands(onlyActive bool) ([]string, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	DecreaseStock(productID uint, quantity int) (int64, error)
	IncreaseStock(productID uint, quantity int) (int64, error)
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// List 按目录过滤条件分页；价格区间与排序都作用于 price_rub
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{}).Scopes(filter.scope)
	var findScopes []func(*gorm.DB) *gorm.DB
	if filter.WithCategory {
		findScopes = append(findScopes, func(db *gorm.DB) *gorm.DB { return db.Preload("Category") })
	}
	return pageOf[models.Product](query, filter.Page, filter.PageSize, productOrderClause(filter.Sort), findScopes...)
}

func (f ProductListFilter) scope(db *gorm.DB) *gorm.DB {
	db = db.Scopes(eq("brand", strings.TrimSpace(f.Brand)))
	if f.OnlyActive {
		db = db.Where("is_active = ?", true)
	}
	if len(f.CategoryIDs) > 0 {
		db = db.Where("category_id IN ?", f.CategoryIDs)
	}
	if f.InStock {
		db = db.Where("stock > 0")
	}
	if f.MinPrice != nil {
		db = db.Where("price_rub >= ?", f.MinPrice.StringFixed(2))
	}
	if f.MaxPrice != nil {
		db = db.Where("price_rub <= ?", f.MaxPrice.StringFixed(2))
	}
	return applyKeywordSearch(db, f.Search, "name", "part_number", "brand")
}

func productOrderClause(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case constants.ProductSortPriceAsc:
		return "price_rub ASC, id ASC"
	case constants.ProductSortPriceDesc:
		return "price_rub DESC, id ASC"
	case constants.ProductSortNew:
		return "created_at DESC, id DESC"
	case constants.ProductSortPopular:
		return "sales_count DESC, id ASC"
	default:
		return "sort_order DESC, created_at DESC"
	}
}

// GetByID 带分类
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	return findOne[models.Product](r.db.Preload("Category").Where("id = ?", id))
}

// ListByIDs 批量获取商品
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListBrands 品牌列表（去重，按字母排序）
func (r *GormProductRepository) ListBrands(onlyActive bool) ([]string, error) {
	query := r.db.Model(&models.Product{}).Where("brand <> ?", "")
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	brands := make([]string, 0)
	if err := query.Distinct().Order("brand ASC").Pluck("brand", &brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Omit("Category").Save(product).Error
}

// Delete 删除商品
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

var errStockQuantity = errors.New("stock change needs product id and positive quantity")

// DecreaseStock 库存足够时扣减并累计销量；库存不足时影响行数为 0
func (r *GormProductRepository) DecreaseStock(productID uint, quantity int) (int64, error) {
	if productID == 0 || quantity <= 0 {
		return 0, errStockQuantity
	}
	return r.adjustStock(r.db.Model(&models.Product{}).Where("id = ? AND stock >= ?", productID, quantity), map[string]interface{}{
		"stock":       gorm.Expr("stock - ?", quantity),
		"sales_count": gorm.Expr("sales_count + ?", quantity),
	})
}

// IncreaseStock 订单取消时回补库存，销量不低于 0
func (r *GormProductRepository) IncreaseStock(productID uint, quantity int) (int64, error) {
	if productID == 0 || quantity <= 0 {
		return 0, errStockQuantity
	}
	return r.adjustStock(r.db.Model(&models.Product{}).Where("id = ?", productID), map[string]interface{}{
		"stock":       gorm.Expr("stock + ?", quantity),
		"sales_count": gorm.Expr("CASE WHEN sales_count >= ? THEN sales_count - ? ELSE 0 END", quantity, quantity),
	})
}

func (*GormProductRepository) adjustStock(query *gorm.DB, updates map[string]interface{}) (int64, error) {
	result := query.Updates(updates)
	return result.RowsAffected, result.Error
}
