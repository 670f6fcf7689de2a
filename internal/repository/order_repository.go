package repository

import (
	"time"

	"github.com/ram-us/internal/constants"
	"github.com/ram-us/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	GetByOrderNoAndUser(orderNo string, userID uint) (*models.Order, error)
	ListByUser(filter OrderListFilter) ([]models.Order, int64, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(id uint, fromStatuses []string, status string, updates map[string]interface{}) (int64, error)
	ListExpiredPending(now time.Time, limit int) ([]models.Order, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Omit("Items").Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

func (r *GormOrderRepository) withItems() *gorm.DB {
	return r.db.Scopes(preloadItems)
}

// GetByID 带订单行
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	return findOne[models.Order](r.withItems().Where("id = ?", id))
}

// GetByOrderNo 带订单行
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	return findOne[models.Order](r.withItems().Where("order_no = ?", orderNo))
}

// GetByOrderNoAndUser 仅返回属于该买家的订单
func (r *GormOrderRepository) GetByOrderNoAndUser(orderNo string, userID uint) (*models.Order, error) {
	return findOne[models.Order](r.withItems().Where("order_no = ? AND user_id = ?", orderNo, userID))
}

// ListByUser 买家订单历史，UserID 必填
func (r *GormOrderRepository) ListByUser(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).Where("user_id = ?", filter.UserID).Scopes(eq("status", filter.Status))
	return pageOf[models.Order](query, filter.Page, filter.PageSize, "id DESC", preloadItems)
}

// ListAdmin 后台订单列表
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).Scopes(
		eq("user_id", filter.UserID),
		eq("status", filter.Status),
		eq("order_no", filter.OrderNo),
		eq("phone", filter.Phone),
		createdBetween(filter.CreatedFrom, filter.CreatedTo),
	)
	return pageOf[models.Order](query, filter.Page, filter.PageSize, "id DESC", preloadItems)
}

// createdBetween 闭区间过滤 created_at，端点可空
func createdBetween(from, to *time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where("created_at >= ?", *from)
		}
		if to != nil {
			db = db.Where("created_at <= ?", *to)
		}
		return db
	}
}

// UpdateStatus 条件更新订单状态（仅当当前状态在 fromStatuses 内），返回影响行数
func (r *GormOrderRepository) UpdateStatus(id uint, fromStatuses []string, status string, updates map[string]interface{}) (int64, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	query := r.db.Model(&models.Order{}).Where("id = ?", id)
	if len(fromStatuses) > 0 {
		query = query.Where("status IN ?", fromStatuses)
	}
	result := query.Updates(updates)
	return result.RowsAffected, result.Error
}

// ListExpiredPending 列出已过支付期限的待支付订单
func (r *GormOrderRepository) ListExpiredPending(now time.Time, limit int) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", constants.OrderStatusPendingPayment, now).Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
