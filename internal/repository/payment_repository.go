package repository

import (
	"github.com/ram-us/internal/constants"
	"github.com/ram-us/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository YooKassa 支付记录存取；查不到时返回 nil, nil
type PaymentRepository interface {
	Create(payment *models.Payment) error
	Update(payment *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	GetByProviderRef(providerRef string) (*models.Payment, error)
	GetLatestPendingByOrder(orderID uint) (*models.Payment, error)
	ListAdmin(filter PaymentListFilter) ([]models.Payment, int64, error)
	WithTx(tx *gorm.DB) PaymentRepository
}

// GormPaymentRepository PaymentRepository 的 gorm 实现
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付仓库
func NewPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// WithTx 返回绑定到 tx 的副本；tx 为 nil 时返回自身
func (r *GormPaymentRepository) WithTx(tx *gorm.DB) PaymentRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentRepository{db: tx}
}

func (r *GormPaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *GormPaymentRepository) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

func (r *GormPaymentRepository) GetByID(id uint) (*models.Payment, error) {
	return findOne[models.Payment](r.db.Where("id = ?", id))
}

// GetByProviderRef 按 YooKassa payment id 查最新一条
func (r *GormPaymentRepository) GetByProviderRef(providerRef string) (*models.Payment, error) {
	if providerRef == "" {
		return nil, nil
	}
	return findOne[models.Payment](r.db.Where("provider_ref = ?", providerRef).Order("id DESC"))
}

// GetLatestPendingByOrder 订单最近一笔未完成的支付，用于复用确认链接
func (r *GormPaymentRepository) GetLatestPendingByOrder(orderID uint) (*models.Payment, error) {
	query := r.db.Where("order_id = ? AND status = ?", orderID, constants.PaymentStatusPending).Order("id DESC")
	return findOne[models.Payment](query)
}

// ListAdmin 后台支付流水，按 ID 倒序
func (r *GormPaymentRepository) ListAdmin(filter PaymentListFilter) ([]models.Payment, int64, error) {
	query := r.db.Model(&models.Payment{}).Scopes(
		eq("user_id", filter.UserID),
		eq("order_id", filter.OrderID),
		eq("seller_id", filter.SellerID),
		eq("purpose", filter.Purpose),
		eq("status", filter.Status),
	)
	return pageOf[models.Payment](query, filter.Page, filter.PageSize, "id DESC")
}
