package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment 支付记录（订单或卖家订阅）
type Payment struct {
	ID              uint           `gorm:"primarykey" json:"id"`                           // 主键
	Purpose         string         `gorm:"type:varchar(30);index;not null" json:"purpose"` // 支付用途（order/seller_subscription）
	OrderID         *uint          `gorm:"index" json:"order_id,omitempty"`                // 订单ID
	SellerID        *uint          `gorm:"index" json:"seller_id,omitempty"`               // 卖家ID
	UserID          uint           `gorm:"index;not null" json:"user_id"`                  // 付款用户
	Provider        string         `gorm:"type:varchar(30);not null" json:"provider"`      // 支付提供方
	Amount          Money          `gorm:"type:decimal(20,2);not null" json:"amount"`      // 支付金额
	Currency        string         `gorm:"type:varchar(10);not null" json:"currency"`      // 币种
	Status          string         `gorm:"index;not null" json:"status"`                   // 支付状态
	ProviderRef     string         `gorm:"index" json:"provider_ref"`                      // 第三方支付ID
	IdempotenceKey  string         `gorm:"type:varchar(64);uniqueIndex" json:"-"`          // 幂等键
	ConfirmationURL string         `gorm:"type:text" json:"confirmation_url"`              // 跳转支付链接
	ProviderPayload JSON           `gorm:"type:json" json:"provider_payload"`              // 第三方原始数据
	PaidAt          *time.Time     `gorm:"index" json:"paid_at"`                           // 支付时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                        // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                 // 软删除时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
