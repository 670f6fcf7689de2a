package models

import (
	"time"

	"gorm.io/gorm"
)

// Seller 二手市场卖家
type Seller struct {
	ID                uint           `gorm:"primarykey" json:"id"`                          // 主键
	UserID            uint           `gorm:"uniqueIndex;not null" json:"user_id"`           // 用户ID
	ShopName          string         `gorm:"type:varchar(200);not null" json:"shop_name"`   // 店铺名
	Phone             string         `gorm:"type:varchar(20);not null" json:"phone"`        // 联系电话
	City              string         `gorm:"type:varchar(200)" json:"city"`                 // 城市
	Description       string         `gorm:"type:text" json:"description"`                  // 简介
	Status            string         `gorm:"type:varchar(20);index;not null" json:"status"` // 审核状态
	RejectReason      string         `gorm:"type:varchar(500)" json:"reject_reason"`        // 驳回/封禁原因
	SubscriptionUntil *time.Time     `gorm:"index" json:"subscription_until"`               // 订阅到期时间
	ReviewedAt        *time.Time     `json:"reviewed_at"`                                   // 审核时间
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt         time.Time      `json:"updated_at"`                                    // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间
}

// TableName 指定表名
func (Seller) TableName() string {
	return "sellers"
}

// SubscriptionActive 订阅是否有效
func (s Seller) SubscriptionActive(now time.Time) bool {
	return s.SubscriptionUntil != nil && s.SubscriptionUntil.After(now)
}
