package models

import (
	"time"

	"gorm.io/gorm"
)

// Listing 二手市场商品
type Listing struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                   // 主键
	SellerID     uint           `gorm:"index;not null" json:"seller_id"`                        // 卖家ID
	Title        string         `gorm:"type:varchar(300);not null" json:"title"`                // 标题
	Description  string         `gorm:"type:text" json:"description"`                           // 描述
	PartNumber   string         `gorm:"type:varchar(100);index" json:"part_number"`             // 配件编号
	CarMake      string         `gorm:"type:varchar(100);index" json:"car_make"`                // 品牌
	CarModel     string         `gorm:"type:varchar(100)" json:"car_model"`                     // 车型
	Condition    string         `gorm:"type:varchar(20);not null" json:"condition"`             // 成色（new/used）
	PriceRub     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_rub"` // 价格（卢布）
	Images       StringArray    `gorm:"type:json" json:"images"`                                // 图片
	Status       string         `gorm:"type:varchar(20);index;not null" json:"status"`          // 审核状态
	RejectReason string         `gorm:"type:varchar(500)" json:"reject_reason"`                 // 驳回原因
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                             // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                         // 软删除时间

	Seller *Seller `gorm:"foreignKey:SellerID" json:"seller,omitempty"` // 卖家
}

// TableName 指定表名
func (Listing) TableName() string {
	return "listings"
}
