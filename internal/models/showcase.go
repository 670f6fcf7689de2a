package models

import "time"

// ShowcaseItem 首页橱窗商品（按 Position 升序展示）
type ShowcaseItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                   // 主键
	ProductID uint      `gorm:"uniqueIndex;not null" json:"product_id"` // 商品ID
	Position  int       `gorm:"not null;index" json:"position"`         // 位置
	CreatedAt time.Time `json:"created_at"`                             // 创建时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 商品
}

// TableName 指定表名
func (ShowcaseItem) TableName() string {
	return "showcase_items"
}
