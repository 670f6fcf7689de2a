package models

import "time"

// Favorite 收藏表
type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                             // 主键
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_product" json:"user_id"`    // 用户ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_favorite_user_product" json:"product_id"` // 商品ID
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                          // 创建时间
}

// TableName 指定表名
func (Favorite) TableName() string {
	return "favorites"
}
