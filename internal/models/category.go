package models

import (
	"time"

	"gorm.io/gorm"
)

// Category 配件分类表（树形，ParentID 为空表示根分类）
type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`                         // 主键
	ParentID  *uint          `gorm:"index" json:"parent_id"`                       // 父分类ID
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`             // 唯一标识
	Name      string         `gorm:"type:varchar(200);not null" json:"name"`       // 名称
	Icon      string         `gorm:"type:varchar(500)" json:"icon"`                // 图标地址
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`            // 排序权重
	IsActive  bool           `gorm:"not null;default:true;index" json:"is_active"` // 是否展示
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                   // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
