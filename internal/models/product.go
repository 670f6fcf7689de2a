package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 配件商品表
type Product struct {
	ID                     uint           `gorm:"primarykey" json:"id"`                                   // 主键
	CategoryID             uint           `gorm:"not null;index" json:"category_id"`                      // 分类ID
	Name                   string         `gorm:"type:varchar(300);not null" json:"name"`                 // 名称
	PartNumber             string         `gorm:"type:varchar(100);index" json:"part_number"`             // 配件编号（OEM/артикул）
	Brand                  string         `gorm:"type:varchar(100);index" json:"brand"`                   // 品牌
	Description            string         `gorm:"type:text" json:"description"`                           // 描述
	PriceRub               Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_rub"` // 价格（卢布）
	ImageURL               string         `gorm:"type:varchar(500)" json:"image_url"`                     // 主图
	Images                 StringArray    `gorm:"type:json" json:"images"`                                // 图片数组
	Compatibility          StringArray    `gorm:"type:json" json:"compatibility"`                         // 适配车型（仅展示）
	IsInstallmentAvailable bool           `gorm:"not null;default:false" json:"is_installment_available"` // 是否支持分期
	Stock                  int            `gorm:"not null;default:0" json:"stock"`                        // 库存
	WeightGrams            int            `gorm:"not null;default:0" json:"weight_grams"`                 // 重量（克）
	SalesCount             int            `gorm:"not null;default:0;index" json:"sales_count"`            // 销量
	IsActive               bool           `gorm:"default:true;index" json:"is_active"`                    // 是否上架
	SortOrder              int            `gorm:"default:0;index" json:"sort_order"`                      // 排序权重
	CreatedAt              time.Time      `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt              time.Time      `json:"updated_at"`                                             // 更新时间
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`                                         // 软删除时间

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
