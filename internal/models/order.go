package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                       // 主键
	OrderNo       string         `gorm:"uniqueIndex;not null" json:"order_no"`                       // 订单编号
	UserID        uint           `gorm:"index;not null" json:"user_id"`                              // 用户ID
	Status        string         `gorm:"index;not null" json:"status"`                               // 订单状态
	ContactName   string         `gorm:"type:varchar(200)" json:"contact_name"`                      // 联系人
	Phone         string         `gorm:"type:varchar(20);not null" json:"phone"`                     // 手机号（11 位数字）
	Comment       string         `gorm:"type:text" json:"comment"`                                   // 备注
	DeliveryMode  string         `gorm:"type:varchar(20);not null" json:"delivery_mode"`             // 配送方式（courier/pvz/pickup）
	CityCode      int            `gorm:"not null;default:0" json:"city_code"`                        // 城市编码（CDEK）
	CityName      string         `gorm:"type:varchar(200)" json:"city_name"`                         // 城市名称
	Address       string         `gorm:"type:varchar(500)" json:"address"`                           // 快递上门地址
	TariffCode    int            `gorm:"not null;default:0" json:"tariff_code"`                      // 物流资费编码
	TariffName    string         `gorm:"type:varchar(200)" json:"tariff_name"`                       // 物流资费名称
	PvzCode       string         `gorm:"type:varchar(50)" json:"pvz_code"`                           // 自提点编码
	PvzAddress    string         `gorm:"type:varchar(500)" json:"pvz_address"`                       // 自提点地址
	ItemsAmount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"items_amount"`  // 商品金额
	DeliveryCost  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_cost"` // 运费
	TotalAmount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`  // 应付金额
	ExpiresAt     *time.Time     `gorm:"index" json:"expires_at"`                                    // 支付过期时间
	PaidAt        *time.Time     `gorm:"index" json:"paid_at"`                                       // 支付时间
	CanceledAt    *time.Time     `gorm:"index" json:"canceled_at"`                                   // 取消时间
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                    // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
