package models

import "time"

// Preorder 配件预订请求（目录中找不到的零件）
type Preorder struct {
	ID          uint       `gorm:"primarykey" json:"id"`                          // 主键
	UserID      uint       `gorm:"index;not null" json:"user_id"`                 // 用户ID
	PartName    string     `gorm:"type:varchar(300);not null" json:"part_name"`   // 零件名称
	PartNumber  string     `gorm:"type:varchar(100)" json:"part_number"`          // 零件编号
	VIN         string     `gorm:"type:varchar(17)" json:"vin"`                   // 车架号
	Phone       string     `gorm:"type:varchar(20);not null" json:"phone"`        // 手机号
	Comment     string     `gorm:"type:text" json:"comment"`                      // 备注
	Status      string     `gorm:"type:varchar(20);index;not null" json:"status"` // 状态（new/processed/closed）
	AdminNote   string     `gorm:"type:text" json:"admin_note"`                   // 管理员备注
	ProcessedAt *time.Time `json:"processed_at"`                                  // 处理时间
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt   time.Time  `json:"updated_at"`                                    // 更新时间
}

// TableName 指定表名
func (Preorder) TableName() string {
	return "preorders"
}
