package models

import "time"

// StateBlob 客户端状态快照（购物车、车库），键如 ram-us-cart:42
type StateBlob struct {
	Key       string    `gorm:"primarykey;type:varchar(191)" json:"key"` // 存储键
	Value     string    `gorm:"type:text;not null" json:"value"`         // JSON 内容
	UpdatedAt time.Time `json:"updated_at"`                              // 更新时间
}

// TableName 指定表名
func (StateBlob) TableName() string {
	return "state_blobs"
}
