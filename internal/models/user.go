package models

import (
	"time"

	"gorm.io/gorm"
)

// User Telegram 买家表
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                    // 主键
	TelegramID   int64          `gorm:"uniqueIndex;not null" json:"telegram_id"` // Telegram 用户ID
	Username     string         `gorm:"type:varchar(100);index" json:"username"` // Telegram 用户名
	FirstName    string         `gorm:"type:varchar(200)" json:"first_name"`     // 名
	LastName     string         `gorm:"type:varchar(200)" json:"last_name"`      // 姓
	LanguageCode string         `gorm:"type:varchar(10)" json:"language_code"`   // 语言
	PhotoURL     string         `gorm:"type:varchar(500)" json:"photo_url"`      // 头像
	Phone        string         `gorm:"type:varchar(20)" json:"phone"`           // 最近一次下单手机号（11 位数字）
	Status       string         `gorm:"default:'active';index" json:"status"`    // 账号状态
	TokenVersion uint64         `gorm:"not null;default:0" json:"-"`             // Token 版本（用于全量失效）
	LastLoginAt  *time.Time     `json:"last_login_at"`                           // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                 // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                          // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// DisplayName 展示名称
func (u User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" && u.Username != "" {
		name = "@" + u.Username
	}
	return name
}
