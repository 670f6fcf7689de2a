package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin 后台管理员；用户名统一小写存储
type Admin struct {
	ID           uint           `gorm:"primarykey" json:"id"`                         // 主键
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`         // 登录名
	PasswordHash string         `gorm:"not null" json:"-"`                            // bcrypt 哈希
	TokenVersion uint64         `gorm:"not null;default:0" json:"-"`                  // 递增后旧 Token 全部失效
	IsSuper      bool           `gorm:"not null;default:false;index" json:"is_super"` // 超级管理员跳过 casbin 校验
	LastLoginAt  *time.Time     `json:"last_login_at"`                                // 最后登录时间
	LastLoginIP  string         `gorm:"type:varchar(64)" json:"last_login_ip"`        // 最后登录 IP
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                   // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admins"
}
