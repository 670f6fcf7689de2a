package models

import "time"

// AuthzAuditLog 后台写操作留痕，覆盖权限变更与各类审核
type AuthzAuditLog struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
	Action           string    `gorm:"size:64;index;not null" json:"action"`        // role_grant、seller_review ...
	Resource         string    `gorm:"size:120;index;default:''" json:"resource"`   // seller:12、order:R20260101、showcase
	OperatorAdminID  uint      `gorm:"index;not null" json:"operator_admin_id"`     // 操作人
	OperatorUsername string    `gorm:"size:64;default:''" json:"operator_username"` // 操作人登录名快照
	TargetAdminID    *uint     `gorm:"index" json:"target_admin_id,omitempty"`      // 被授权的管理员
	TargetUsername   string    `gorm:"size:64;default:''" json:"target_username"`   // 被授权管理员登录名快照
	Role             string    `gorm:"size:120;index;default:''" json:"role"`       // 涉及的 casbin 角色
	Object           string    `gorm:"size:255;default:''" json:"object"`           // 路由或规则对象
	Method           string    `gorm:"size:16;default:''" json:"method"`            // HTTP 方法
	RequestID        string    `gorm:"size:64;default:''" json:"request_id"`        // 关联请求日志
	DetailJSON       JSON      `gorm:"type:json" json:"detail"`                     // 变更前后等附加信息
}

// TableName authz_audit_logs
func (AuthzAuditLog) TableName() string {
	return "authz_audit_logs"
}
