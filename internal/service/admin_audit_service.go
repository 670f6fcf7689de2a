package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/repository"
)

// 后台审计动作
const (
	AuditActionRoleGrant      = "role_grant"
	AuditActionRoleRevoke     = "role_revoke"
	AuditActionAdminRoles     = "admin_roles_set"
	AuditActionAdminDelete    = "admin_delete"
	AuditActionRoleDelete     = "role_delete"
	AuditActionSellerReview   = "seller_review"
	AuditActionListingReview  = "listing_review"
	AuditActionOrderStatus    = "order_status"
	AuditActionShowcaseUpdate = "showcase_update"
	AuditActionPreorderStatus = "preorder_status"
	AuditActionUserStatus     = "user_status"
)

// AuditResource 组装审计对象引用，如 seller:12
func AuditResource(kind string, id interface{}) string {
	return fmt.Sprintf("%s:%v", kind, id)
}

// AdminAuditEntry 一条后台操作审计
type AdminAuditEntry struct {
	AdminID   uint
	Username  string
	TargetID  *uint
	Target    string
	Action    string
	Resource  string
	Role      string
	Path      string
	Method    string
	RequestID string
	Detail    models.JSON
}

// AdminAuditService 后台权限变更与审核操作审计
type AdminAuditService struct {
	repo repository.AuthzAuditLogRepository
}

// NewAdminAuditService 创建审计服务
func NewAdminAuditService(repo repository.AuthzAuditLogRepository) *AdminAuditService {
	return &AdminAuditService{repo: repo}
}

// Record 写入审计；写入失败只记日志，不影响业务操作
func (s *AdminAuditService) Record(entry AdminAuditEntry) {
	if s == nil || s.repo == nil || entry.AdminID == 0 {
		return
	}
	action := strings.TrimSpace(entry.Action)
	if action == "" {
		return
	}
	err := s.repo.Create(&models.AuthzAuditLog{
		OperatorAdminID:  entry.AdminID,
		OperatorUsername: strings.TrimSpace(entry.Username),
		TargetAdminID:    entry.TargetID,
		TargetUsername:   strings.TrimSpace(entry.Target),
		Action:           action,
		Resource:         strings.TrimSpace(entry.Resource),
		Role:             strings.TrimSpace(entry.Role),
		Object:           strings.TrimSpace(entry.Path),
		Method:           strings.ToUpper(strings.TrimSpace(entry.Method)),
		RequestID:        strings.TrimSpace(entry.RequestID),
		DetailJSON:       entry.Detail,
		CreatedAt:        time.Now(),
	})
	if err != nil {
		logger.Warnw("admin_audit_record_failed", "admin_id", entry.AdminID, "action", action, "error", err)
	}
}

// List 管理端查询审计日志
func (s *AdminAuditService) List(filter repository.AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.AuthzAuditLog{}, 0, nil
	}
	return s.repo.ListAdmin(filter)
}
