package repository

import (
	"github.com/ram-us/internal/models"

	"gorm.io/gorm"
)

// AuthzAuditLogRepository 后台操作审计
type AuthzAuditLogRepository interface {
	Create(log *models.AuthzAuditLog) error
	ListAdmin(filter AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error)
}

// GormAuthzAuditLogRepository GORM 实现
type GormAuthzAuditLogRepository struct {
	db *gorm.DB
}

// NewAuthzAuditLogRepository 创建审计日志仓库
func NewAuthzAuditLogRepository(db *gorm.DB) *GormAuthzAuditLogRepository {
	return &GormAuthzAuditLogRepository{db: db}
}

// Create 追加一条记录，审计不可修改
func (r *GormAuthzAuditLogRepository) Create(entry *models.AuthzAuditLog) error {
	if entry == nil {
		return nil
	}
	return r.db.Create(entry).Error
}

// ListAdmin 后台分页查询，新记录在前
func (r *GormAuthzAuditLogRepository) ListAdmin(filter AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error) {
	query := r.db.Model(&models.AuthzAuditLog{}).Scopes(
		eq("operator_admin_id", filter.OperatorAdminID),
		eq("target_admin_id", filter.TargetAdminID),
		eq("action", filter.Action),
		eq("resource", filter.Resource),
		eq("role", filter.Role),
		eq("object", filter.Object),
		eq("method", filter.Method),
		createdBetween(filter.CreatedFrom, filter.CreatedTo),
	)
	return pageOf[models.AuthzAuditLog](query, filter.Page, filter.PageSize, "id DESC")
}
