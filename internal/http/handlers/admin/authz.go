package admin

import (
	"errors"
	"net/url"
	"strings"

	"github.com/ram-us/internal/authz"
	"github.com/ram-us/internal/http/response"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/service"

	"github.com/gin-gonic/gin"
)

type rolePayload struct {
	Role string `json:"role" binding:"required"`
}

type policyPayload struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

type adminRolesPayload struct {
	Roles []string `json:"roles"`
}

// respondAuthzError 服务未就绪为 500，其余视为角色参数错误
func respondAuthzError(c *gin.Context, err error) {
	if errors.Is(err, authz.ErrUnavailable) {
		respondError(c, response.CodeInternal, "error.authz_unavailable", err)
		return
	}
	respondError(c, response.CodeBadRequest, "error.role_invalid", err)
}

// roleParam 读取路径中的角色名（允许 role%3Aops 形式）
func roleParam(c *gin.Context) (string, bool) {
	raw := c.Param("role")
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	role := strings.TrimSpace(raw)
	if role == "" {
		respondError(c, response.CodeBadRequest, "error.role_invalid", nil)
		return "", false
	}
	return role, true
}

// GetAuthzMe 当前管理员的角色与展开后的规则
func (h *Handler) GetAuthzMe(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		respondAuthzError(c, err)
		return
	}
	policies, err := h.AuthzService.GetAdminPolicies(adminID)
	if err != nil {
		respondAuthzError(c, err)
		return
	}
	isSuper, _ := c.Get("admin_is_super")
	super, _ := isSuper.(bool)
	response.Success(c, gin.H{
		"admin_id": adminID,
		"is_super": super,
		"roles":    roles,
		"policies": policies,
	})
}

// ListAuthzRoles GET /admin/authz/roles
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondAuthzError(c, err)
		return
	}
	response.Success(c, roles)
}

// CreateAuthzRole POST /admin/authz/roles
func (h *Handler) CreateAuthzRole(c *gin.Context) {
	var req rolePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		respondAuthzError(c, err)
		return
	}
	logger.Infow("authz_role_created", "operator_admin_id", currentAdminID(c), "role", role)
	response.Success(c, gin.H{"role": role})
}

// DeleteAuthzRole DELETE /admin/authz/roles/:role
func (h *Handler) DeleteAuthzRole(c *gin.Context) {
	role, ok := roleParam(c)
	if !ok {
		return
	}
	if err := h.AuthzService.DeleteRole(role); err != nil {
		respondAuthzError(c, err)
		return
	}
	h.recordAudit(c, service.AdminAuditEntry{
		Action: service.AuditActionRoleDelete,
		Role:   role,
		Detail: models.JSON{"role": role},
	})
	response.Success(c, nil)
}

// GetAuthzRolePolicies GET /admin/authz/roles/:role/policies
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role, ok := roleParam(c)
	if !ok {
		return
	}
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondAuthzError(c, err)
		return
	}
	response.Success(c, policies)
}

// GrantAuthzPolicy POST /admin/authz/policies
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	h.applyPolicy(c, service.AuditActionRoleGrant, h.AuthzService.GrantRolePolicy)
}

// RevokeAuthzPolicy DELETE /admin/authz/policies
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	h.applyPolicy(c, service.AuditActionRoleRevoke, h.AuthzService.RevokeRolePolicy)
}

func (h *Handler) applyPolicy(c *gin.Context, auditAction string, apply func(role, object, action string) error) {
	var req policyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := apply(req.Role, req.Object, req.Action); err != nil {
		respondAuthzError(c, err)
		return
	}
	role, _ := authz.NormalizeRole(req.Role)
	object := authz.NormalizeObject(req.Object)
	method := authz.NormalizeAction(req.Action)
	h.recordAudit(c, service.AdminAuditEntry{
		Action: auditAction,
		Role:   role,
		Path:   object,
		Method: method,
		Detail: models.JSON{"role": role, "object": object, "method": method},
	})
	response.Success(c, nil)
}

// GetAuthzAdminRoles GET /admin/authz/admins/:id/roles
func (h *Handler) GetAuthzAdminRoles(c *gin.Context) {
	adminID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		respondAuthzError(c, err)
		return
	}
	response.Success(c, roles)
}

// SetAuthzAdminRoles PUT /admin/authz/admins/:id/roles，整体替换
func (h *Handler) SetAuthzAdminRoles(c *gin.Context) {
	adminID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req adminRolesPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	target, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if target == nil {
		respondError(c, response.CodeBadRequest, "error.admin_id_invalid", nil)
		return
	}
	if err := h.AuthzService.SetAdminRoles(adminID, req.Roles); err != nil {
		respondAuthzError(c, err)
		return
	}
	h.recordAudit(c, service.AdminAuditEntry{
		TargetID: &adminID,
		Target:   target.Username,
		Action:   service.AuditActionAdminRoles,
		Detail:   models.JSON{"target_admin_id": adminID, "roles": req.Roles},
	})
	response.Success(c, nil)
}
