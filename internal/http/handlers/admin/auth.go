package admin

import (
	"errors"
	"time"

	handlershared "github.com/ram-us/internal/http/handlers/shared"
	"github.com/ram-us/internal/http/response"
	"github.com/ram-us/internal/i18n"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/service"

	"github.com/gin-gonic/gin"
)

type credentialsPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type passwordChangePayload struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type adminView struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	IsSuper     bool       `json:"is_super"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	Roles       []string   `json:"roles,omitempty"`
}

func viewAdmin(admin *models.Admin, roles []string) adminView {
	return adminView{
		ID:          admin.ID,
		Username:    admin.Username,
		IsSuper:     admin.IsSuper,
		LastLoginAt: admin.LastLoginAt,
		CreatedAt:   admin.CreatedAt,
		Roles:       roles,
	}
}

var (
	loginErrorRules = []handlershared.MappedError{
		{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.login_invalid"},
	}
	passwordErrorRules = []handlershared.MappedError{
		{Target: service.ErrInvalidPassword, Code: response.CodeBadRequest, Key: "error.password_invalid"},
		{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
	}
	createAdminErrorRules = []handlershared.MappedError{
		{Target: service.ErrAdminExists, Code: response.CodeConflict, Key: "error.admin_exists"},
		{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
	}
	deleteAdminErrorRules = []handlershared.MappedError{
		{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
		{Target: service.ErrInvalidInput, Code: response.CodeForbidden, Key: "error.forbidden"},
	}
)

// AdminLogin POST /admin/login
func (h *Handler) AdminLogin(c *gin.Context) {
	var req credentialsPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	admin, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password, c.ClientIP())
	if err != nil {
		respondWithMappedError(c, err, loginErrorRules)
		return
	}
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
		"user":       viewAdmin(admin, nil),
	})
}

// UpdateAdminPassword PUT /admin/password；成功后旧 Token 全部失效
func (h *Handler) UpdateAdminPassword(c *gin.Context) {
	id, ok := getAdminID(c)
	if !ok {
		return
	}
	var req passwordChangePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthService.ChangePassword(id, req.OldPassword, req.NewPassword); err != nil {
		h.respondAccountError(c, err, passwordErrorRules)
		return
	}
	response.Success(c, nil)
}

// ListAdmins GET /admin/admins，附带各自角色
func (h *Handler) ListAdmins(c *gin.Context) {
	admins, err := h.AuthService.ListAdmins()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	views := make([]adminView, 0, len(admins))
	for i := range admins {
		roles, err := h.AuthzService.GetAdminRoles(admins[i].ID)
		if err != nil {
			respondAuthzError(c, err)
			return
		}
		views = append(views, viewAdmin(&admins[i], roles))
	}
	response.Success(c, views)
}

// CreateAdmin POST /admin/admins
func (h *Handler) CreateAdmin(c *gin.Context) {
	var req credentialsPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	admin, err := h.AuthService.CreateAdmin(req.Username, req.Password)
	if err != nil {
		h.respondAccountError(c, err, createAdminErrorRules)
		return
	}
	requestLog(c).Infow("admin_created", "operator_admin_id", currentAdminID(c), "target_admin_id", admin.ID)
	response.Success(c, viewAdmin(admin, nil))
}

// DeleteAdmin DELETE /admin/admins/:id；不能删除自己或超级管理员
func (h *Handler) DeleteAdmin(c *gin.Context) {
	adminID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if adminID == currentAdminID(c) {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.AuthService.DeleteAdmin(adminID); err != nil {
		respondWithMappedError(c, err, deleteAdminErrorRules)
		return
	}
	if err := h.AuthzService.SetAdminRoles(adminID, nil); err != nil {
		requestLog(c).Warnw("admin_delete_clear_roles_failed", "target_admin_id", adminID, "error", err)
	}
	h.recordAudit(c, service.AdminAuditEntry{
		TargetID: &adminID,
		Action:   service.AuditActionAdminDelete,
		Detail:   models.JSON{"target_admin_id": adminID},
	})
	response.Success(c, nil)
}

// respondAccountError 密码过短时带上最小长度
func (h *Handler) respondAccountError(c *gin.Context, err error, rules []handlershared.MappedError) {
	if errors.Is(err, service.ErrPasswordTooShort) {
		msg := i18n.Sprintf(i18n.ResolveLocale(c), "error.password_min_length", service.MinPasswordLength)
		respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
		return
	}
	respondWithMappedError(c, err, rules)
}
