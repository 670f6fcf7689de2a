package admin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/ram-us/internal/authz"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/provider"
	"github.com/ram-us/internal/repository"
	"github.com/ram-us/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzHandlerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:admin_authz_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	authzService, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("authz service failed: %v", err)
	}
	h := New(&provider.Container{
		AdminRepo:         repository.NewAdminRepository(db),
		AuthzService:      authzService,
		AdminAuditService: service.NewAdminAuditService(repository.NewAuthzAuditLogRepository(db)),
	})

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("admin_id", uint(1))
		c.Set("username", "owner")
		c.Set("admin_is_super", true)
		c.Next()
	})
	r.GET("/admin/authz/me", h.GetAuthzMe)
	r.POST("/admin/authz/policies", h.GrantAuthzPolicy)
	r.DELETE("/admin/authz/roles/:role", h.DeleteAuthzRole)
	r.GET("/admin/authz/roles/:role/policies", h.GetAuthzRolePolicies)
	r.PUT("/admin/authz/admins/:id/roles", h.SetAuthzAdminRoles)
	r.GET("/admin/authz/audit-logs", h.ListAuditLogs)
	return r, db
}

func TestGrantPolicyAndAssignRoles(t *testing.T) {
	r, db := setupAuthzHandlerTest(t)
	target := &models.Admin{Username: "picker", PasswordHash: "x"}
	if err := db.Create(target).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}

	env := doJSON(t, r, http.MethodPost, "/admin/authz/policies", `{"role":"warehouse","object":"/api/v1/admin/orders","action":"get"}`)
	if env.StatusCode != 0 {
		t.Fatalf("grant failed: %+v", env)
	}
	env = doJSON(t, r, http.MethodGet, "/admin/authz/roles/role%3Awarehouse/policies", "")
	var policies []authz.Policy
	if err := json.Unmarshal(env.Data, &policies); err != nil {
		t.Fatalf("decode policies failed: %v", err)
	}
	if len(policies) != 1 || policies[0].Object != "/admin/orders" || policies[0].Action != "GET" {
		t.Fatalf("unexpected policies %+v", policies)
	}

	path := fmt.Sprintf("/admin/authz/admins/%d/roles", target.ID)
	if env := doJSON(t, r, http.MethodPut, path, `{"roles":["warehouse"]}`); env.StatusCode != 0 {
		t.Fatalf("set roles failed: %+v", env)
	}
	if env := doJSON(t, r, http.MethodPut, "/admin/authz/admins/999/roles", `{"roles":["warehouse"]}`); env.StatusCode != 400 {
		t.Fatalf("unknown admin should be rejected, got %+v", env)
	}

	var logs []models.AuthzAuditLog
	if err := db.Order("id asc").Find(&logs).Error; err != nil {
		t.Fatalf("query audit failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected two audit rows, got %+v", logs)
	}
	if logs[0].Action != service.AuditActionRoleGrant || logs[0].Role != "role:warehouse" || logs[0].Object != "/admin/orders" || logs[0].Method != "GET" {
		t.Fatalf("unexpected grant audit %+v", logs[0])
	}
	if logs[1].Action != service.AuditActionAdminRoles || logs[1].TargetUsername != "picker" || logs[1].TargetAdminID == nil || *logs[1].TargetAdminID != target.ID {
		t.Fatalf("unexpected roles audit %+v", logs[1])
	}

	env = doJSON(t, r, http.MethodGet, "/admin/authz/audit-logs?action=role_grant", "")
	if env.StatusCode != 0 {
		t.Fatalf("list audit failed: %+v", env)
	}
	var listed []models.AuthzAuditLog
	if err := json.Unmarshal(env.Data, &listed); err != nil {
		t.Fatalf("decode audit list failed: %v", err)
	}
	if len(listed) != 1 || listed[0].OperatorUsername != "owner" {
		t.Fatalf("unexpected audit list %+v", listed)
	}
}

func TestAuthzHandlerErrors(t *testing.T) {
	r, _ := setupAuthzHandlerTest(t)

	if env := doJSON(t, r, http.MethodPost, "/admin/authz/policies", `{"role":"ops"}`); env.StatusCode != 400 {
		t.Fatalf("missing fields should be bad request, got %+v", env)
	}
	if env := doJSON(t, r, http.MethodDelete, "/admin/authz/roles/__registry__", ""); env.StatusCode != 400 {
		t.Fatalf("reserved role should be rejected, got %+v", env)
	}
	if env := doJSON(t, r, http.MethodGet, "/admin/authz/audit-logs?created_from=yesterday", ""); env.StatusCode != 400 {
		t.Fatalf("bad date should be rejected, got %+v", env)
	}

	env := doJSON(t, r, http.MethodGet, "/admin/authz/me", "")
	var me struct {
		AdminID uint     `json:"admin_id"`
		IsSuper bool     `json:"is_super"`
		Roles   []string `json:"roles"`
	}
	if err := json.Unmarshal(env.Data, &me); err != nil {
		t.Fatalf("decode me failed: %v", err)
	}
	if me.AdminID != 1 || !me.IsSuper || len(me.Roles) != 0 {
		t.Fatalf("unexpected me %+v", me)
	}
}

func TestAuthzUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(&provider.Container{})
	r := gin.New()
	r.GET("/admin/authz/roles", h.ListAuthzRoles)
	if env := doJSON(t, r, http.MethodGet, "/admin/authz/roles", ""); env.StatusCode != 500 {
		t.Fatalf("nil authz service should be 500, got %+v", env)
	}
}
