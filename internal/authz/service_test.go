package authz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

type access struct {
	admin  uint
	method string
	path   string
	want   bool
}

func assertAccess(t *testing.T, svc *Service, checks []access) {
	t.Helper()
	for _, c := range checks {
		got, err := svc.EnforceAdmin(c.admin, c.path, c.method)
		if err != nil {
			t.Fatalf("enforce admin=%d %s %s: %v", c.admin, c.method, c.path, err)
		}
		if got != c.want {
			t.Fatalf("admin=%d %s %s: want %v got %v", c.admin, c.method, c.path, c.want, got)
		}
	}
}

func TestRoleGrantMatchesRoutePattern(t *testing.T) {
	svc := newTestService(t)
	if err := svc.GrantRolePolicy("stock keeper", "/api/v1/admin/products/:id", "get"); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := svc.SetAdminRoles(1, []string{"stock keeper"}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	assertAccess(t, svc, []access{
		{admin: 1, method: "GET", path: "/api/v1/admin/products/42", want: true},
		{admin: 1, method: "get", path: "admin/products/42", want: true},
		{admin: 1, method: "DELETE", path: "/api/v1/admin/products/42", want: false},
		{admin: 2, method: "GET", path: "/api/v1/admin/products/42", want: false},
	})

	roles, err := svc.GetAdminRoles(1)
	if err != nil || len(roles) != 1 || roles[0] != "role:stock_keeper" {
		t.Fatalf("roles = %v err=%v", roles, err)
	}
}

func TestWildcardAction(t *testing.T) {
	svc := newTestService(t)
	if err := svc.GrantRolePolicy("catalog", "/admin/categories/:id", "any"); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := svc.SetAdminRoles(4, []string{"catalog"}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	assertAccess(t, svc, []access{
		{admin: 4, method: "PUT", path: "/api/v1/admin/categories/3", want: true},
		{admin: 4, method: "DELETE", path: "/api/v1/admin/categories/3", want: true},
		{admin: 4, method: "GET", path: "/api/v1/admin/categories", want: false},
	})
}

func TestSetAdminRolesReplacesAssignment(t *testing.T) {
	svc := newTestService(t)
	if err := svc.GrantRolePolicy("orders", "/admin/orders", "GET"); err != nil {
		t.Fatalf("grant orders: %v", err)
	}
	if err := svc.GrantRolePolicy("sellers", "/admin/sellers", "GET"); err != nil {
		t.Fatalf("grant sellers: %v", err)
	}
	if err := svc.SetAdminRoles(2, []string{"orders"}); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	if err := svc.SetAdminRoles(2, []string{"sellers", "sellers"}); err != nil {
		t.Fatalf("second assign: %v", err)
	}
	roles, err := svc.GetAdminRoles(2)
	if err != nil || len(roles) != 1 || roles[0] != "role:sellers" {
		t.Fatalf("roles = %v err=%v", roles, err)
	}
	assertAccess(t, svc, []access{
		{admin: 2, method: "GET", path: "/admin/orders", want: false},
		{admin: 2, method: "GET", path: "/admin/sellers", want: true},
	})

	if err := svc.SetAdminRoles(2, nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if roles, _ := svc.GetAdminRoles(2); len(roles) != 0 {
		t.Fatalf("roles should be cleared, got %v", roles)
	}
}

func TestBuiltinRoles(t *testing.T) {
	svc := newTestService(t)
	for i := 0; i < 2; i++ {
		if err := svc.BootstrapBuiltinRoles(); err != nil {
			t.Fatalf("bootstrap run %d: %v", i, err)
		}
	}
	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles: %v", err)
	}
	want := []string{"role:catalog_manager", "role:marketplace_moderator", "role:order_manager", "role:readonly"}
	if strings.Join(roles, ",") != strings.Join(want, ",") {
		t.Fatalf("roles = %v, want %v", roles, want)
	}

	if err := svc.SetAdminRoles(3, []string{"marketplace_moderator"}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := svc.SetAdminRoles(6, []string{"order_manager"}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	assertAccess(t, svc, []access{
		{admin: 3, method: "GET", path: "/api/v1/admin/orders", want: true},
		{admin: 3, method: "PATCH", path: "/api/v1/admin/sellers/7/status", want: true},
		{admin: 3, method: "DELETE", path: "/api/v1/admin/listings/9", want: true},
		{admin: 3, method: "PUT", path: "/api/v1/admin/products/1", want: false},
		{admin: 3, method: "PATCH", path: "/api/v1/admin/orders/RU1/status", want: false},
		{admin: 6, method: "PATCH", path: "/api/v1/admin/orders/RU1/status", want: true},
		{admin: 6, method: "PATCH", path: "/api/v1/admin/preorders/5", want: true},
		{admin: 6, method: "PUT", path: "/api/v1/admin/showcase", want: false},
	})
}

func TestDeleteRoleRevokesAccess(t *testing.T) {
	svc := newTestService(t)
	if err := svc.GrantRolePolicy("ops", "/admin/orders", "GET"); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := svc.SetAdminRoles(5, []string{"ops"}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	policies, err := svc.GetAdminPolicies(5)
	if err != nil {
		t.Fatalf("admin policies: %v", err)
	}
	if len(policies) != 1 || policies[0] != (Policy{Subject: "role:ops", Object: "/admin/orders", Action: "GET"}) {
		t.Fatalf("unexpected policies %+v", policies)
	}

	if err := svc.DeleteRole("role:ops"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	assertAccess(t, svc, []access{{admin: 5, method: "GET", path: "/admin/orders", want: false}})
	if roles, _ := svc.GetAdminRoles(5); len(roles) != 0 {
		t.Fatalf("roles should be empty, got %v", roles)
	}
	if left, _ := svc.GetRolePolicies("ops"); len(left) != 0 {
		t.Fatalf("role policies should be gone, got %+v", left)
	}
}

func TestRevokeRolePolicy(t *testing.T) {
	svc := newTestService(t)
	_ = svc.GrantRolePolicy("ops", "/admin/orders", "GET")
	_ = svc.GrantRolePolicy("ops", "/admin/orders/:order_no/status", "PATCH")
	if err := svc.RevokeRolePolicy("ops", "/api/v1/admin/orders", "get"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	left, err := svc.GetRolePolicies("ops")
	if err != nil || len(left) != 1 || left[0].Action != "PATCH" {
		t.Fatalf("left = %+v err=%v", left, err)
	}
}

func TestInvalidInput(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.EnsureRole("  "); !errors.Is(err, errRoleRequired) {
		t.Fatalf("blank role: %v", err)
	}
	if _, err := svc.EnsureRole("__registry__"); !errors.Is(err, ErrReservedRole) {
		t.Fatalf("reserved ensure: %v", err)
	}
	if err := svc.DeleteRole("role:__registry__"); !errors.Is(err, ErrReservedRole) {
		t.Fatalf("reserved delete: %v", err)
	}
	if err := svc.GrantRolePolicy("ops", "/admin/orders", " "); err == nil {
		t.Fatalf("blank action should fail")
	}
	if err := svc.SetAdminRoles(0, []string{"ops"}); !errors.Is(err, errAdminID) {
		t.Fatalf("zero admin: %v", err)
	}
}

func TestNormalizers(t *testing.T) {
	objects := map[string]string{
		"/api/v1/admin/orders/:id": "/admin/orders/:id",
		"/admin/orders/:id":        "/admin/orders/:id",
		"admin/orders":             "/admin/orders",
		"/api/v1":                  "/",
		"":                         "/",
		"/api/v1x":                 "/api/v1x",
	}
	for in, want := range objects {
		if got := NormalizeObject(in); got != want {
			t.Fatalf("NormalizeObject(%q) = %q, want %q", in, got, want)
		}
	}
	if got, _ := NormalizeRole(" order  desk "); got != "role:order_desk" {
		t.Fatalf("NormalizeRole = %q", got)
	}
	if got := SubjectForAdmin(12); got != "admin:12" {
		t.Fatalf("SubjectForAdmin = %q", got)
	}
}

func TestNilServiceIsUnavailable(t *testing.T) {
	var svc *Service
	if _, err := svc.EnforceAdmin(1, "/admin/orders", "GET"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, err := svc.ListRoles(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
