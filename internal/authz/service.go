package authz

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	ruleTable     = "casbin_rule"
	apiPrefix     = "/api/v1"
	adminSubject  = "admin:"
	rolePrefix    = "role:"
	roleRegistry  = "role:__registry__"
	groupingPType = "g"
	wildcardVerb  = "*"
)

// 管理员通过 g 继承角色；角色之间也可继承；对象按 gin 路径模式匹配
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (r.sub == p.sub || g(r.sub, p.sub)) && keyMatch2(r.obj, p.obj) && (p.act == "*" || r.act == p.act)
`

var (
	// ErrUnavailable 授权服务未初始化
	ErrUnavailable = errors.New("authz service unavailable")
	// ErrReservedRole 内部保留角色不可操作
	ErrReservedRole = errors.New("reserved role is not allowed")
	errRoleRequired = errors.New("role is required")
	errAdminID      = errors.New("admin id is required")
)

// Policy 一条 (主体, 路由, 方法) 授权规则
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service 后台路由级 RBAC，规则持久化在 casbin_rule 表
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 基于 gorm 连接加载规则
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("authz: nil db")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", ruleTable)
	if err != nil {
		return nil, fmt.Errorf("authz adapter: %w", err)
	}
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("authz model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("authz enforcer: %w", err)
	}
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz load policy: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

// with 在已初始化的 enforcer 上执行操作
func (s *Service) with(fn func(e *casbin.SyncedEnforcer) error) error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	return fn(s.enforcer)
}

// EnforceAdmin 判定管理员能否以 act 方法访问 obj 路由
func (s *Service) EnforceAdmin(adminID uint, obj, act string) (allowed bool, err error) {
	err = s.with(func(e *casbin.SyncedEnforcer) error {
		allowed, err = e.Enforce(SubjectForAdmin(adminID), NormalizeObject(obj), NormalizeAction(act))
		return err
	})
	return allowed, err
}

// EnsureRole 登记角色（挂到内部注册节点下），返回规范化名称
func (s *Service) EnsureRole(role string) (string, error) {
	name, err := assignableRole(role)
	if err != nil {
		return "", err
	}
	err = s.with(func(e *casbin.SyncedEnforcer) error {
		if _, err := e.AddNamedGroupingPolicy(groupingPType, name, roleRegistry); err != nil {
			return fmt.Errorf("register role %s: %w", name, err)
		}
		return nil
	})
	return name, err
}

// ListRoles 全部已登记或被引用的角色，按名称排序
func (s *Service) ListRoles() (roles []string, err error) {
	err = s.with(func(e *casbin.SyncedEnforcer) error {
		rules, err := e.GetFilteredNamedGroupingPolicy(groupingPType, 0)
		if err != nil {
			return fmt.Errorf("list roles: %w", err)
		}
		var names []string
		for _, rule := range rules {
			names = append(names, rule...)
		}
		roles = visibleRoles(names)
		return nil
	})
	return roles, err
}

// GrantRolePolicy 为角色添加路由规则，角色不存在时自动登记
func (s *Service) GrantRolePolicy(role, object, action string) error {
	name, err := s.EnsureRole(role)
	if err != nil {
		return err
	}
	verb := NormalizeAction(action)
	if verb == "" {
		return errors.New("action is required")
	}
	return s.with(func(e *casbin.SyncedEnforcer) error {
		if _, err := e.AddPolicy(name, NormalizeObject(object), verb); err != nil {
			return fmt.Errorf("grant %s %s to %s: %w", verb, object, name, err)
		}
		return nil
	})
}

// RevokeRolePolicy 删除角色的一条路由规则
func (s *Service) RevokeRolePolicy(role, object, action string) error {
	name, err := NormalizeRole(role)
	if err != nil {
		return err
	}
	return s.with(func(e *casbin.SyncedEnforcer) error {
		if _, err := e.RemovePolicy(name, NormalizeObject(object), NormalizeAction(action)); err != nil {
			return fmt.Errorf("revoke %s %s from %s: %w", action, object, name, err)
		}
		return nil
	})
}

// GetRolePolicies 角色自身的规则（不含继承）
func (s *Service) GetRolePolicies(role string) (policies []Policy, err error) {
	name, err := NormalizeRole(role)
	if err != nil {
		return nil, err
	}
	err = s.with(func(e *casbin.SyncedEnforcer) error {
		rules, err := e.GetFilteredPolicy(0, name)
		if err != nil {
			return fmt.Errorf("role policies: %w", err)
		}
		policies = toPolicies(rules)
		return nil
	})
	return policies, err
}

// DeleteRole 删除角色及其规则和所有分配
func (s *Service) DeleteRole(role string) error {
	name, err := assignableRole(role)
	if err != nil {
		return err
	}
	return s.with(func(e *casbin.SyncedEnforcer) error {
		if _, err := e.DeleteRole(name); err != nil {
			return fmt.Errorf("delete role %s: %w", name, err)
		}
		return nil
	})
}

// GetAdminPolicies 管理员经角色继承得到的全部规则
func (s *Service) GetAdminPolicies(adminID uint) (policies []Policy, err error) {
	if adminID == 0 {
		return nil, errAdminID
	}
	err = s.with(func(e *casbin.SyncedEnforcer) error {
		rules, err := e.GetImplicitPermissionsForUser(SubjectForAdmin(adminID))
		if err != nil {
			return fmt.Errorf("admin policies: %w", err)
		}
		policies = toPolicies(rules)
		return nil
	})
	return policies, err
}

// SetAdminRoles 以 roles 整体替换管理员的角色分配；roles 为空即收回全部角色
func (s *Service) SetAdminRoles(adminID uint, roles []string) error {
	if adminID == 0 {
		return errAdminID
	}
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		name, err := s.EnsureRole(role)
		if err != nil {
			return err
		}
		names = append(names, name)
	}
	subject := SubjectForAdmin(adminID)
	return s.with(func(e *casbin.SyncedEnforcer) error {
		if _, err := e.RemoveFilteredNamedGroupingPolicy(groupingPType, 0, subject); err != nil {
			return fmt.Errorf("clear roles of %s: %w", subject, err)
		}
		for _, name := range names {
			if _, err := e.AddNamedGroupingPolicy(groupingPType, subject, name); err != nil {
				return fmt.Errorf("assign %s to %s: %w", name, subject, err)
			}
		}
		return nil
	})
}

// GetAdminRoles 管理员直接分配的角色
func (s *Service) GetAdminRoles(adminID uint) (roles []string, err error) {
	if adminID == 0 {
		return nil, errAdminID
	}
	err = s.with(func(e *casbin.SyncedEnforcer) error {
		direct, err := e.GetRolesForUser(SubjectForAdmin(adminID))
		if err != nil {
			return fmt.Errorf("admin roles: %w", err)
		}
		roles = visibleRoles(direct)
		return nil
	})
	return roles, err
}

// visibleRoles 过滤出去重排序后的业务角色
func visibleRoles(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !strings.HasPrefix(name, rolePrefix) || name == roleRegistry {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func toPolicies(rules [][]string) []Policy {
	out := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		out = append(out, Policy{
			Subject: strings.TrimSpace(rule[0]),
			Object:  NormalizeObject(rule[1]),
			Action:  NormalizeAction(rule[2]),
		})
	}
	return out
}

func assignableRole(role string) (string, error) {
	name, err := NormalizeRole(role)
	if err != nil {
		return "", err
	}
	if name == roleRegistry {
		return "", ErrReservedRole
	}
	return name, nil
}

// SubjectForAdmin casbin 中的管理员主体，如 admin:7
func SubjectForAdmin(adminID uint) string {
	return adminSubject + strconv.FormatUint(uint64(adminID), 10)
}

// NormalizeRole 空格转下划线并补齐 role: 前缀
func NormalizeRole(role string) (string, error) {
	name := strings.Join(strings.Fields(role), "_")
	name = strings.TrimPrefix(name, rolePrefix)
	if name == "" {
		return "", errRoleRequired
	}
	return rolePrefix + name, nil
}

// NormalizeObject 路由统一为以 / 开头且不带 /api/v1 前缀
func NormalizeObject(object string) string {
	path := strings.TrimSpace(object)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	switch {
	case path == apiPrefix:
		return "/"
	case strings.HasPrefix(path, apiPrefix+"/"):
		return path[len(apiPrefix):]
	}
	return path
}

// NormalizeAction HTTP 方法大写；* 表示任意方法
func NormalizeAction(action string) string {
	verb := strings.ToUpper(strings.TrimSpace(action))
	if verb == "ANY" {
		return wildcardVerb
	}
	return verb
}
