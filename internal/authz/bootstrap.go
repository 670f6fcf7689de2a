package authz

import (
	"fmt"

	"github.com/casbin/casbin/v3"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "readonly",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
		},
		{
			Role:     "catalog_manager",
			Inherits: []string{"readonly"},
			Policies: []Policy{
				{Object: "/admin/products", Action: "*"},
				{Object: "/admin/products/:id", Action: "*"},
				{Object: "/admin/categories", Action: "*"},
				{Object: "/admin/categories/:id", Action: "*"},
				{Object: "/admin/showcase", Action: "PUT"},
			},
		},
		{
			Role:     "order_manager",
			Inherits: []string{"readonly"},
			Policies: []Policy{
				{Object: "/admin/orders/:order_no/status", Action: "PATCH"},
				{Object: "/admin/preorders/:id", Action: "PATCH"},
			},
		},
		{
			Role:     "marketplace_moderator",
			Inherits: []string{"readonly"},
			Policies: []Policy{
				{Object: "/admin/sellers/:id/status", Action: "PATCH"},
				{Object: "/admin/listings/:id/status", Action: "PATCH"},
				{Object: "/admin/listings/:id", Action: "DELETE"},
			},
		},
	}
}

// BootstrapBuiltinRoles 写入预置角色、继承关系与规则；重复执行无副作用
func (s *Service) BootstrapBuiltinRoles() error {
	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}
		err = s.with(func(e *casbin.SyncedEnforcer) error {
			for _, parent := range seed.Inherits {
				parentRole, err := NormalizeRole(parent)
				if err != nil {
					return err
				}
				if _, err := e.AddNamedGroupingPolicy(groupingPType, role, parentRole); err != nil {
					return fmt.Errorf("inherit %s from %s: %w", role, parentRole, err)
				}
			}
			for _, policy := range seed.Policies {
				if _, err := e.AddPolicy(role, NormalizeObject(policy.Object), NormalizeAction(policy.Action)); err != nil {
					return fmt.Errorf("seed %s policy: %w", role, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
