package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds 门店后台预置角色矩阵
// 值班审计只读全局；菜单、营销、客服各管一摊并继承只读。
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "readonly_auditor",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     "menu_manager",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/categories", Action: "*"},
				{Object: "/admin/categories/:id", Action: "*"},
				{Object: "/admin/products", Action: "*"},
				{Object: "/admin/products/:id", Action: "*"},
				{Object: "/admin/products/:id/active", Action: "*"},
				{Object: "/admin/products/:id/variants", Action: "*"},
				{Object: "/admin/variants/:id", Action: "*"},
			},
			Immutable: true,
		},
		{
			Role:     "marketing",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/promotions", Action: "*"},
				{Object: "/admin/promotions/:id", Action: "*"},
				{Object: "/admin/promotions/trash", Action: "GET"},
				{Object: "/admin/promotions/:id/restore", Action: "POST"},
				{Object: "/admin/promotions/:id/purge", Action: "DELETE"},
			},
			Immutable: true,
		},
		{
			Role:     "support",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/orders", Action: "GET"},
				{Object: "/admin/orders/:id", Action: "GET"},
				{Object: "/admin/orders/:id/status", Action: "PATCH"},
				{Object: "/admin/users", Action: "GET"},
				{Object: "/admin/users/:id", Action: "GET"},
				{Object: "/admin/tickets", Action: "*"},
				{Object: "/admin/tickets/:id", Action: "*"},
				{Object: "/admin/tickets/:id/reply", Action: "POST"},
				{Object: "/admin/tickets/:id/close", Action: "POST"},
			},
			Immutable: true,
		},
	}
}

// IsBuiltinRole 判断归一化角色名是否为不可删除的预置角色
func IsBuiltinRole(role string) bool {
	for _, seed := range BuiltinRoleSeeds() {
		if !seed.Immutable {
			continue
		}
		normalized, err := NormalizeRole(seed.Role)
		if err != nil {
			continue
		}
		if normalized == role {
			return true
		}
	}
	return false
}

// BootstrapBuiltinRoles 初始化预置角色、继承关系与默认策略
// 幂等：重复启动只补齐缺失的规则。
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.guard(); err != nil {
		return err
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return fmt.Errorf("ensure builtin role %s failed: %w", seed.Role, err)
		}

		for _, parent := range seed.Inherits {
			parentRole, err := s.EnsureRole(parent)
			if err != nil {
				return fmt.Errorf("ensure parent role %s failed: %w", parent, err)
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(role, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("seed builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
