package authz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	apiV1Prefix     = "/api/v1"
	casbinTableName = "casbin_rule"
	adminSubjectFmt = "admin:%d"
	rolePrefix      = "role:"

	// roleAnchor 角色存在性锚点：空角色也要能被列出和删除
	roleAnchor = "role:__anchor__"
)

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
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// Policy 权限策略（角色 × 后台资源 × HTTP 动作）
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

func (p Policy) key() string {
	return p.Subject + "|" + p.Object + "|" + p.Action
}

// Service 门店后台访问控制服务
// 管理员经角色获得对各后台模块（菜单/促销/订单/顾客/工单）的访问权，
// 资源是归一化后的后台路由，动作是 HTTP 方法。
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建访问控制服务（策略持久化到业务库的 casbin_rule 表）
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}

	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("authz adapter init failed: %w", err)
	}
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("authz model load failed: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("authz enforcer init failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz policy load failed: %w", err)
	}

	return &Service{enforcer: enforcer}, nil
}

func (s *Service) guard() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	return nil
}

// Enforce 执行授权判断
func (s *Service) Enforce(sub, obj, act string) (bool, error) {
	if err := s.guard(); err != nil {
		return false, err
	}
	return s.enforcer.Enforce(strings.TrimSpace(sub), NormalizeObject(obj), NormalizeAction(act))
}

// EnforceAdmin 按管理员 ID 判定授权
func (s *Service) EnforceAdmin(adminID uint, obj, act string) (bool, error) {
	return s.Enforce(SubjectForAdmin(adminID), obj, act)
}

func (s *Service) roleExists(name string) (bool, error) {
	exists, err := s.enforcer.HasNamedGroupingPolicy("g", name, roleAnchor)
	if err != nil {
		return false, fmt.Errorf("authz role lookup failed: %w", err)
	}
	return exists, nil
}

// EnsureRole 确保角色存在，返回归一化后的角色名
func (s *Service) EnsureRole(role string) (string, error) {
	name, err := NormalizeRole(role)
	if err != nil {
		return "", err
	}
	if name == roleAnchor {
		return "", fmt.Errorf("reserved role is not allowed")
	}
	if err := s.guard(); err != nil {
		return "", err
	}

	exists, err := s.roleExists(name)
	if err != nil {
		return "", err
	}
	if !exists {
		if _, err := s.enforcer.AddNamedGroupingPolicy("g", name, roleAnchor); err != nil {
			return "", fmt.Errorf("authz role create failed: %w", err)
		}
	}
	return name, nil
}

// ListRoles 列出全部角色
func (s *Service) ListRoles() ([]string, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	rows, err := s.enforcer.GetFilteredNamedGroupingPolicy("g", 0)
	if err != nil {
		return nil, fmt.Errorf("authz role list failed: %w", err)
	}

	seen := map[string]struct{}{}
	roles := make([]string, 0, len(rows))
	for _, row := range rows {
		for _, value := range row {
			if !strings.HasPrefix(value, rolePrefix) || value == roleAnchor {
				continue
			}
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}
			roles = append(roles, value)
		}
	}
	sort.Strings(roles)
	return roles, nil
}

// DeleteRole 删除角色及其全部策略与绑定
// 系统预置角色（值班审计、菜单、营销、客服）不可删除。
func (s *Service) DeleteRole(role string) error {
	name, err := NormalizeRole(role)
	if err != nil {
		return err
	}
	if name == roleAnchor {
		return fmt.Errorf("reserved role is not allowed")
	}
	if IsBuiltinRole(name) {
		return fmt.Errorf("builtin role %s cannot be deleted", name)
	}
	if err := s.guard(); err != nil {
		return err
	}

	if _, err := s.enforcer.RemoveFilteredPolicy(0, name); err != nil {
		return fmt.Errorf("authz role policy purge failed: %w", err)
	}
	// 既清出边（本角色继承谁）也清入边（谁继承或绑定本角色）
	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", 0, name); err != nil {
		return fmt.Errorf("authz role link purge failed: %w", err)
	}
	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", 1, name); err != nil {
		return fmt.Errorf("authz role binding purge failed: %w", err)
	}
	return nil
}

// GrantRolePolicy 为角色授予策略（角色不存在时顺带创建）
func (s *Service) GrantRolePolicy(role, object, action string) error {
	name, err := s.EnsureRole(role)
	if err != nil {
		return err
	}
	act := NormalizeAction(action)
	if act == "" {
		return fmt.Errorf("action is required")
	}

	if _, err := s.enforcer.AddPolicy(name, NormalizeObject(object), act); err != nil {
		return fmt.Errorf("authz policy grant failed: %w", err)
	}
	return nil
}

// RevokeRolePolicy 撤销角色策略
func (s *Service) RevokeRolePolicy(role, object, action string) error {
	name, err := NormalizeRole(role)
	if err != nil {
		return err
	}
	act := NormalizeAction(action)
	if act == "" {
		return fmt.Errorf("action is required")
	}
	if err := s.guard(); err != nil {
		return err
	}

	if _, err := s.enforcer.RemovePolicy(name, NormalizeObject(object), act); err != nil {
		return fmt.Errorf("authz policy revoke failed: %w", err)
	}
	return nil
}

// GetRolePolicies 查询角色直接持有的策略
func (s *Service) GetRolePolicies(role string) ([]Policy, error) {
	name, err := NormalizeRole(role)
	if err != nil {
		return nil, err
	}
	if err := s.guard(); err != nil {
		return nil, err
	}
	return s.subjectPolicies(name)
}

func (s *Service) subjectPolicies(subject string) ([]Policy, error) {
	rows, err := s.enforcer.GetFilteredPolicy(0, subject)
	if err != nil {
		return nil, fmt.Errorf("authz policy read failed: %w", err)
	}
	policies := make([]Policy, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		policies = append(policies, Policy{
			Subject: strings.TrimSpace(row[0]),
			Object:  NormalizeObject(row[1]),
			Action:  NormalizeAction(row[2]),
		})
	}
	return policies, nil
}

// SetAdminRoles 覆盖设置管理员的角色集合
func (s *Service) SetAdminRoles(adminID uint, roles []string) error {
	if adminID == 0 {
		return fmt.Errorf("admin id is required")
	}
	if err := s.guard(); err != nil {
		return err
	}

	subject := SubjectForAdmin(adminID)
	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", 0, subject); err != nil {
		return fmt.Errorf("authz role reset failed: %w", err)
	}
	for _, role := range roles {
		name, err := s.EnsureRole(role)
		if err != nil {
			return err
		}
		if _, err := s.enforcer.AddNamedGroupingPolicy("g", subject, name); err != nil {
			return fmt.Errorf("authz role assign failed: %w", err)
		}
	}
	return nil
}

// GetAdminRoles 查询管理员的角色集合
func (s *Service) GetAdminRoles(adminID uint) ([]string, error) {
	if adminID == 0 {
		return nil, fmt.Errorf("admin id is required")
	}
	if err := s.guard(); err != nil {
		return nil, err
	}

	bound, err := s.enforcer.GetRolesForUser(SubjectForAdmin(adminID))
	if err != nil {
		return nil, fmt.Errorf("authz role read failed: %w", err)
	}
	roles := make([]string, 0, len(bound))
	for _, role := range bound {
		if strings.HasPrefix(role, rolePrefix) && role != roleAnchor {
			roles = append(roles, role)
		}
	}
	sort.Strings(roles)
	return roles, nil
}

// GetAdminPolicies 查询管理员生效策略（直连 + 角色继承，去重排序）
func (s *Service) GetAdminPolicies(adminID uint) ([]Policy, error) {
	roles, err := s.GetAdminRoles(adminID)
	if err != nil {
		return nil, err
	}

	subjects := append([]string{SubjectForAdmin(adminID)}, roles...)
	merged := map[string]Policy{}
	for _, subject := range subjects {
		policies, err := s.subjectPolicies(subject)
		if err != nil {
			return nil, err
		}
		for _, item := range policies {
			merged[item.key()] = item
		}
	}

	result := make([]Policy, 0, len(merged))
	for _, item := range merged {
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].key() < result[j].key()
	})
	return result, nil
}

// SubjectForAdmin 生成管理员主体标识
func SubjectForAdmin(adminID uint) string {
	return fmt.Sprintf(adminSubjectFmt, adminID)
}

// NormalizeRole 统一角色名称（补 role: 前缀，空格转下划线）
func NormalizeRole(role string) (string, error) {
	name := strings.TrimSpace(role)
	if name == "" {
		return "", fmt.Errorf("role is required")
	}
	name = strings.ReplaceAll(name, " ", "_")
	if !strings.HasPrefix(name, rolePrefix) {
		name = rolePrefix + name
	}
	if len(name) <= len(rolePrefix) {
		return "", fmt.Errorf("role is required")
	}
	return name, nil
}

// NormalizeObject 统一授权资源路径（剥去 /api/v1 前缀后按路由原样存储）
func NormalizeObject(object string) string {
	path := strings.TrimSpace(object)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path == apiV1Prefix {
		return "/"
	}
	if strings.HasPrefix(path, apiV1Prefix+"/") {
		path = strings.TrimPrefix(path, apiV1Prefix)
	}
	return path
}

// NormalizeAction 统一授权动作（HTTP 方法大写）
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}

// moduleByResource 后台资源到功能模块的归类
var moduleByResource = map[string]string{
	"categories": "menu",
	"products":   "menu",
	"variants":   "menu",
	"promotions": "promotions",
	"orders":     "orders",
	"users":      "customers",
	"tickets":    "tickets",
	"authz":      "access",
	"profile":    "account",
	"password":   "account",
}

// ModuleForObject 把授权资源归入后台功能模块（权限目录分组用）
func ModuleForObject(object string) string {
	path := strings.TrimPrefix(NormalizeObject(object), "/")
	if path == "" {
		return "system"
	}
	segments := strings.Split(path, "/")
	resource := segments[0]
	if resource == "admin" {
		if len(segments) < 2 {
			return "system"
		}
		resource = segments[1]
	}
	if module, ok := moduleByResource[resource]; ok {
		return module
	}
	return resource
}
