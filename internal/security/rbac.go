package security

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"leasehub-backend/internal/domain"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == "admin" || (r.sub == p.sub && r.obj == p.obj && r.act == p.act)
`

// rolePolicies grants role -> resource -> actions. Admin is matched before policies.
var rolePolicies = map[domain.UserRole]map[string][]string{
	domain.UserRoleTenant: {
		"profile":       {"read", "update"},
		"properties":    {"read"},
		"applications":  {"create", "read", "withdraw"},
		"leases":        {"read", "schedule", "comment", "approve", "sign"},
		"payments":      {"read"},
		"escalations":   {"read"},
		"tickets":       {"create", "read", "update", "comment"},
		"notifications": {"read", "update"},
	},
	domain.UserRoleLandlord: {
		"profile":       {"read", "update"},
		"properties":    {"create", "read", "update"},
		"applications":  {"read", "review"},
		"leases":        {"read", "schedule", "upload", "comment", "approve", "sign"},
		"payments":      {"create", "read", "update"},
		"escalations":   {"create", "read", "close"},
		"tickets":       {"read", "update", "comment"},
		"notifications": {"read", "update"},
	},
}

// Authorizer decides whether a role may perform an action on a resource type.
type Authorizer interface {
	Authorize(role domain.UserRole, resource, action string) error
}

type casbinAuthorizer struct {
	enforcer *casbin.Enforcer
}

func NewAuthorizer() (Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load rbac model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}

	var rules [][]string
	for role, resources := range rolePolicies {
		for resource, actions := range resources {
			for _, action := range actions {
				rules = append(rules, []string{string(role), resource, action})
			}
		}
	}
	if _, err := e.AddPolicies(rules); err != nil {
		return nil, fmt.Errorf("load rbac policies: %w", err)
	}

	return &casbinAuthorizer{enforcer: e}, nil
}

func (a *casbinAuthorizer) Authorize(role domain.UserRole, resource, action string) error {
	ok, err := a.enforcer.Enforce(string(role), resource, action)
	if err != nil {
		return fmt.Errorf("enforce: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s may not %s %s", domain.ErrForbidden, role, action, resource)
	}
	return nil
}
