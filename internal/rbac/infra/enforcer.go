package infra

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"leaveflow/internal/identity"
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
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// staticPolicies is the complete permission matrix. Roles are fixed, so the
// policy ships with the binary instead of a database table.
var staticPolicies = [][]string{
	{identity.RoleEmployee, "leave_request", "read"},
	{identity.RoleEmployee, "leave_request", "create"},

	{identity.RoleSuperUser, "leave_request", "read"},
	{identity.RoleSuperUser, "leave_request", "create"},
	{identity.RoleSuperUser, "leave_request", "approve"},

	{identity.RoleAdmin, "leave_request", "read"},
	{identity.RoleAdmin, "leave_request", "create"},
	{identity.RoleAdmin, "leave_request", "approve"},
	{identity.RoleAdmin, "audit_log", "read"},
	{identity.RoleAdmin, "rbac", "read"},
}

func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range staticPolicies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	return enforcer, nil
}
