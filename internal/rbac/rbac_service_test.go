package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"leaveflow/internal/domain"
	"leaveflow/internal/identity"
	"leaveflow/internal/rbac"
	"leaveflow/internal/rbac/infra"
)

func newTestService(t *testing.T) rbac.Service {
	t.Helper()
	enforcer, err := infra.NewEnforcer()
	assert.NoError(t, err)
	return rbac.NewService(enforcer)
}

func TestRBACService_Enforce(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		name    string
		role    string
		obj     string
		act     string
		allowed bool
	}{
		{"employee reads leave requests", identity.RoleEmployee, "leave_request", "read", true},
		{"employee creates leave requests", identity.RoleEmployee, "leave_request", "create", true},
		{"employee cannot approve", identity.RoleEmployee, "leave_request", "approve", false},
		{"employee cannot read audit logs", identity.RoleEmployee, "audit_log", "read", false},
		{"superuser approves", identity.RoleSuperUser, "leave_request", "approve", true},
		{"superuser cannot read audit logs", identity.RoleSuperUser, "audit_log", "read", false},
		{"admin approves", identity.RoleAdmin, "leave_request", "approve", true},
		{"admin reads audit logs", identity.RoleAdmin, "audit_log", "read", true},
		{"admin reads rbac policies", identity.RoleAdmin, "rbac", "read", true},
		{"unknown role is denied", "CONTRACTOR", "leave_request", "read", false},
		{"unknown resource is denied", identity.RoleAdmin, "payroll", "read", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := svc.Enforce(domain.EnforceRequest{
				Role:     tc.role,
				Resource: tc.obj,
				Action:   tc.act,
			})
			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}
