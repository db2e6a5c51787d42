package rbac

import (
	"path/filepath"
	"testing"

	"go-clubhouse/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	enforcer, err := infra.NewEnforcer(filepath.Join("infra", "model.conf"))
	assert.NoError(t, err)

	svc, err := NewService(enforcer)
	assert.NoError(t, err)
	return svc
}

func TestService_Enforce(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{"ADMIN", "audit", "read", true},
		{"ADMIN", "attendance", "create", true},
		{"STAFF", "register", "read", true},
		{"STAFF", "audit", "read", false},
		{"MEMBER", "attendance", "create", true},
		{"MEMBER", "register", "read", false},
		{"MEMBER", "audit", "read", false},
		{"GUEST", "attendance", "create", true},
		{"GUEST", "attendance", "read", false},
		{"", "attendance", "create", false},
	}

	for _, tc := range cases {
		allowed, err := svc.Enforce(EnforceRequest{Role: tc.role, Resource: tc.resource, Action: tc.action})
		assert.NoError(t, err)
		assert.Equal(t, tc.allowed, allowed, "%s %s %s", tc.role, tc.resource, tc.action)
	}
}
