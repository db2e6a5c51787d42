package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
)

type EnforceRequest struct {
	Role     string
	Resource string
	Action   string
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

// defaultPolicy maps person categories to the engine's read/write
// surface. ADMIN and STAFF run the front desk; MEMBER and GUEST can
// only sign themselves in and out (per-person checks live in the
// handlers).
var defaultPolicy = [][]string{
	{"ADMIN", "attendance", "create"},
	{"ADMIN", "attendance", "read"},
	{"ADMIN", "register", "read"},
	{"ADMIN", "audit", "read"},
	{"STAFF", "attendance", "create"},
	{"STAFF", "attendance", "read"},
	{"STAFF", "register", "read"},
	{"MEMBER", "attendance", "create"},
	{"MEMBER", "attendance", "read"},
	{"GUEST", "attendance", "create"},
}

func NewService(enforcer *casbin.Enforcer) (Service, error) {
	for _, p := range defaultPolicy {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enforcer.Enforce(req.Role, req.Resource, req.Action)
}
