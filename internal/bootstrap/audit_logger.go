package bootstrap

import "context"

// AuditLog is the minimal lifecycle event written around server
// start/stop. Request-level auditing lives in internal/auditlog; this
// is only for process lifecycle.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
