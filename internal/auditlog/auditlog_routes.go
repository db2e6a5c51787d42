package auditlog

import (
	"go-clubhouse/internal/middleware"
	"go-clubhouse/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	audit := r.Group("/audit")
	audit.Use(middleware.AuthMiddleware())
	{
		audit.GET("/events", rbac.Authorize(rbacService, "audit", "read"), h.Recent)
		audit.GET("/summary", rbac.Authorize(rbacService, "audit", "read"), h.Summary)
	}
}
