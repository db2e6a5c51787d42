package register

import (
	"go-clubhouse/internal/middleware"
	"go-clubhouse/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	reg := r.Group("/register")
	reg.Use(middleware.AuthMiddleware())
	{
		reg.GET("/dates", rbac.Authorize(rbacService, "register", "read"), h.ActiveDates)
		reg.GET("/:date", rbac.Authorize(rbacService, "register", "read"), h.ByDate)
		reg.GET("/:date/counts", rbac.Authorize(rbacService, "register", "read"), h.Counts)
	}
}
