package attendance

import (
	"go-clubhouse/internal/middleware"
	"go-clubhouse/internal/rbac"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	att := r.Group("/attendance")
	att.Use(middleware.AuthMiddleware())
	{
		att.POST("/sign-in",
			middleware.RateLimitByIP(rate.Limit(5), 10),
			middleware.RateLimitByPerson(rate.Limit(2), 4),
			rbac.Authorize(rbacService, "attendance", "create"),
			h.SignIn,
		)
		att.POST("/sign-out",
			middleware.RateLimitByIP(rate.Limit(5), 10),
			middleware.RateLimitByPerson(rate.Limit(2), 4),
			rbac.Authorize(rbacService, "attendance", "create"),
			h.SignOut,
		)
		att.GET("/occupancy", rbac.Authorize(rbacService, "attendance", "read"), h.Occupancy)
		att.GET("/history/:person_id", rbac.Authorize(rbacService, "attendance", "read"), h.History)
		att.GET("/stats", rbac.Authorize(rbacService, "attendance", "read"), h.Stats)
		att.GET("/search", rbac.Authorize(rbacService, "attendance", "read"), h.Search)
	}
}
