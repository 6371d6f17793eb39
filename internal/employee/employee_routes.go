package employee

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("",
			middleware.RBACAuthorize(rbacService, "employee", "read"),
			middleware.RateLimitByUser(3, 10),
			handler.GetAll,
		)
		employees.GET("/:id",
			middleware.RBACAuthorize(rbacService, "employee", "read"),
			middleware.RateLimitByUser(5, 20),
			handler.GetById,
		)
		employees.POST("",
			middleware.RBACAuthorize(rbacService, "employee", "manage"),
			middleware.RateLimitByUser(0.5, 2),
			handler.Create,
		)
		employees.PUT("/:id",
			middleware.RBACAuthorize(rbacService, "employee", "manage"),
			middleware.RateLimitByUser(0.5, 2),
			handler.Update,
		)
	}
}
