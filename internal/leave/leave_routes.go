package leave

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("",
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.RateLimitByUser(1, 5),
			handler.Create,
		)
		leaves.GET("",
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			middleware.RateLimitByUser(5, 20),
			handler.List,
		)
		leaves.GET("/:id",
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			middleware.RateLimitByUser(5, 20),
			handler.GetByID,
		)
		leaves.POST("/:id/decision",
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			middleware.RateLimitByUser(2, 5),
			middleware.Idempotency(rdb),
			handler.Decide,
		)
		leaves.POST("/:id/cancel",
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.RateLimitByUser(1, 5),
			handler.Cancel,
		)
	}
}
