package ledger

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
	balances := r.Group("/balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/:employeeID",
			middleware.RBACAuthorize(rbacService, "balance", "read"),
			middleware.RateLimitByUser(5, 20),
			handler.GetBalance,
		)
		balances.POST("/:employeeID/credit",
			middleware.RBACAuthorize(rbacService, "balance", "adjust"),
			middleware.RateLimitByUser(0.5, 2),
			handler.Credit,
		)
	}
}
