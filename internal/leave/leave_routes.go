package leave

import (
	"go-hrcore/internal/middleware"
	"go-hrcore/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	jwtSecret string,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(jwtSecret))
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.List)
		leaves.GET("/remaining", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.Remaining)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetById)
		if redisClient != nil {
			leaves.POST(
				"",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "leave", "create"),
				handler.Create,
			)
		} else {
			leaves.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Create)
		}
		leaves.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Amend)
		leaves.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave", "delete"), handler.Delete)

		// Review permissions depend on the request's department, so the
		// service enforces them after it loads the row.
		leaves.POST("/:id/manager-approve", handler.ManagerApprove)
		leaves.POST("/:id/manager-reject", handler.ManagerReject)
		leaves.POST("/:id/hr-approve", handler.HRApprove)
		leaves.POST("/:id/hr-reject", handler.HRReject)
	}
}
