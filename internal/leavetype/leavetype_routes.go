package leavetype

import (
	"go-hrcore/internal/middleware"
	"go-hrcore/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	jwtSecret string,
) {
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware(jwtSecret))
	{
		types.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
	}
}
