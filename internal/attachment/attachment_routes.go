package attachment

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
	attachments := r.Group("/attachments")
	attachments.Use(middleware.AuthMiddleware(jwtSecret))
	{
		attachments.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Upload)
	}
}
