package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/dorama_go_server/internal/pkg/response"
	"github.com/qs3c/dorama_go_server/internal/repository"
)

// AdminOnly 管理员权限中间件，必须挂在 Auth 之后。
// 每次请求查库读角色，改角色立即生效，不缓存。
func AdminOnly(profileRepo *repository.ProfileRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		isAdmin, err := profileRepo.IsAdmin(userID)
		if err != nil {
			response.ServerError(c, "权限检查失败")
			c.Abort()
			return
		}

		if !isAdmin {
			response.PermissionError(c, "需要管理员权限")
			c.Abort()
			return
		}

		c.Next()
	}
}
