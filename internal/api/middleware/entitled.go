package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/dorama_go_server/internal/pkg/response"
	"github.com/qs3c/dorama_go_server/internal/repository"
	"github.com/qs3c/dorama_go_server/internal/service"
)

// Entitled 会员权限中间件，必须挂在 Auth 之后。
// 有效性按请求时刻的到期时间现算，过期立即失效，
// 不等后台任务同步状态。
func Entitled(userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		user, err := userRepo.GetByID(userID)
		if err != nil {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		if !service.IsEntitled(user, time.Now()) {
			response.PlanRequiredError(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
