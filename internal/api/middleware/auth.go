package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/dorama_go_server/internal/pkg/jwt"
	"github.com/qs3c/dorama_go_server/internal/pkg/response"
	"github.com/qs3c/dorama_go_server/internal/pkg/tokenstore"
)

const (
	UserIDKey = "userID"
	TokenKey  = "authToken"
)

// Auth JWT 认证中间件。
// tokens 不为 nil 时额外检查登出黑名单。
func Auth(jwtSecret string, tokens *tokenstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AuthError(c, "请提供认证信息")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AuthError(c, "认证格式错误")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, "认证失败或已过期")
			c.Abort()
			return
		}

		if tokens != nil {
			revoked, err := tokens.IsRevoked(c.Request.Context(), tokenString)
			if err == nil && revoked {
				response.AuthError(c, "认证已失效，请重新登录")
				c.Abort()
				return
			}
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(TokenKey, tokenString)
		c.Next()
	}
}

// OptionalAuth 可选认证中间件（不强制要求登录）
func OptionalAuth(jwtSecret string, tokens *tokenstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.Next()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			c.Next()
			return
		}

		if tokens != nil {
			revoked, err := tokens.IsRevoked(c.Request.Context(), tokenString)
			if err == nil && revoked {
				c.Next()
				return
			}
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(TokenKey, tokenString)
		c.Next()
	}
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}

// GetToken 从上下文获取原始 token（登出时写黑名单用）
func GetToken(c *gin.Context) (string, bool) {
	token, exists := c.Get(TokenKey)
	if !exists {
		return "", false
	}
	str, ok := token.(string)
	return str, ok
}
