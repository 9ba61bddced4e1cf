package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/dorama_go_server/internal/api/middleware"
	"github.com/qs3c/dorama_go_server/internal/model/dto"
	"github.com/qs3c/dorama_go_server/internal/pkg/jwt"
	"github.com/qs3c/dorama_go_server/internal/pkg/oauth"
	"github.com/qs3c/dorama_go_server/internal/pkg/response"
	"github.com/qs3c/dorama_go_server/internal/pkg/tokenstore"
	"github.com/qs3c/dorama_go_server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	stateStore  *oauth.StateStore
	tokens      *tokenstore.Store
	jwtSecret   string
}

func NewAuthHandler(
	authService *service.AuthService,
	stateStore *oauth.StateStore,
	tokens *tokenstore.Store,
	jwtSecret string,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		stateStore:  stateStore,
		tokens:      tokens,
		jwtSecret:   jwtSecret,
	}
}

// Register 用户注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "注册成功，请查收验证邮件", resp)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.AuthError(c, err.Error())
		case errors.Is(err, service.ErrEmailNotVerified):
			response.AuthError(c, err.Error())
		case errors.Is(err, service.ErrUserBanned):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "登录成功", resp)
}

// VerifyEmail 验证邮箱
// POST /api/v1/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.VerifyEmail(req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidVerifyCode):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "邮箱验证成功", resp)
}

// Logout 登出，token 进黑名单直到自然过期
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := middleware.GetToken(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	if h.tokens != nil {
		claims, err := jwt.ParseToken(token, h.jwtSecret)
		if err == nil && claims.ExpiresAt != nil {
			ttl := time.Until(claims.ExpiresAt.Time)
			if err := h.tokens.Revoke(c.Request.Context(), token, ttl); err != nil {
				response.ServerError(c, "")
				return
			}
		}
	}

	response.SuccessWithMessage(c, "已退出登录", nil)
}

// Me 当前用户信息，会员权限按当前时间现算
// GET /api/v1/user/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		response.AuthError(c, "")
		return
	}

	response.Success(c, h.authService.BuildUserInfo(user))
}

// GithubAuth 跳转 GitHub 授权页
// GET /api/v1/auth/github?redirect_uri=xxx
func (h *AuthHandler) GithubAuth(c *gin.Context) {
	redirectURI := c.Query("redirect_uri")

	state, err := h.stateStore.GenerateState(c.Request.Context(), redirectURI)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	c.Redirect(http.StatusFound, h.authService.GetGithubAuthURL(state))
}

// GithubCallback GitHub OAuth 回调。
// state 一次性校验防重放；带 redirect_uri 时把 token 拼回前端地址。
// GET /api/v1/auth/github/callback?code=xxx&state=xxx
func (h *AuthHandler) GithubCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.ParamError(c, "缺少授权码")
		return
	}

	redirectURI, err := h.stateStore.ValidateState(c.Request.Context(), c.Query("state"))
	if err != nil {
		response.AuthError(c, "state 校验失败")
		return
	}

	resp, err := h.authService.GithubCallback(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrUserBanned) {
			response.PermissionError(c, err.Error())
			return
		}
		response.ServerError(c, "GitHub 登录失败")
		return
	}

	if redirectURI != "" {
		c.Redirect(http.StatusFound, fmt.Sprintf("%s?token=%s", redirectURI, url.QueryEscape(resp.Token)))
		return
	}

	response.SuccessWithMessage(c, "登录成功", resp)
}
