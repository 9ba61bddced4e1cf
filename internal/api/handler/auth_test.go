package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/dorama_go_server/internal/pkg/response"
)

func TestRegisterLoginMe(t *testing.T) {
	env := newTestEnv(t)

	token, userID := env.registerAndLogin(t, "ana@example.com")
	assert.Greater(t, userID, int64(0))

	w := env.request(t, http.MethodGet, "/api/v1/user/me", token, nil)
	resp := parseResp(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	user := resp.Data.(map[string]interface{})
	assert.Equal(t, "ana@example.com", user["email"])
	assert.Equal(t, "member", user["role"])
	assert.Equal(t, "inactive", user["plan_status"])
	assert.Equal(t, false, user["entitled"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "dup@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":    "dup@example.com",
		"password": "password123",
	})
	resp := parseResp(t, w)
	assert.Equal(t, response.CodeDuplicateAction, resp.Code)
}

func TestRegister_InvalidPayload(t *testing.T) {
	env := newTestEnv(t)

	// 密码过短
	w := env.request(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":    "short@example.com",
		"password": "123",
	})
	resp := parseResp(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)

	// 邮箱格式非法
	w = env.request(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":    "not-an-email",
		"password": "password123",
	})
	resp = parseResp(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "user@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "user@example.com",
		"password": "wrongpassword",
	})
	resp := parseResp(t, w)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestMe_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/v1/user/me", "", nil)
	resp := parseResp(t, w)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)

	w = env.request(t, http.MethodGet, "/api/v1/user/me", "garbage-token", nil)
	resp = parseResp(t, w)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.registerAndLogin(t, "bye@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	resp := parseResp(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)
}
