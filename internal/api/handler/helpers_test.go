package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/dorama_go_server/config"
	"github.com/qs3c/dorama_go_server/internal/api/middleware"
	"github.com/qs3c/dorama_go_server/internal/model"
	"github.com/qs3c/dorama_go_server/internal/pkg/response"
	"github.com/qs3c/dorama_go_server/internal/repository"
	"github.com/qs3c/dorama_go_server/internal/service"
	"github.com/qs3c/dorama_go_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "handler-test-secret"

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
}

// newTestEnv 组装与生产路由一致的测试环境。
// Redis/OSS/邮件等外部依赖留空，这些路径有各自的单测。
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: testSecret, ExpireHours: 24},
		Plan: config.PlanConfig{
			PixKey:         "test-pix-key",
			WhatsappNumber: "+55 11 99999-8888",
			PriceBRL:       20.0,
			DurationDays:   30,
		},
		Upload: config.UploadConfig{
			MaxSize:           1 << 20,
			AllowedExtensions: []string{".jpg", ".png"},
		},
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	requestRepo := repository.NewPlanRequestRepository(db)
	logRepo := repository.NewAdminLogRepository(db)

	authService := service.NewAuthService(userRepo, profileRepo, cfg, nil)
	catalogService := service.NewCatalogService(movieRepo, favoriteRepo, logRepo, &cfg.Plan)
	planService := service.NewPlanService(requestRepo, userRepo, logRepo, &cfg.Plan, nil, nil)
	favoriteService := service.NewFavoriteService(favoriteRepo, movieRepo)

	authHandler := NewAuthHandler(authService, nil, nil, cfg.JWT.Secret)
	catalogHandler := NewCatalogHandler(catalogService, userRepo)
	planHandler := NewPlanHandler(planService, nil, &cfg.Upload)
	favoriteHandler := NewFavoriteHandler(favoriteService)
	adminHandler := NewAdminHandler(catalogService, planService, nil, &cfg.Upload)

	router := gin.New()
	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/verify-email", authHandler.VerifyEmail)

	api.GET("/plan", planHandler.Info)

	movies := api.Group("/movies")
	movies.Use(middleware.OptionalAuth(testSecret, nil))
	movies.GET("", catalogHandler.List)
	movies.GET("/:id", catalogHandler.Get)

	authenticated := api.Group("")
	authenticated.Use(middleware.Auth(testSecret, nil))
	authenticated.POST("/auth/logout", authHandler.Logout)
	authenticated.GET("/user/me", authHandler.Me)
	authenticated.GET("/user/favorites", favoriteHandler.List)
	authenticated.POST("/movies/:id/favorite", favoriteHandler.Toggle)
	authenticated.POST("/plan/requests", planHandler.Submit)
	authenticated.GET("/plan/requests", planHandler.MyRequests)
	authenticated.POST("/plan/payment-proof", planHandler.UploadPaymentProof)

	watch := authenticated.Group("")
	watch.Use(middleware.Entitled(userRepo))
	watch.GET("/movies/:id/watch", catalogHandler.Watch)

	admin := authenticated.Group("/admin")
	admin.Use(middleware.AdminOnly(profileRepo))
	admin.POST("/movies", adminHandler.CreateMovie)
	admin.PUT("/movies/:id", adminHandler.UpdateMovie)
	admin.DELETE("/movies/:id", adminHandler.DeleteMovie)
	admin.POST("/movies/:id/poster", adminHandler.UploadPoster)
	admin.GET("/plan-requests", adminHandler.ListRequests)
	admin.POST("/plan-requests/:id/approve", adminHandler.ApproveRequest)
	admin.POST("/plan-requests/:id/reject", adminHandler.RejectRequest)
	admin.GET("/logs", adminHandler.ListLogs)

	return &testEnv{router: router, db: db, cfg: cfg}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func parseResp(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp
}

// registerAndLogin 注册并登录，返回 token 与用户 ID
func (e *testEnv) registerAndLogin(t *testing.T, email string) (string, int64) {
	t.Helper()

	w := e.request(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
	})
	resp := parseResp(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code, "register failed: %s", resp.Message)

	w = e.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
	})
	resp = parseResp(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code, "login failed: %s", resp.Message)

	data := resp.Data.(map[string]interface{})
	token := data["token"].(string)
	userID := int64(data["user"].(map[string]interface{})["id"].(float64))
	return token, userID
}

// promoteToAdmin 把用户角色改成管理员
func (e *testEnv) promoteToAdmin(t *testing.T, userID int64) {
	t.Helper()

	err := e.db.Model(&model.Profile{}).
		Where("user_id = ?", userID).
		Update("role", model.RoleAdmin).Error
	require.NoError(t, err)
}
