package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/dorama_go_server/config"
	"github.com/qs3c/dorama_go_server/internal/api/handler"
	"github.com/qs3c/dorama_go_server/internal/api/middleware"
	"github.com/qs3c/dorama_go_server/internal/pkg/tokenstore"
	"github.com/qs3c/dorama_go_server/internal/repository"
)

type Router struct {
	authHandler      *handler.AuthHandler
	catalogHandler   *handler.CatalogHandler
	planHandler      *handler.PlanHandler
	favoriteHandler  *handler.FavoriteHandler
	adminHandler     *handler.AdminHandler
	websocketHandler *handler.WebSocketHandler
	userRepo         *repository.UserRepository
	profileRepo      *repository.ProfileRepository
	tokens           *tokenstore.Store
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	catalogHandler *handler.CatalogHandler,
	planHandler *handler.PlanHandler,
	favoriteHandler *handler.FavoriteHandler,
	adminHandler *handler.AdminHandler,
	websocketHandler *handler.WebSocketHandler,
	userRepo *repository.UserRepository,
	profileRepo *repository.ProfileRepository,
	tokens *tokenstore.Store,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		catalogHandler:   catalogHandler,
		planHandler:      planHandler,
		favoriteHandler:  favoriteHandler,
		adminHandler:     adminHandler,
		websocketHandler: websocketHandler,
		userRepo:         userRepo,
		profileRepo:      profileRepo,
		tokens:           tokens,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	jwtSecret := r.cfg.JWT.Secret

	api := engine.Group("/api/v1")
	{
		// WebSocket（管理员通知通道，handler 内部校验身份）
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/verify-email", r.authHandler.VerifyEmail)
			auth.GET("/github", r.authHandler.GithubAuth)
			auth.GET("/github/callback", r.authHandler.GithubCallback)
		}

		// 公开接口 - 套餐信息
		api.GET("/plan", r.planHandler.Info)

		// 影片目录（可选认证，登录用户能看到收藏状态和解锁的播放地址）
		movies := api.Group("/movies")
		movies.Use(middleware.OptionalAuth(jwtSecret, r.tokens))
		{
			movies.GET("", r.catalogHandler.List)
			movies.GET("/:id", r.catalogHandler.Get)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(jwtSecret, r.tokens))
		{
			authenticated.POST("/auth/logout", r.authHandler.Logout)

			user := authenticated.Group("/user")
			{
				user.GET("/me", r.authHandler.Me)
				user.GET("/favorites", r.favoriteHandler.List)
			}

			authenticated.POST("/movies/:id/favorite", r.favoriteHandler.Toggle)

			plan := authenticated.Group("/plan")
			{
				plan.POST("/requests", r.planHandler.Submit)
				plan.GET("/requests", r.planHandler.MyRequests)
				plan.POST("/payment-proof", r.planHandler.UploadPaymentProof)
			}

			// 观看需要有效会员
			watch := authenticated.Group("")
			watch.Use(middleware.Entitled(r.userRepo))
			{
				watch.GET("/movies/:id/watch", r.catalogHandler.Watch)
			}

			// 管理端
			admin := authenticated.Group("/admin")
			admin.Use(middleware.AdminOnly(r.profileRepo))
			{
				admin.POST("/movies", r.adminHandler.CreateMovie)
				admin.PUT("/movies/:id", r.adminHandler.UpdateMovie)
				admin.DELETE("/movies/:id", r.adminHandler.DeleteMovie)
				admin.POST("/movies/:id/poster", r.adminHandler.UploadPoster)

				admin.GET("/plan-requests", r.adminHandler.ListRequests)
				admin.POST("/plan-requests/:id/approve", r.adminHandler.ApproveRequest)
				admin.POST("/plan-requests/:id/reject", r.adminHandler.RejectRequest)

				admin.GET("/logs", r.adminHandler.ListLogs)
			}
		}
	}

	return engine
}
