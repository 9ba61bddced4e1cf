package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/qs3c/dorama_go_server/config"
	"github.com/qs3c/dorama_go_server/internal/api"
	"github.com/qs3c/dorama_go_server/internal/api/handler"
	"github.com/qs3c/dorama_go_server/internal/database"
	"github.com/qs3c/dorama_go_server/internal/pkg/cron"
	"github.com/qs3c/dorama_go_server/internal/pkg/email"
	"github.com/qs3c/dorama_go_server/internal/pkg/oauth"
	"github.com/qs3c/dorama_go_server/internal/pkg/oss"
	"github.com/qs3c/dorama_go_server/internal/pkg/pubsub"
	"github.com/qs3c/dorama_go_server/internal/pkg/tokenstore"
	"github.com/qs3c/dorama_go_server/internal/pkg/ws"
	"github.com/qs3c/dorama_go_server/internal/repository"
	"github.com/qs3c/dorama_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS（未配置时海报上传不可用，其余功能正常）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Fatalf("Failed to init oss client: %v", err)
		}
		log.Println("OSS client ready")
	}

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub()

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	requestRepo := repository.NewPlanRequestRepository(db)
	logRepo := repository.NewAdminLogRepository(db)

	// 初始化基础组件
	tokens := tokenstore.NewStore(rdb)
	stateStore := oauth.NewStateStore(rdb)
	emailSvc := email.NewService(&cfg.Email)
	publisher := pubsub.NewPublisher(rdb)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, profileRepo, cfg, emailSvc)
	catalogService := service.NewCatalogService(movieRepo, favoriteRepo, logRepo, &cfg.Plan)
	planService := service.NewPlanService(requestRepo, userRepo, logRepo, &cfg.Plan, publisher, emailSvc)
	favoriteService := service.NewFavoriteService(favoriteRepo, movieRepo)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService, stateStore, tokens, cfg.JWT.Secret)
	catalogHandler := handler.NewCatalogHandler(catalogService, userRepo)
	planHandler := handler.NewPlanHandler(planService, ossClient, &cfg.Upload)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService)
	adminHandler := handler.NewAdminHandler(catalogService, planService, ossClient, &cfg.Upload)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret, profileRepo)

	// 订阅审批事件，推送给在线管理员
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(context.Background(), func(event *pubsub.PlanEvent) {
			adminIDs, err := profileRepo.ListAdminIDs()
			if err != nil {
				log.Printf("List admin ids failed: %v", err)
				return
			}
			if err := wsHub.SendToUsers(adminIDs, &ws.Message{
				Type: "plan_request",
				Data: event,
			}); err != nil {
				log.Printf("Push plan event failed: %v", err)
			}
		})
		if err != nil {
			log.Printf("Plan event subscriber stopped: %v", err)
		}
	}()
	log.Println("Plan event subscriber started")

	// 套餐到期巡检
	cronService := cron.NewService(userRepo, time.Hour)
	cronService.Start()
	defer cronService.Stop()
	log.Println("Plan expiry sweep started")

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		catalogHandler,
		planHandler,
		favoriteHandler,
		adminHandler,
		websocketHandler,
		userRepo,
		profileRepo,
		tokens,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
