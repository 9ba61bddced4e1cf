package main

import (
	"flag"
	"log"
	"time"

	"github.com/qs3c/dorama_go_server/config"
	"github.com/qs3c/dorama_go_server/internal/database"
	"github.com/qs3c/dorama_go_server/internal/repository"
)

// 运维清理工具：
//   - 把到期会员的状态刷成 inactive（权限判定不依赖这一步，仅对齐展示状态）
//   - 清理已审批/已驳回的历史申请
//   - 清理过老的审计日志
func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	requestDays := flag.Int("request-days", 90, "保留已处理申请的天数")
	logDays := flag.Int("log-days", 180, "保留审计日志的天数")
	dryRun := flag.Bool("dry-run", false, "仅打印将执行的操作")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewPlanRequestRepository(db)
	logRepo := repository.NewAdminLogRepository(db)

	now := time.Now()
	requestCutoff := now.AddDate(0, 0, -*requestDays)
	logCutoff := now.AddDate(0, 0, -*logDays)

	if *dryRun {
		log.Printf("[dry-run] would expire overdue plans as of %s", now.Format(time.RFC3339))
		log.Printf("[dry-run] would prune decided plan requests before %s", requestCutoff.Format(time.RFC3339))
		log.Printf("[dry-run] would prune admin logs before %s", logCutoff.Format(time.RFC3339))
		return
	}

	expired, err := userRepo.ExpireOverduePlans(now)
	if err != nil {
		log.Fatalf("Failed to expire overdue plans: %v", err)
	}
	log.Printf("Expired %d overdue plans", expired)

	pruned, err := requestRepo.PruneDecidedBefore(requestCutoff)
	if err != nil {
		log.Fatalf("Failed to prune plan requests: %v", err)
	}
	log.Printf("Pruned %d decided plan requests", pruned)

	prunedLogs, err := logRepo.PruneBefore(logCutoff)
	if err != nil {
		log.Fatalf("Failed to prune admin logs: %v", err)
	}
	log.Printf("Pruned %d admin logs", prunedLogs)
}
