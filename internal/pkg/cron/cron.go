package cron

import (
	"log"
	"time"

	"github.com/qs3c/dorama_go_server/internal/repository"
)

type Service struct {
	userRepo      *repository.UserRepository
	sweepInterval time.Duration
	stopChan      chan struct{}
}

func NewService(userRepo *repository.UserRepository, sweepInterval time.Duration) *Service {
	if sweepInterval <= 0 {
		sweepInterval = time.Hour
	}
	return &Service{
		userRepo:      userRepo,
		sweepInterval: sweepInterval,
		stopChan:      make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runPlanExpirySweep()
	log.Println("Cron service started (plan expiry sweep)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runPlanExpirySweep 周期性将到期会员置为 inactive。
// 权限判断本身基于到期时间，这里只是把落库状态对齐，
// 避免列表页和后台统计读到过期的 active。
func (s *Service) runPlanExpirySweep() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweepExpiredPlans()
		}
	}
}

func (s *Service) sweepExpiredPlans() {
	affected, err := s.userRepo.ExpireOverduePlans(time.Now())
	if err != nil {
		log.Printf("Plan expiry sweep failed: %v", err)
		return
	}
	if affected > 0 {
		log.Printf("Plan expiry sweep: deactivated %d users", affected)
	}
}

// RunNow 立即执行一次到期清理（用于测试或手动触发）
func (s *Service) RunNow() (int64, error) {
	return s.userRepo.ExpireOverduePlans(time.Now())
}
