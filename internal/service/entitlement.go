package service

import (
	"time"

	"github.com/qs3c/dorama_go_server/internal/model"
)

// IsEntitled 判断用户在给定时刻是否有观看权限。
// 状态必须是 active 且到期时间严格晚于 now，到期当刻即失效。
// 不读缓存、不写库，每次调用按传入时间重新计算。
func IsEntitled(user *model.User, now time.Time) bool {
	if user == nil {
		return false
	}
	if user.PlanStatus != model.PlanStatusActive {
		return false
	}
	if user.PlanExpiresAt == nil {
		return false
	}
	return user.PlanExpiresAt.After(now)
}
