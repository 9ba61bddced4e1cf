package model

import (
	"time"
)

// 管理操作类型
const (
	ActionMovieCreate    = "movie_create"
	ActionMovieUpdate    = "movie_update"
	ActionMovieDelete    = "movie_delete"
	ActionRequestApprove = "request_approve"
	ActionRequestReject  = "request_reject"
)

// AdminLog 管理员操作审计日志
type AdminLog struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	AdminID    int64     `gorm:"not null;index" json:"admin_id"`
	Action     string    `gorm:"size:50;not null" json:"action"`
	TargetType string    `gorm:"size:20;not null" json:"target_type"` // movie, plan_request
	TargetID   int64     `gorm:"not null" json:"target_id"`
	Detail     string    `gorm:"type:text" json:"detail"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (AdminLog) TableName() string {
	return "admin_logs"
}
