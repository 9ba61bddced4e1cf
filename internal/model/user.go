package model

import (
	"time"
)

// 套餐状态
const (
	PlanStatusInactive = "inactive"
	PlanStatusActive   = "active"
)

type User struct {
	ID                    int64      `gorm:"primaryKey" json:"id"`
	Email                 string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash          *string    `gorm:"size:255" json:"-"`
	GithubID              *string    `gorm:"column:github_id;size:50;uniqueIndex" json:"-"`
	Credits               int        `gorm:"default:0" json:"credits"`
	PlanStatus            string     `gorm:"size:20;default:inactive" json:"plan_status"` // inactive, active
	PlanExpiresAt         *time.Time `json:"plan_expires_at,omitempty"`
	IsBanned              bool       `gorm:"default:false" json:"-"`
	EmailVerified         bool       `gorm:"default:false" json:"email_verified"`
	VerificationCode      *string    `gorm:"size:100" json:"-"`
	VerificationExpiresAt *time.Time `json:"-"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
