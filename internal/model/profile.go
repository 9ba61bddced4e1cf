package model

import (
	"time"
)

// 角色取值为封闭枚举，权限判断统一走 middleware.AdminOnly
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Profile 与用户一一对应的角色档案
type Profile struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	DisplayName string    `gorm:"size:100" json:"display_name"`
	Role        string    `gorm:"size:20;not null;default:member" json:"role"` // member, admin
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
