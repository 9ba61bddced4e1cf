package model

import (
	"time"
)

// 申请状态：pending 为唯一可变迁状态，approved/rejected 为终态
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// PlanRequest 用户提交的付款申请，由管理员人工审批。
//
// PendingKey 在待审批期间等于 UserID，审批后置为 NULL。
// 配合唯一索引保证同一用户最多一条 pending 记录
// （MySQL 不支持部分索引，NULL 不参与唯一性冲突）。
type PlanRequest struct {
	ID              int64      `gorm:"primaryKey" json:"id"`
	UserID          int64      `gorm:"not null;index" json:"user_id"`
	WhatsappContact string     `gorm:"size:50;not null" json:"whatsapp_contact"`
	Status          string     `gorm:"size:20;not null;default:pending;index" json:"status"` // pending, approved, rejected
	PendingKey      *int64     `gorm:"uniqueIndex" json:"-"`
	PaymentProofURL *string    `gorm:"size:500" json:"payment_proof_url,omitempty"`
	ApprovedBy      *int64     `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (PlanRequest) TableName() string {
	return "plan_requests"
}
