package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/dorama_go_server/internal/model"
)

type PlanRequestRepository struct {
	db *gorm.DB
}

func NewPlanRequestRepository(db *gorm.DB) *PlanRequestRepository {
	return &PlanRequestRepository{db: db}
}

// Create 创建会员申请。pending_key 上的唯一索引保证同一用户
// 同时最多一条待审批申请，重复插入返回 gorm.ErrDuplicatedKey。
func (r *PlanRequestRepository) Create(request *model.PlanRequest) error {
	return r.db.Create(request).Error
}

func (r *PlanRequestRepository) GetByID(id int64) (*model.PlanRequest, error) {
	var request model.PlanRequest
	err := r.db.Where("id = ?", id).First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// GetPendingByUserID 获取用户当前待审批的申请
func (r *PlanRequestRepository) GetPendingByUserID(userID int64) (*model.PlanRequest, error) {
	var request model.PlanRequest
	err := r.db.Where("pending_key = ?", userID).First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ListByUserID 获取用户的申请历史，最新的在前
func (r *PlanRequestRepository) ListByUserID(userID int64) ([]*model.PlanRequest, error) {
	var requests []*model.PlanRequest
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&requests).Error
	return requests, err
}

// ListByStatus 分页获取指定状态的申请，status 为空时返回全部
func (r *PlanRequestRepository) ListByStatus(status string, page, pageSize int) ([]*model.PlanRequest, int64, error) {
	var total int64
	var requests []*model.PlanRequest

	query := r.db.Model(&model.PlanRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&requests).Error
	return requests, total, err
}

// Approve 在一个事务内批准申请并开通用户会员。
// 状态条件写在 UPDATE 里，申请已被处理时返回 gorm.ErrRecordNotFound，
// 两个并发审批只有一个会成功。
func (r *PlanRequestRepository) Approve(requestID, userID, adminID int64, decidedAt, expiresAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.PlanRequest{}).
			Where("id = ? AND status = ?", requestID, model.RequestStatusPending).
			Updates(map[string]interface{}{
				"status":      model.RequestStatusApproved,
				"pending_key": nil,
				"approved_by": adminID,
				"approved_at": decidedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"plan_status":     model.PlanStatusActive,
			"plan_expires_at": expiresAt,
		}).Error
	})
}

// Reject 驳回申请，只改申请本身，不动用户会员状态
func (r *PlanRequestRepository) Reject(requestID, adminID int64, decidedAt time.Time) error {
	res := r.db.Model(&model.PlanRequest{}).
		Where("id = ? AND status = ?", requestID, model.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":      model.RequestStatusRejected,
			"pending_key": nil,
			"approved_by": adminID,
			"approved_at": decidedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PruneDecidedBefore 清理指定时间之前已处理的申请，返回删除行数
func (r *PlanRequestRepository) PruneDecidedBefore(cutoff time.Time) (int64, error) {
	res := r.db.Where("status <> ? AND approved_at < ?", model.RequestStatusPending, cutoff).
		Delete(&model.PlanRequest{})
	return res.RowsAffected, res.Error
}
