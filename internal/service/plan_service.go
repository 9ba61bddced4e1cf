package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/dorama_go_server/config"
	"github.com/qs3c/dorama_go_server/internal/model"
	"github.com/qs3c/dorama_go_server/internal/model/dto"
	"github.com/qs3c/dorama_go_server/internal/pkg/email"
	"github.com/qs3c/dorama_go_server/internal/pkg/pubsub"
	"github.com/qs3c/dorama_go_server/internal/pkg/whatsapp"
	"github.com/qs3c/dorama_go_server/internal/repository"
)

var (
	ErrPendingRequestExists = errors.New("已有待审批的申请")
	ErrRequestNotFound      = errors.New("申请不存在")
	ErrRequestNotPending    = errors.New("申请已被处理")
)

type PlanService struct {
	requestRepo *repository.PlanRequestRepository
	userRepo    *repository.UserRepository
	logRepo     *repository.AdminLogRepository
	cfg         *config.PlanConfig
	publisher   *pubsub.Publisher
	emailSvc    *email.Service
}

func NewPlanService(
	requestRepo *repository.PlanRequestRepository,
	userRepo *repository.UserRepository,
	logRepo *repository.AdminLogRepository,
	cfg *config.PlanConfig,
	publisher *pubsub.Publisher,
	emailSvc *email.Service,
) *PlanService {
	return &PlanService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		logRepo:     logRepo,
		cfg:         cfg,
		publisher:   publisher,
		emailSvc:    emailSvc,
	}
}

// GetPlanInfo 套餐购买信息，含 Pix 密钥与 WhatsApp 跳转链接
func (s *PlanService) GetPlanInfo() *dto.PlanInfoResponse {
	return &dto.PlanInfoResponse{
		PixKey:         s.cfg.PixKey,
		PriceBRL:       s.cfg.PriceBRL,
		DurationDays:   s.cfg.DurationDays,
		WhatsappNumber: s.cfg.WhatsappNumber,
		WhatsappLink:   whatsapp.PaymentLink(s.cfg.WhatsappNumber, s.cfg.PriceBRL, ""),
	}
}

// Submit 提交付款申请。
// 先查一次已有待审批申请给出明确错误；并发下的竞争不靠这次读，
// 由 pending_key 唯一索引兜底，撞索引同样映射为 ErrPendingRequestExists。
func (s *PlanService) Submit(ctx context.Context, userID int64, req *dto.SubmitPlanRequest) (*model.PlanRequest, error) {
	if _, err := s.requestRepo.GetPendingByUserID(userID); err == nil {
		return nil, ErrPendingRequestExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pendingKey := userID
	request := &model.PlanRequest{
		UserID:          userID,
		WhatsappContact: req.WhatsappContact,
		Status:          model.RequestStatusPending,
		PendingKey:      &pendingKey,
		PaymentProofURL: req.PaymentProofURL,
	}

	if err := s.requestRepo.Create(request); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPendingRequestExists
		}
		return nil, err
	}

	s.publish(ctx, &pubsub.PlanEvent{
		Type:      pubsub.EventRequestSubmitted,
		RequestID: request.ID,
		UserID:    userID,
		Contact:   request.WhatsappContact,
	})

	return request, nil
}

// MyRequests 用户自己的申请历史
func (s *PlanService) MyRequests(userID int64) ([]*dto.PlanRequestItem, error) {
	requests, err := s.requestRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PlanRequestItem, 0, len(requests))
	for _, r := range requests {
		items = append(items, buildPlanRequestItem(r, ""))
	}
	return items, nil
}

// ListRequests 管理端申请列表，补充申请人邮箱
func (s *PlanService) ListRequests(status string, page, pageSize int) ([]*dto.PlanRequestItem, int64, error) {
	requests, total, err := s.requestRepo.ListByStatus(status, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.PlanRequestItem, 0, len(requests))
	for _, r := range requests {
		userEmail := ""
		if user, err := s.userRepo.GetByID(r.UserID); err == nil {
			userEmail = user.Email
		}
		items = append(items, buildPlanRequestItem(r, userEmail))
	}
	return items, total, nil
}

// Approve 批准申请并开通会员。
// 审批与开通在同一事务内完成，到期时间从审批时刻起算，
// 不与既有剩余时长叠加。
func (s *PlanService) Approve(ctx context.Context, requestID, adminID int64) (*model.PlanRequest, error) {
	request, err := s.requestRepo.GetByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if request.Status != model.RequestStatusPending {
		return nil, ErrRequestNotPending
	}

	now := time.Now()
	expiresAt := now.Add(time.Duration(s.cfg.DurationDays) * 24 * time.Hour)

	if err := s.requestRepo.Approve(requestID, request.UserID, adminID, now, expiresAt); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 并发审批输掉的一方
			return nil, ErrRequestNotPending
		}
		return nil, err
	}

	s.audit(adminID, model.ActionRequestApprove, requestID, "approved plan request")
	s.publish(ctx, &pubsub.PlanEvent{
		Type:      pubsub.EventRequestApproved,
		RequestID: requestID,
		UserID:    request.UserID,
		AdminID:   adminID,
	})
	s.notifyDecision(request.UserID, true, expiresAt)

	return s.requestRepo.GetByID(requestID)
}

// Reject 驳回申请，用户可重新提交
func (s *PlanService) Reject(ctx context.Context, requestID, adminID int64) (*model.PlanRequest, error) {
	request, err := s.requestRepo.GetByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if request.Status != model.RequestStatusPending {
		return nil, ErrRequestNotPending
	}

	if err := s.requestRepo.Reject(requestID, adminID, time.Now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotPending
		}
		return nil, err
	}

	s.audit(adminID, model.ActionRequestReject, requestID, "rejected plan request")
	s.publish(ctx, &pubsub.PlanEvent{
		Type:      pubsub.EventRequestRejected,
		RequestID: requestID,
		UserID:    request.UserID,
		AdminID:   adminID,
	})
	s.notifyDecision(request.UserID, false, time.Time{})

	return s.requestRepo.GetByID(requestID)
}

func (s *PlanService) publish(ctx context.Context, event *pubsub.PlanEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPlanEvent(ctx, event); err != nil {
		log.Printf("Failed to publish plan event %s: %v", event.Type, err)
	}
}

func (s *PlanService) audit(adminID int64, action string, targetID int64, detail string) {
	if s.logRepo == nil {
		return
	}
	_ = s.logRepo.Create(&model.AdminLog{
		AdminID:    adminID,
		Action:     action,
		TargetType: "plan_request",
		TargetID:   targetID,
		Detail:     detail,
	})
}

// notifyDecision 审批结果邮件通知，异步发送，失败只记日志
func (s *PlanService) notifyDecision(userID int64, approved bool, expiresAt time.Time) {
	if s.emailSvc == nil {
		return
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		log.Printf("Failed to load user %d for decision mail: %v", userID, err)
		return
	}

	go func(to string) {
		var err error
		if approved {
			err = s.emailSvc.SendPlanApproved(to, expiresAt.Format("2006-01-02 15:04"))
		} else {
			err = s.emailSvc.SendPlanRejected(to)
		}
		if err != nil {
			log.Printf("Failed to send decision mail to %s: %v", to, err)
		}
	}(user.Email)
}

func buildPlanRequestItem(r *model.PlanRequest, userEmail string) *dto.PlanRequestItem {
	item := &dto.PlanRequestItem{
		ID:              r.ID,
		UserID:          r.UserID,
		UserEmail:       userEmail,
		WhatsappContact: r.WhatsappContact,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
	if r.PaymentProofURL != nil {
		item.PaymentProofURL = *r.PaymentProofURL
	}
	if r.ApprovedBy != nil {
		item.ApprovedBy = *r.ApprovedBy
	}
	if r.ApprovedAt != nil {
		item.ApprovedAt = r.ApprovedAt.Format(time.RFC3339)
	}
	return item
}
