package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/dorama_go_server/config"
	"github.com/qs3c/dorama_go_server/internal/model"
	"github.com/qs3c/dorama_go_server/internal/model/dto"
	"github.com/qs3c/dorama_go_server/internal/repository"
	"github.com/qs3c/dorama_go_server/internal/testutil"
)

func setupPlanService(t *testing.T) (*PlanService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := &config.PlanConfig{
		PixKey:         "pix-key-abc",
		WhatsappNumber: "+55 11 99999-8888",
		PriceBRL:       20.0,
		DurationDays:   30,
	}

	svc := NewPlanService(
		repository.NewPlanRequestRepository(db),
		repository.NewUserRepository(db),
		repository.NewAdminLogRepository(db),
		cfg,
		nil, // publisher
		nil, // email
	)
	return svc, db
}

func TestPlanService_GetPlanInfo(t *testing.T) {
	svc, _ := setupPlanService(t)

	info := svc.GetPlanInfo()

	assert.Equal(t, "pix-key-abc", info.PixKey)
	assert.Equal(t, 20.0, info.PriceBRL)
	assert.Equal(t, 30, info.DurationDays)
	assert.Contains(t, info.WhatsappLink, "wa.me/5511999998888")
}

func TestPlanService_Submit(t *testing.T) {
	svc, db := setupPlanService(t)

	user := testutil.TestUser(t, db)

	req, err := svc.Submit(context.Background(), user.ID, &dto.SubmitPlanRequest{
		WhatsappContact: "11988887777",
	})
	require.NoError(t, err)
	assert.NotZero(t, req.ID)
	assert.Equal(t, model.RequestStatusPending, req.Status)
	assert.Equal(t, "11988887777", req.WhatsappContact)
}

func TestPlanService_Submit_DuplicatePending(t *testing.T) {
	svc, db := setupPlanService(t)

	user := testutil.TestUser(t, db)

	_, err := svc.Submit(context.Background(), user.ID, &dto.SubmitPlanRequest{WhatsappContact: "111"})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), user.ID, &dto.SubmitPlanRequest{WhatsappContact: "222"})
	assert.ErrorIs(t, err, ErrPendingRequestExists)
}

func TestPlanService_Submit_AfterRejection(t *testing.T) {
	svc, db := setupPlanService(t)

	user := testutil.TestUser(t, db)
	admin := testutil.TestUser(t, db)

	first, err := svc.Submit(context.Background(), user.ID, &dto.SubmitPlanRequest{WhatsappContact: "111"})
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), first.ID, admin.ID)
	require.NoError(t, err)

	// 申请被驳回后可以重新提交
	_, err = svc.Submit(context.Background(), user.ID, &dto.SubmitPlanRequest{WhatsappContact: "222"})
	assert.NoError(t, err)
}

func TestPlanService_Approve(t *testing.T) {
	svc, db := setupPlanService(t)

	user := testutil.TestUser(t, db)
	admin := testutil.TestUser(t, db)

	req, err := svc.Submit(context.Background(), user.ID, &dto.SubmitPlanRequest{WhatsappContact: "111"})
	require.NoError(t, err)

	decided, err := svc.Approve(context.Background(), req.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusApproved, decided.Status)
	require.NotNil(t, decided.ApprovedBy)
	assert.Equal(t, admin.ID, *decided.ApprovedBy)

	// 会员同步开通，30 天有效期
	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, model.PlanStatusActive, updated.PlanStatus)
	require.NotNil(t, updated.PlanExpiresAt)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), *updated.PlanExpiresAt, time.Minute)

	// 审计日志
	var logs []model.AdminLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, model.ActionRequestApprove, logs[0].Action)
}

func TestPlanService_Approve_ResetsNotStacks(t *testing.T) {
	svc, db := setupPlanService(t)

	// 还剩 20 天的会员再次获批，新到期时间从现在重算而不是 +30 天叠加
	user := testutil.TestUser(t, db, testutil.WithActivePlan(time.Now().Add(20*24*time.Hour)))
	admin := testutil.TestUser(t, db)

	req, err := svc.Submit(context.Background(), user.ID, &dto.SubmitPlanRequest{WhatsappContact: "111"})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), req.ID, admin.ID)
	require.NoError(t, err)

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	require.NotNil(t, updated.PlanExpiresAt)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), *updated.PlanExpiresAt, time.Minute)
}

func TestPlanService_Approve_NotFound(t *testing.T) {
	svc, db := setupPlanService(t)

	admin := testutil.TestUser(t, db)

	_, err := svc.Approve(context.Background(), 99999, admin.ID)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestPlanService_Approve_AlreadyDecided(t *testing.T) {
	svc, db := setupPlanService(t)

	user := testutil.TestUser(t, db)
	admin := testutil.TestUser(t, db)

	req, err := svc.Submit(context.Background(), user.ID, &dto.SubmitPlanRequest{WhatsappContact: "111"})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), req.ID, admin.ID)
	require.NoError(t, err)

	// 二次审批(批准或驳回)都拒绝
	_, err = svc.Approve(context.Background(), req.ID, admin.ID)
	assert.ErrorIs(t, err, ErrRequestNotPending)

	_, err = svc.Reject(context.Background(), req.ID, admin.ID)
	assert.ErrorIs(t, err, ErrRequestNotPending)
}

func TestPlanService_Reject(t *testing.T) {
	svc, db := setupPlanService(t)

	user := testutil.TestUser(t, db)
	admin := testutil.TestUser(t, db)

	req, err := svc.Submit(context.Background(), user.ID, &dto.SubmitPlanRequest{WhatsappContact: "111"})
	require.NoError(t, err)

	decided, err := svc.Reject(context.Background(), req.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusRejected, decided.Status)

	// 驳回不开通会员
	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, model.PlanStatusInactive, updated.PlanStatus)
}

func TestPlanService_MyRequests(t *testing.T) {
	svc, db := setupPlanService(t)

	user := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)

	_, err := svc.Submit(context.Background(), user.ID, &dto.SubmitPlanRequest{WhatsappContact: "111"})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), other.ID, &dto.SubmitPlanRequest{WhatsappContact: "222"})
	require.NoError(t, err)

	items, err := svc.MyRequests(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, user.ID, items[0].UserID)
	assert.Equal(t, model.RequestStatusPending, items[0].Status)
}

func TestPlanService_ListRequests_WithUserEmail(t *testing.T) {
	svc, db := setupPlanService(t)

	user := testutil.TestUser(t, db, testutil.WithEmail("requester@example.com"))

	_, err := svc.Submit(context.Background(), user.ID, &dto.SubmitPlanRequest{WhatsappContact: "111"})
	require.NoError(t, err)

	items, total, err := svc.ListRequests(model.RequestStatusPending, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "requester@example.com", items[0].UserEmail)
}
