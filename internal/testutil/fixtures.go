package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/dorama_go_server/internal/model"
)

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Email:         fmt.Sprintf("test_%d@example.com", time.Now().UnixNano()),
		PasswordHash:  &passwordHash,
		PlanStatus:    model.PlanStatusInactive,
		EmailVerified: true,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = email
	}
}

// WithActivePlan 设置有效套餐（到期时间在未来）
func WithActivePlan(expiresAt time.Time) func(*model.User) {
	return func(u *model.User) {
		u.PlanStatus = model.PlanStatusActive
		u.PlanExpiresAt = &expiresAt
	}
}

// WithPlanStatus 设置套餐状态与到期时间
func WithPlanStatus(status string, expiresAt *time.Time) func(*model.User) {
	return func(u *model.User) {
		u.PlanStatus = status
		u.PlanExpiresAt = expiresAt
	}
}

// WithBanned 设置封禁标记
func WithBanned() func(*model.User) {
	return func(u *model.User) {
		u.IsBanned = true
	}
}

// TestProfile 创建测试角色档案
func TestProfile(t *testing.T, db *gorm.DB, userID int64, role string) *model.Profile {
	t.Helper()

	profile := &model.Profile{
		UserID: userID,
		Role:   role,
	}

	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}

	return profile
}

// TestMovie 创建测试影片
func TestMovie(t *testing.T, db *gorm.DB, opts ...func(*model.Movie)) *model.Movie {
	t.Helper()

	movie := &model.Movie{
		Title:       fmt.Sprintf("Test Movie %d", time.Now().UnixNano()%100000),
		Description: "A test movie description",
		Genre:       "Drama",
		Year:        2020,
		Duration:    "2h 0min",
		Rating:      8.0,
		Price:       10.00,
		Poster:      "https://example.com/poster.jpg",
	}

	for _, opt := range opts {
		opt(movie)
	}

	if err := db.Create(movie).Error; err != nil {
		t.Fatalf("Failed to create test movie: %v", err)
	}

	return movie
}

// WithTitle 设置影片标题
func WithTitle(title string) func(*model.Movie) {
	return func(m *model.Movie) {
		m.Title = title
	}
}

// WithGenre 设置影片类型
func WithGenre(genre string) func(*model.Movie) {
	return func(m *model.Movie) {
		m.Genre = genre
	}
}

// WithDescription 设置影片简介
func WithDescription(description string) func(*model.Movie) {
	return func(m *model.Movie) {
		m.Description = description
	}
}

// WithTrailer 设置播放地址
func WithTrailer(trailer string) func(*model.Movie) {
	return func(m *model.Movie) {
		m.Trailer = &trailer
	}
}

// WithCreatedAt 设置创建时间（用于校验列表排序）
func WithCreatedAt(createdAt time.Time) func(*model.Movie) {
	return func(m *model.Movie) {
		m.CreatedAt = createdAt
	}
}

// TestPlanRequest 创建待审批的测试付款申请
func TestPlanRequest(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.PlanRequest)) *model.PlanRequest {
	t.Helper()

	pendingKey := userID
	req := &model.PlanRequest{
		UserID:          userID,
		WhatsappContact: "11999998888",
		Status:          model.RequestStatusPending,
		PendingKey:      &pendingKey,
	}

	for _, opt := range opts {
		opt(req)
	}

	if err := db.Create(req).Error; err != nil {
		t.Fatalf("Failed to create test plan request: %v", err)
	}

	return req
}

// WithDecided 设置为已审批终态
func WithDecided(status string, adminID int64) func(*model.PlanRequest) {
	return func(r *model.PlanRequest) {
		now := time.Now()
		r.Status = status
		r.PendingKey = nil
		r.ApprovedBy = &adminID
		r.ApprovedAt = &now
	}
}

// TestFavorite 创建测试收藏
func TestFavorite(t *testing.T, db *gorm.DB, userID, movieID int64) *model.Favorite {
	t.Helper()

	favorite := &model.Favorite{
		UserID:  userID,
		MovieID: movieID,
	}

	if err := db.Create(favorite).Error; err != nil {
		t.Fatalf("Failed to create test favorite: %v", err)
	}

	return favorite
}
