package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/dorama_go_server/internal/model"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(profile *model.Profile) error {
	return r.db.Create(profile).Error
}

func (r *ProfileRepository) GetByUserID(userID int64) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) Update(profile *model.Profile) error {
	return r.db.Save(profile).Error
}

func (r *ProfileRepository) UpdateFields(userID int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Profile{}).Where("user_id = ?", userID).Updates(fields).Error
}

// IsAdmin 检查用户是否为管理员
func (r *ProfileRepository) IsAdmin(userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Profile{}).
		Where("user_id = ? AND role = ?", userID, model.RoleAdmin).
		Count(&count).Error
	return count > 0, err
}

// ListAdminIDs 返回所有管理员的用户 ID，用于站内通知
func (r *ProfileRepository) ListAdminIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Profile{}).
		Where("role = ?", model.RoleAdmin).
		Pluck("user_id", &ids).Error
	return ids, err
}
