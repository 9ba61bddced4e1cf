package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/dorama_go_server/internal/model"
)

type AdminLogRepository struct {
	db *gorm.DB
}

func NewAdminLogRepository(db *gorm.DB) *AdminLogRepository {
	return &AdminLogRepository{db: db}
}

func (r *AdminLogRepository) Create(entry *model.AdminLog) error {
	return r.db.Create(entry).Error
}

// List 分页获取操作日志，最新的在前
func (r *AdminLogRepository) List(page, pageSize int) ([]*model.AdminLog, int64, error) {
	var total int64
	var entries []*model.AdminLog

	query := r.db.Model(&model.AdminLog{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&entries).Error
	return entries, total, err
}

// PruneBefore 清理指定时间之前的日志，返回删除行数
func (r *AdminLogRepository) PruneBefore(cutoff time.Time) (int64, error) {
	res := r.db.Where("created_at < ?", cutoff).Delete(&model.AdminLog{})
	return res.RowsAffected, res.Error
}
