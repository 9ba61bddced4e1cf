package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/dorama_go_server/internal/model"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) Create(movie *model.Movie) error {
	return r.db.Create(movie).Error
}

func (r *MovieRepository) GetByID(id int64) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.Where("id = ?", id).First(&movie).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// List 返回全部影片，按创建时间倒序（最新的在前）
func (r *MovieRepository) List() ([]*model.Movie, error) {
	var movies []*model.Movie
	err := r.db.Order("created_at DESC, id DESC").Find(&movies).Error
	return movies, err
}

func (r *MovieRepository) Update(movie *model.Movie) error {
	return r.db.Save(movie).Error
}

func (r *MovieRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Movie{}).Where("id = ?", id).Updates(fields).Error
}

func (r *MovieRepository) Delete(id int64) error {
	return r.db.Delete(&model.Movie{}, id).Error
}

func (r *MovieRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Movie{}).Count(&count).Error
	return count, err
}
