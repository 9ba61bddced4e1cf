package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/dorama_go_server/internal/model"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Create 添加收藏，重复收藏返回 gorm.ErrDuplicatedKey
func (r *FavoriteRepository) Create(favorite *model.Favorite) error {
	return r.db.Create(favorite).Error
}

// Delete 取消收藏
func (r *FavoriteRepository) Delete(userID, movieID int64) error {
	return r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&model.Favorite{}).Error
}

// Exists 检查是否已收藏
func (r *FavoriteRepository) Exists(userID, movieID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Favorite{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(&count).Error
	return count > 0, err
}

// ListMovieIDs 获取用户收藏的影片 ID 列表，最近收藏的在前
func (r *FavoriteRepository) ListMovieIDs(userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Pluck("movie_id", &ids).Error
	return ids, err
}

// ListMoviesByUser 获取用户收藏的影片，最近收藏的在前
func (r *FavoriteRepository) ListMoviesByUser(userID int64) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := r.db.Model(&model.Movie{}).
		Joins("JOIN favorites ON favorites.movie_id = movies.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC, favorites.id DESC").
		Find(&movies).Error
	return movies, err
}

// DeleteByMovie 影片下架时清理所有收藏记录
func (r *FavoriteRepository) DeleteByMovie(movieID int64) error {
	return r.db.Where("movie_id = ?", movieID).Delete(&model.Favorite{}).Error
}
