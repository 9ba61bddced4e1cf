package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/dorama_go_server/internal/model"
	"github.com/qs3c/dorama_go_server/internal/model/dto"
	"github.com/qs3c/dorama_go_server/internal/repository"
)

type FavoriteService struct {
	favoriteRepo *repository.FavoriteRepository
	movieRepo    *repository.MovieRepository
}

func NewFavoriteService(
	favoriteRepo *repository.FavoriteRepository,
	movieRepo *repository.MovieRepository,
) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		movieRepo:    movieRepo,
	}
}

// Toggle 收藏/取消收藏，返回操作后的收藏状态
func (s *FavoriteService) Toggle(userID, movieID int64) (bool, error) {
	if _, err := s.movieRepo.GetByID(movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrMovieNotFound
		}
		return false, err
	}

	exists, err := s.favoriteRepo.Exists(userID, movieID)
	if err != nil {
		return false, err
	}

	if exists {
		if err := s.favoriteRepo.Delete(userID, movieID); err != nil {
			return false, err
		}
		return false, nil
	}

	err = s.favoriteRepo.Create(&model.Favorite{UserID: userID, MovieID: movieID})
	if err != nil {
		// 并发收藏撞唯一索引时当作已收藏
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// List 用户收藏的影片列表，最近收藏的在前
func (s *FavoriteService) List(userID int64) ([]*dto.MovieListItem, error) {
	movies, err := s.favoriteRepo.ListMoviesByUser(userID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.MovieListItem, 0, len(movies))
	for _, m := range movies {
		items = append(items, buildMovieListItem(m))
	}
	return items, nil
}
