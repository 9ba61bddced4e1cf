package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/dorama_go_server/config"
	"github.com/qs3c/dorama_go_server/internal/model"
	"github.com/qs3c/dorama_go_server/internal/model/dto"
	"github.com/qs3c/dorama_go_server/internal/pkg/whatsapp"
	"github.com/qs3c/dorama_go_server/internal/repository"
)

var (
	ErrMovieNotFound = errors.New("影片不存在")
)

type CatalogService struct {
	movieRepo    *repository.MovieRepository
	favoriteRepo *repository.FavoriteRepository
	adminLogRepo *repository.AdminLogRepository
	planCfg      *config.PlanConfig
}

func NewCatalogService(
	movieRepo *repository.MovieRepository,
	favoriteRepo *repository.FavoriteRepository,
	adminLogRepo *repository.AdminLogRepository,
	planCfg *config.PlanConfig,
) *CatalogService {
	return &CatalogService{
		movieRepo:    movieRepo,
		favoriteRepo: favoriteRepo,
		adminLogRepo: adminLogRepo,
		planCfg:      planCfg,
	}
}

// FilterMovies 按关键词过滤影片列表。
// 大小写不敏感的子串匹配，命中标题、类型或简介任一即保留；
// 空白关键词原样返回全部，不改变输入顺序。
// 非空关键词不做 trim，首尾空格参与匹配。
func FilterMovies(movies []*model.Movie, query string) []*model.Movie {
	if strings.TrimSpace(query) == "" {
		return movies
	}
	q := strings.ToLower(query)

	filtered := make([]*model.Movie, 0, len(movies))
	for _, m := range movies {
		if strings.Contains(strings.ToLower(m.Title), q) ||
			strings.Contains(strings.ToLower(m.Genre), q) ||
			strings.Contains(strings.ToLower(m.Description), q) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// ListMovies 获取影片列表，query 为空时返回全部，最新的在前
func (s *CatalogService) ListMovies(query string) ([]*dto.MovieListItem, error) {
	movies, err := s.movieRepo.List()
	if err != nil {
		return nil, err
	}

	movies = FilterMovies(movies, query)

	items := make([]*dto.MovieListItem, 0, len(movies))
	for _, m := range movies {
		items = append(items, buildMovieListItem(m))
	}
	return items, nil
}

// GetMovie 获取影片详情。
// viewer 为 nil 表示未登录；播放地址只对有有效套餐的用户返回。
func (s *CatalogService) GetMovie(id int64, viewer *model.User) (*dto.MovieDetail, error) {
	movie, err := s.movieRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	detail := &dto.MovieDetail{
		ID:          movie.ID,
		Title:       movie.Title,
		Description: movie.Description,
		Genre:       movie.Genre,
		Year:        movie.Year,
		Duration:    movie.Duration,
		Rating:      movie.Rating,
		Price:       movie.Price,
		Poster:      movie.Poster,
		Locked:      true,
		CreatedAt:   movie.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   movie.UpdatedAt.Format(time.RFC3339),
	}

	// 详情页的 WhatsApp 咨询入口，文案预填片名与价格
	if s.planCfg != nil && s.planCfg.WhatsappNumber != "" {
		detail.WhatsappLink = whatsapp.MovieLink(s.planCfg.WhatsappNumber, movie.Title, movie.Price)
	}

	if IsEntitled(viewer, time.Now()) {
		detail.Locked = false
		if movie.Trailer != nil {
			detail.Trailer = *movie.Trailer
		}
	}

	if viewer != nil {
		favorited, err := s.favoriteRepo.Exists(viewer.ID, movie.ID)
		if err != nil {
			return nil, err
		}
		detail.Favorited = favorited
	}

	return detail, nil
}

// CreateMovie 新增影片（管理员操作，写审计日志）
func (s *CatalogService) CreateMovie(adminID int64, req *dto.CreateMovieRequest) (*model.Movie, error) {
	movie := &model.Movie{
		Title:       req.Title,
		Description: req.Description,
		Genre:       req.Genre,
		Year:        req.Year,
		Duration:    req.Duration,
		Rating:      req.Rating,
		Price:       req.Price,
		Poster:      req.Poster,
		Trailer:     req.Trailer,
	}

	if err := s.movieRepo.Create(movie); err != nil {
		return nil, err
	}

	s.audit(adminID, model.ActionMovieCreate, movie.ID, fmt.Sprintf("created movie: %s", movie.Title))
	return movie, nil
}

// UpdateMovie 编辑影片，只更新请求中出现的字段
func (s *CatalogService) UpdateMovie(adminID, id int64, req *dto.UpdateMovieRequest) (*model.Movie, error) {
	movie, err := s.movieRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Genre != nil {
		fields["genre"] = *req.Genre
	}
	if req.Year != nil {
		fields["year"] = *req.Year
	}
	if req.Duration != nil {
		fields["duration"] = *req.Duration
	}
	if req.Rating != nil {
		fields["rating"] = *req.Rating
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Poster != nil {
		fields["poster"] = *req.Poster
	}
	if req.Trailer != nil {
		fields["trailer"] = *req.Trailer
	}

	if len(fields) > 0 {
		if err := s.movieRepo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}

	updated, err := s.movieRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	s.audit(adminID, model.ActionMovieUpdate, id, fmt.Sprintf("updated movie: %s", movie.Title))
	return updated, nil
}

// DeleteMovie 下架影片并清理关联收藏
func (s *CatalogService) DeleteMovie(adminID, id int64) error {
	movie, err := s.movieRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMovieNotFound
		}
		return err
	}

	if err := s.movieRepo.Delete(id); err != nil {
		return err
	}
	if err := s.favoriteRepo.DeleteByMovie(id); err != nil {
		return err
	}

	s.audit(adminID, model.ActionMovieDelete, id, fmt.Sprintf("deleted movie: %s", movie.Title))
	return nil
}

// WatchMovie 获取播放地址，权限校验由上层中间件完成。
// 返回空串表示该影片暂无可播放资源。
func (s *CatalogService) WatchMovie(id int64) (string, error) {
	movie, err := s.movieRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrMovieNotFound
		}
		return "", err
	}
	if movie.Trailer == nil {
		return "", nil
	}
	return *movie.Trailer, nil
}

// ListAdminLogs 管理端分页查看操作日志
func (s *CatalogService) ListAdminLogs(page, pageSize int) ([]*dto.AdminLogItem, int64, error) {
	entries, total, err := s.adminLogRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.AdminLogItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, &dto.AdminLogItem{
			ID:         e.ID,
			AdminID:    e.AdminID,
			Action:     e.Action,
			TargetType: e.TargetType,
			TargetID:   e.TargetID,
			Detail:     e.Detail,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		})
	}
	return items, total, nil
}

// audit 审计日志尽力而为，失败不阻断主流程
func (s *CatalogService) audit(adminID int64, action string, targetID int64, detail string) {
	if s.adminLogRepo == nil {
		return
	}
	_ = s.adminLogRepo.Create(&model.AdminLog{
		AdminID:    adminID,
		Action:     action,
		TargetType: "movie",
		TargetID:   targetID,
		Detail:     detail,
	})
}

func buildMovieListItem(m *model.Movie) *dto.MovieListItem {
	return &dto.MovieListItem{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Genre:       m.Genre,
		Year:        m.Year,
		Duration:    m.Duration,
		Rating:      m.Rating,
		Price:       m.Price,
		Poster:      m.Poster,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}
