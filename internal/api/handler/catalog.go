package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/dorama_go_server/internal/api/middleware"
	"github.com/qs3c/dorama_go_server/internal/model"
	"github.com/qs3c/dorama_go_server/internal/pkg/response"
	"github.com/qs3c/dorama_go_server/internal/repository"
	"github.com/qs3c/dorama_go_server/internal/service"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
	userRepo       *repository.UserRepository
}

func NewCatalogHandler(catalogService *service.CatalogService, userRepo *repository.UserRepository) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		userRepo:       userRepo,
	}
}

// List 影片列表，q 为空返回全部
// GET /api/v1/movies?q=xxx
func (h *CatalogHandler) List(c *gin.Context) {
	items, err := h.catalogService.ListMovies(c.Query("q"))
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{
		"movies": items,
		"total":  len(items),
	})
}

// Get 影片详情，播放地址按会话权限裁剪
// GET /api/v1/movies/:id
func (h *CatalogHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的影片 ID")
		return
	}

	// 可选认证，未登录 viewer 为 nil
	var viewer *model.User
	if userID, ok := middleware.GetUserID(c); ok {
		if user, err := h.userRepo.GetByID(userID); err == nil {
			viewer = user
		}
	}

	detail, err := h.catalogService.GetMovie(id, viewer)
	if err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, detail)
}

// Watch 获取播放地址，挂在 Auth + Entitled 之后
// GET /api/v1/movies/:id/watch
func (h *CatalogHandler) Watch(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的影片 ID")
		return
	}

	trailer, err := h.catalogService.WatchMovie(id)
	if err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	if trailer == "" {
		response.NotFoundError(c, "该影片暂无可播放资源")
		return
	}

	response.Success(c, gin.H{
		"trailer": trailer,
	})
}
