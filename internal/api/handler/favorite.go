package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/dorama_go_server/internal/api/middleware"
	"github.com/qs3c/dorama_go_server/internal/model/dto"
	"github.com/qs3c/dorama_go_server/internal/pkg/response"
	"github.com/qs3c/dorama_go_server/internal/service"
)

type FavoriteHandler struct {
	favoriteService *service.FavoriteService
}

func NewFavoriteHandler(favoriteService *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
	}
}

// Toggle 收藏/取消收藏
// POST /api/v1/movies/:id/favorite
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	movieID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的影片 ID")
		return
	}

	favorited, err := h.favoriteService.Toggle(userID, movieID)
	if err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, dto.FavoriteResponse{Favorited: favorited})
}

// List 当前用户的收藏列表
// GET /api/v1/user/favorites
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	items, err := h.favoriteService.List(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{
		"movies": items,
		"total":  len(items),
	})
}
