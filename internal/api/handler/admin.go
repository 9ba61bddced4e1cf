package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/dorama_go_server/config"
	"github.com/qs3c/dorama_go_server/internal/api/middleware"
	"github.com/qs3c/dorama_go_server/internal/model/dto"
	"github.com/qs3c/dorama_go_server/internal/pkg/oss"
	"github.com/qs3c/dorama_go_server/internal/pkg/response"
	"github.com/qs3c/dorama_go_server/internal/service"
)

type AdminHandler struct {
	catalogService *service.CatalogService
	planService    *service.PlanService
	ossClient      *oss.Client
	uploadCfg      *config.UploadConfig
}

func NewAdminHandler(
	catalogService *service.CatalogService,
	planService *service.PlanService,
	ossClient *oss.Client,
	uploadCfg *config.UploadConfig,
) *AdminHandler {
	return &AdminHandler{
		catalogService: catalogService,
		planService:    planService,
		ossClient:      ossClient,
		uploadCfg:      uploadCfg,
	}
}

// CreateMovie 新增影片
// POST /api/v1/admin/movies
func (h *AdminHandler) CreateMovie(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	movie, err := h.catalogService.CreateMovie(adminID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "影片已创建", movie)
}

// UpdateMovie 编辑影片
// PUT /api/v1/admin/movies/:id
func (h *AdminHandler) UpdateMovie(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的影片 ID")
		return
	}

	var req dto.UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	movie, err := h.catalogService.UpdateMovie(adminID, id, &req)
	if err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "影片已更新", movie)
}

// DeleteMovie 下架影片
// DELETE /api/v1/admin/movies/:id
func (h *AdminHandler) DeleteMovie(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的影片 ID")
		return
	}

	if err := h.catalogService.DeleteMovie(adminID, id); err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "影片已删除", nil)
}

// UploadPoster 上传影片海报并替换 poster 字段
// POST /api/v1/admin/movies/:id/poster
func (h *AdminHandler) UploadPoster(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的影片 ID")
		return
	}

	data, ext, ok := readUpload(c, h.uploadCfg, []string{".jpg", ".jpeg", ".png", ".webp"})
	if !ok {
		return
	}

	if h.ossClient == nil {
		response.ServerError(c, "上传服务未配置")
		return
	}

	posterURL, err := h.ossClient.UploadPoster(id, data, ext)
	if err != nil {
		response.ServerError(c, "上传失败")
		return
	}

	movie, err := h.catalogService.UpdateMovie(adminID, id, &dto.UpdateMovieRequest{Poster: &posterURL})
	if err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "海报已更新", movie)
}

// ListRequests 付款申请列表
// GET /api/v1/admin/plan-requests?status=pending&page=1&page_size=20
func (h *AdminHandler) ListRequests(c *gin.Context) {
	status := c.Query("status")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.planService.ListRequests(status, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// ApproveRequest 批准付款申请并开通会员
// POST /api/v1/admin/plan-requests/:id/approve
func (h *AdminHandler) ApproveRequest(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的申请 ID")
		return
	}

	request, err := h.planService.Approve(c.Request.Context(), id, adminID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrRequestNotPending):
			response.InvalidStateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "申请已批准", request)
}

// RejectRequest 驳回付款申请
// POST /api/v1/admin/plan-requests/:id/reject
func (h *AdminHandler) RejectRequest(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的申请 ID")
		return
	}

	request, err := h.planService.Reject(c.Request.Context(), id, adminID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrRequestNotPending):
			response.InvalidStateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "申请已驳回", request)
}

// ListLogs 操作审计日志
// GET /api/v1/admin/logs?page=1&page_size=20
func (h *AdminHandler) ListLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.catalogService.ListAdminLogs(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}
