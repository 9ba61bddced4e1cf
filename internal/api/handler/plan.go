package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/dorama_go_server/config"
	"github.com/qs3c/dorama_go_server/internal/api/middleware"
	"github.com/qs3c/dorama_go_server/internal/model/dto"
	"github.com/qs3c/dorama_go_server/internal/pkg/oss"
	"github.com/qs3c/dorama_go_server/internal/pkg/response"
	"github.com/qs3c/dorama_go_server/internal/service"
)

type PlanHandler struct {
	planService *service.PlanService
	ossClient   *oss.Client
	uploadCfg   *config.UploadConfig
}

func NewPlanHandler(planService *service.PlanService, ossClient *oss.Client, uploadCfg *config.UploadConfig) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		ossClient:   ossClient,
		uploadCfg:   uploadCfg,
	}
}

// Info 套餐购买信息（Pix 密钥、价格、WhatsApp 跳转链接）
// GET /api/v1/plan
func (h *PlanHandler) Info(c *gin.Context) {
	response.Success(c, h.planService.GetPlanInfo())
}

// Submit 提交付款申请
// POST /api/v1/plan/requests
func (h *PlanHandler) Submit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.SubmitPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	request, err := h.planService.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrPendingRequestExists) {
			response.DuplicateError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "申请已提交，等待人工审核", request)
}

// UploadPaymentProof 上传付款凭证，返回的 URL 随 Submit 一起提交
// POST /api/v1/plan/payment-proof
func (h *PlanHandler) UploadPaymentProof(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	// 凭证除了截图也接受 PDF
	data, ext, ok := readUpload(c, h.uploadCfg, []string{".jpg", ".jpeg", ".png", ".webp", ".pdf"})
	if !ok {
		return
	}

	if h.ossClient == nil {
		response.ServerError(c, "上传服务未配置")
		return
	}

	proofURL, err := h.ossClient.UploadPaymentProof(userID, data, ext)
	if err != nil {
		response.ServerError(c, "上传失败")
		return
	}

	response.Success(c, gin.H{
		"url": proofURL,
	})
}

// MyRequests 当前用户的申请历史
// GET /api/v1/plan/requests
func (h *PlanHandler) MyRequests(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	items, err := h.planService.MyRequests(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{
		"requests": items,
	})
}
