package dto

// PlanInfoResponse 套餐购买信息（静态展示 + WhatsApp 跳转链接）
type PlanInfoResponse struct {
	PixKey         string  `json:"pix_key"`
	PriceBRL       float64 `json:"price_brl"`
	DurationDays   int     `json:"duration_days"`
	WhatsappNumber string  `json:"whatsapp_number"`
	WhatsappLink   string  `json:"whatsapp_link"` // wa.me 深链，带预填付款确认文案
}

// SubmitPlanRequest 提交付款申请
type SubmitPlanRequest struct {
	WhatsappContact string  `json:"whatsapp_contact" binding:"required,max=50"`
	PaymentProofURL *string `json:"payment_proof_url,omitempty" binding:"omitempty,url,max=500"`
}

// PlanRequestItem 付款申请条目
type PlanRequestItem struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"user_id"`
	UserEmail       string `json:"user_email,omitempty"`
	WhatsappContact string `json:"whatsapp_contact"`
	Status          string `json:"status"`
	PaymentProofURL string `json:"payment_proof_url,omitempty"`
	ApprovedBy      int64  `json:"approved_by,omitempty"`
	ApprovedAt      string `json:"approved_at,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// AdminLogItem 审计日志条目
type AdminLogItem struct {
	ID         int64  `json:"id"`
	AdminID    int64  `json:"admin_id"`
	Action     string `json:"action"`
	TargetType string `json:"target_type"`
	TargetID   int64  `json:"target_id"`
	Detail     string `json:"detail,omitempty"`
	CreatedAt  string `json:"created_at"`
}
