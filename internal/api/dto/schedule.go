package dto

// ScheduleQuery 计划列表过滤条件
type ScheduleQuery struct {
	Platform string `form:"platform"`
	Status   string `form:"status"`
	Niche    string `form:"niche"`
	From     string `form:"from"` // RFC3339，可空
	To       string `form:"to"`   // RFC3339，可空
}

// CancelRequest 取消计划的请求体
type CancelRequest struct {
	Reason string `json:"reason"` // 可空，落入 fail_reason
}

// RescheduleRequest 计划改期请求体
type RescheduleRequest struct {
	ScheduledAt string `json:"scheduled_at" binding:"required"` // RFC3339
}
