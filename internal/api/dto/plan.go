package dto

// PlanRequest 规划请求
type PlanRequest struct {
	Days int `json:"days" binding:"required,min=1,max=30"`
}

// ExecuteRequest 发布请求，IDs 为空时发布全部到期计划
type ExecuteRequest struct {
	IDs []string `json:"ids"`
}
