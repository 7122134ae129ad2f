package handler

import (
	"Cadence/internal/api/dto"
	"Cadence/internal/pkg/response"
	"Cadence/internal/service"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planSvc    service.PlanService
	publishSvc service.PublishService
}

func NewPlanHandler(planSvc service.PlanService, publishSvc service.PublishService) *PlanHandler {
	return &PlanHandler{
		planSvc:    planSvc,
		publishSvc: publishSvc,
	}
}

// Plan 生成未来数天的发布计划
func (h *PlanHandler) Plan(c *gin.Context) {
	var req dto.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	records, err := h.planSvc.Plan(c.Request.Context(), req.Days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, records)
}

// Execute 发布指定记录，不传 ids 时发布全部到期计划
func (h *PlanHandler) Execute(c *gin.Context) {
	var req dto.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	outcomes, err := h.publishSvc.Execute(c.Request.Context(), req.IDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, outcomes)
}
