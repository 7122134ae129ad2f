package handler

import (
	"Cadence/internal/api/dto"
	"Cadence/internal/pkg/response"
	"Cadence/internal/service"
	"time"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// List 按条件查询计划列表
func (h *ScheduleHandler) List(c *gin.Context) {
	var query dto.ScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	from, err := parseTimeParam(query.From)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	to, err := parseTimeParam(query.To)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	records, err := h.scheduleSvc.List(c.Request.Context(), query.Platform, query.Status, query.Niche, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, records)
}

// Get 查询单条计划
func (h *ScheduleHandler) Get(c *gin.Context) {
	rec, err := h.scheduleSvc.Get(c.Request.Context(), c.Param("record_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rec)
}

// Cancel 取消一条待发布计划
func (h *ScheduleHandler) Cancel(c *gin.Context) {
	var req dto.CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, err)
			return
		}
	}

	rec, err := h.scheduleSvc.Cancel(c.Request.Context(), c.Param("record_id"), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rec)
}

// Reschedule 把一条待发布计划改期到新槽位
func (h *ScheduleHandler) Reschedule(c *gin.Context) {
	var req dto.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	at, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	rec, err := h.scheduleSvc.Reschedule(c.Request.Context(), c.Param("record_id"), at)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rec)
}

func parseTimeParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
