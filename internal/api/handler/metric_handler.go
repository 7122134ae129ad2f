package handler

import (
	"Cadence/internal/pkg/response"
	"Cadence/internal/service"

	"github.com/gin-gonic/gin"
)

type MetricHandler struct {
	metricSvc service.MetricService
}

func NewMetricHandler(metricSvc service.MetricService) *MetricHandler {
	return &MetricHandler{metricSvc: metricSvc}
}

// Collect 手动触发单帖指标采集
func (h *MetricHandler) Collect(c *gin.Context) {
	postID := c.Param("post_id")
	if postID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	snapshot, err := h.metricSvc.Collect(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, snapshot)
}
