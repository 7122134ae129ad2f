package handler

import (
	"Cadence/internal/pkg/response"
	"Cadence/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportSvc service.ReportService
}

func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Report 生成窗口期表现报告
func (h *ReportHandler) Report(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 90 {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		days = parsed
	}

	report, err := h.reportSvc.Report(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, report)
}
