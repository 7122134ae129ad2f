package api

import "Cadence/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	PlanHandler     *handler.PlanHandler
	ScheduleHandler *handler.ScheduleHandler
	ReportHandler   *handler.ReportHandler
	ConfigHandler   *handler.ConfigHandler
	MetricHandler   *handler.MetricHandler
}
