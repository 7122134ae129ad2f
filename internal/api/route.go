package api

import (
	"Cadence/internal/api/middleware"
	"Cadence/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		apiGroup.POST("/plan", group.PlanHandler.Plan)
		apiGroup.POST("/execute", group.PlanHandler.Execute)
		apiGroup.GET("/report", group.ReportHandler.Report)

		scheduleGroup := apiGroup.Group("/schedule")
		{
			scheduleGroup.GET("", group.ScheduleHandler.List)
			scheduleGroup.GET("/:record_id", group.ScheduleHandler.Get)
			scheduleGroup.POST("/:record_id/cancel", group.ScheduleHandler.Cancel)
			scheduleGroup.POST("/:record_id/reschedule", group.ScheduleHandler.Reschedule)
		}

		configGroup := apiGroup.Group("/config")
		{
			configGroup.GET("", group.ConfigHandler.Get)
			configGroup.PUT("", group.ConfigHandler.Update)
		}

		metricsGroup := apiGroup.Group("/metrics")
		{
			metricsGroup.POST("/collect/:post_id", group.MetricHandler.Collect)
		}
	}

	return r
}
