package wire

import (
	"Cadence/internal/api"
	"Cadence/internal/api/config"
	"Cadence/internal/api/handler"
	"Cadence/internal/job"
	"Cadence/internal/pkg/cron"
	"Cadence/internal/pkg/kafka"
	"Cadence/internal/pkg/mongo"
	"Cadence/internal/pkg/platform"
	"Cadence/internal/pkg/render"
	"Cadence/internal/repository"
	"Cadence/internal/service"
	"context"

	"github.com/gin-gonic/gin"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongodriver.Database, cfg *config.Config) (*ApplicationContainer, error) {
	recordRepo := repository.NewPostRecordRepository(db)
	perfRepo := mongo.NewPerformanceRepo(mongoDB)

	registry := platform.NewRegistry(
		platform.NewShortVideoClient(cfg.Platforms.ShortVideo),
		platform.NewPhotoClient(cfg.Platforms.Photo),
	)

	configService := service.NewConfigService(service.NewRedisConfigStore())
	weightService := service.NewWeightService(perfRepo, service.NewRedisSnapshotStore())
	if err := weightService.WarmUp(context.Background()); err != nil {
		return nil, err
	}

	renderer := render.NewRenderer()
	planService := service.NewPlanService(
		recordRepo, registry, configService, weightService, renderer,
		cfg.Planner.TrendLimit, cfg.Planner.RandSeed,
	)

	dirtyMarker := service.NewRedisDirtyMarker()
	publishService := service.NewPublishService(recordRepo, registry, dirtyMarker, service.PublisherOptions{
		MaxAttempts: cfg.Publisher.MaxAttempts,
		BaseDelay:   cfg.Publisher.BaseDelay(),
		MaxDelay:    cfg.Publisher.MaxDelay(),
	})
	metricService := service.NewMetricService(recordRepo, perfRepo, registry, dirtyMarker)
	scheduleService := service.NewScheduleService(recordRepo)
	reportService := service.NewReportService(recordRepo, perfRepo, weightService)

	handlers := &api.HandlersGroup{
		PlanHandler:     handler.NewPlanHandler(planService, publishService),
		ScheduleHandler: handler.NewScheduleHandler(scheduleService),
		ReportHandler:   handler.NewReportHandler(reportService),
		ConfigHandler:   handler.NewConfigHandler(configService),
		MetricHandler:   handler.NewMetricHandler(metricService),
	}
	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(
		job.NewPublishDueJob(publishService),
		job.NewPostMetricsJob(metricService),
		job.NewWeightRecomputeJob(weightService),
		job.NewTrendRefreshJob(registry, configService),
	)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, metricService)
	if err != nil {
		return nil, err
	}

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
