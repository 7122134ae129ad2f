package cron

import (
	"Cadence/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine          *cron.Cron
	publishDueJob   *job.PublishDueJob
	postMetricsJob  *job.PostMetricsJob
	weightJob       *job.WeightRecomputeJob
	trendRefreshJob *job.TrendRefreshJob
}

func NewCronManager(
	publishDueJob *job.PublishDueJob,
	postMetricsJob *job.PostMetricsJob,
	weightJob *job.WeightRecomputeJob,
	trendRefreshJob *job.TrendRefreshJob,
) *Manager {
	return &Manager{
		engine:          cron.New(cron.WithSeconds()),
		publishDueJob:   publishDueJob,
		postMetricsJob:  postMetricsJob,
		weightJob:       weightJob,
		trendRefreshJob: trendRefreshJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("@every 1m", s.publishDueJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@hourly", s.postMetricsJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@daily", s.weightJob); err != nil {
		return err
	}
	// 趋势榜单在每天 01:00 刷新，错开零点的权重重建
	if _, err := s.engine.AddJob("0 0 1 * * *", s.trendRefreshJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
