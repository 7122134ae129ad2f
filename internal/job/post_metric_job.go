package job

import (
	"Cadence/internal/pkg/consts"
	"Cadence/internal/pkg/logger"
	"Cadence/internal/pkg/redis"
	"Cadence/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/google/uuid"
)

// PostMetricsJob 每小时消化指标脏集合：把集合原子改名为 processing 快照，
// 逐条采集后删除快照。改名失败说明没有脏数据，直接返回。
type PostMetricsJob struct {
	metricSvc service.MetricService
}

func NewPostMetricsJob(metricSvc service.MetricService) *PostMetricsJob {
	return &PostMetricsJob{metricSvc: metricSvc}
}

func (s *PostMetricsJob) Run() {
	traceID := "job-metric-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	processingKey := consts.MetricDirtyKey + ":processing"
	if err := redis.Rename(ctx, consts.MetricDirtyKey, processingKey); err != nil {
		return
	}

	postIDs, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get metric dirty set error", "err", err)
		return
	}

	var collected, skipped int
	for _, postID := range postIDs {
		if _, err := s.metricSvc.Collect(ctx, postID); err != nil {
			// 记录被并发改到非 posted 状态时跳过，留给下一轮
			if errors.Is(err, service.ErrNotPosted) || errors.Is(err, service.ErrRecordNotFound) {
				skipped++
				continue
			}
			log.ErrorContext(ctx, "collect metrics error", "post_id", postID, "err", err)
			continue
		}
		collected++
	}

	if err := redis.DeleteKey(ctx, processingKey); err != nil {
		log.ErrorContext(ctx, "delete metric processing set error", "err", err)
	}

	log.InfoContext(ctx, "sync post metrics success",
		"total", len(postIDs), "collected", collected, "skipped", skipped)
}
