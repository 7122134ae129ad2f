package job

import (
	"Cadence/internal/pkg/consts"
	"Cadence/internal/pkg/logger"
	"Cadence/internal/pkg/redis"
	"Cadence/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// PublishDueJob 每分钟扫描到期未发布的计划并提交。
// 分布式锁保证重叠触发或多实例部署时不会重复提交。
type PublishDueJob struct {
	publishSvc service.PublishService
}

func NewPublishDueJob(publishSvc service.PublishService) *PublishDueJob {
	return &PublishDueJob{publishSvc: publishSvc}
}

func (s *PublishDueJob) Run() {
	traceID := "job-publish-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	lockValue := traceID
	locked, err := redis.TryLock(ctx, consts.PublishJobLock, lockValue, 10*time.Minute, 1)
	if err != nil {
		log.ErrorContext(ctx, "acquire publish lock error", "err", err)
		return
	}
	if !locked {
		return
	}
	defer redis.UnLock(ctx, consts.PublishJobLock, lockValue)

	outcomes, err := s.publishSvc.Execute(ctx, nil)
	if err != nil {
		log.ErrorContext(ctx, "publish due records error", "err", err)
		return
	}
	if len(outcomes) == 0 {
		return
	}

	var posted, failed int
	for _, outcome := range outcomes {
		switch outcome.Status {
		case "posted":
			posted++
		case "failed":
			failed++
		}
	}
	log.InfoContext(ctx, "publish due records done",
		"total", len(outcomes), "posted", posted, "failed", failed)
}
