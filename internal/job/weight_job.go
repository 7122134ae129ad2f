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

// WeightRecomputeJob 每天全量重建反馈权重表
type WeightRecomputeJob struct {
	weightSvc service.WeightService
}

func NewWeightRecomputeJob(weightSvc service.WeightService) *WeightRecomputeJob {
	return &WeightRecomputeJob{weightSvc: weightSvc}
}

func (s *WeightRecomputeJob) Run() {
	traceID := "job-weight-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	lockValue := traceID
	locked, err := redis.TryLock(ctx, consts.WeightJobLock, lockValue, 10*time.Minute, 1)
	if err != nil {
		log.ErrorContext(ctx, "acquire weight lock error", "err", err)
		return
	}
	if !locked {
		return
	}
	defer redis.UnLock(ctx, consts.WeightJobLock, lockValue)

	table, err := s.weightSvc.Recompute(ctx, consts.DefaultLookbackDays)
	if err != nil {
		log.ErrorContext(ctx, "recompute weights error", "err", err)
		return
	}
	log.InfoContext(ctx, "recompute weights success", "entries", len(table.Entries))
}
