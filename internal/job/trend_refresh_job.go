package job

import (
	"Cadence/internal/model"
	"Cadence/internal/pkg/consts"
	"Cadence/internal/pkg/logger"
	"Cadence/internal/pkg/platform"
	"Cadence/internal/pkg/redis"
	"Cadence/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// trendCacheTTL 榜单缓存保留时间，下一次刷新前始终可用
const trendCacheTTL = 26 * time.Hour

// TrendRefreshJob 每天凌晨刷新各平台趋势榜单缓存，
// 规划高峰期不必现场拉取外部接口。
type TrendRefreshJob struct {
	registry  platform.Registry
	configSvc service.ConfigService
}

func NewTrendRefreshJob(registry platform.Registry, configSvc service.ConfigService) *TrendRefreshJob {
	return &TrendRefreshJob{registry: registry, configSvc: configSvc}
}

func (s *TrendRefreshJob) Run() {
	traceID := "job-trend-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	cfg, err := s.configSvc.Get(ctx)
	if err != nil {
		log.ErrorContext(ctx, "load niche config error", "err", err)
		return
	}

	for _, platformName := range model.Platforms {
		client, err := s.registry.Get(platformName)
		if err != nil {
			continue
		}

		signals, err := client.Rank(ctx, cfg.Niche, consts.DefaultTrendLimit)
		if err != nil {
			log.ErrorContext(ctx, "refresh trend ranking error",
				"platform", platformName, "err", err)
			continue
		}

		raw, err := json.Marshal(signals)
		if err != nil {
			continue
		}
		cacheKey := consts.TrendCacheKey + platformName
		if err := redis.SetWithExpiration(ctx, cacheKey, string(raw), trendCacheTTL); err != nil {
			log.ErrorContext(ctx, "cache trend ranking error",
				"platform", platformName, "err", err)
			continue
		}
		log.InfoContext(ctx, "trend ranking refreshed",
			"platform", platformName, "niche", cfg.Niche, "signals", len(signals))
	}
}
