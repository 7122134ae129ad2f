package service

import (
	"context"
	"errors"
	log "log/slog"
	"math/rand"
	"sync"
	"time"

	"Cadence/internal/model"
	"Cadence/internal/pkg/caption"
	"Cadence/internal/pkg/consts"
	"Cadence/internal/pkg/planner"
	"Cadence/internal/pkg/platform"
	"Cadence/internal/repository"
)

// MediaRenderer 素材渲染抽象，生产实现落在 internal/pkg/render
type MediaRenderer interface {
	Render(ctx context.Context, rec *model.PostRecord) (string, error)
}

type PlanService interface {
	Plan(ctx context.Context, days int) ([]*model.PostRecord, error)
}

type planServiceImpl struct {
	recordRepo    repository.PostRecordRepo
	registry      platform.Registry
	configService ConfigService
	weightService WeightService
	renderer      MediaRenderer
	trendLimit    int

	mu  sync.Mutex
	rng *rand.Rand
}

func NewPlanService(
	recordRepo repository.PostRecordRepo,
	registry platform.Registry,
	configService ConfigService,
	weightService WeightService,
	renderer MediaRenderer,
	trendLimit int,
	seed int64,
) PlanService {
	if trendLimit <= 0 {
		trendLimit = consts.DefaultTrendLimit
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &planServiceImpl{
		recordRepo:    recordRepo,
		registry:      registry,
		configService: configService,
		weightService: weightService,
		renderer:      renderer,
		trendLimit:    trendLimit,
		rng:           rand.New(rand.NewSource(seed)),
	}
}

// Plan 为全部平台生成未来 days 天的发布计划并落库。
// 规划从次日零点开始，永远不会把帖子排进过去。
// 趋势源失败按空榜处理，产出降级指令，规划本身不失败。
func (s *planServiceImpl) Plan(ctx context.Context, days int) ([]*model.PostRecord, error) {
	if days <= 0 || days > 30 {
		return nil, ErrParamInvalid
	}

	cfg, err := s.configService.Get(ctx)
	if err != nil {
		return nil, err
	}
	weights := s.weightService.CurrentTable()
	startDay := time.Now().AddDate(0, 0, 1)

	all := make([]*model.PostRecord, 0)
	for _, platformName := range model.Platforms {
		records, err := s.planPlatform(ctx, platformName, cfg, weights, startDay, days)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}

	if err := s.recordRepo.InsertBatch(ctx, all); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return nil, ErrDuplicateSlot
		}
		return nil, err
	}

	log.InfoContext(ctx, "发布计划生成完成",
		"niche", cfg.Niche, "days", days, "records", len(all))
	return all, nil
}

func (s *planServiceImpl) planPlatform(
	ctx context.Context,
	platformName string,
	cfg *model.NicheConfig,
	weights *model.WeightTable,
	startDay time.Time,
	days int,
) ([]*model.PostRecord, error) {
	client, err := s.registry.Get(platformName)
	if err != nil {
		return nil, ErrPlatformUnknown
	}

	freq := cfg.FrequencyFor(platformName)
	if freq <= 0 {
		return nil, nil
	}

	signals, err := client.Rank(ctx, cfg.Niche, s.trendLimit)
	if err != nil {
		log.WarnContext(ctx, "趋势榜单拉取失败，进入降级规划",
			"platform", platformName, "err", err)
		signals = nil
	}

	directives := s.buildDirectives(platformName, days*freq, signals, weights, cfg)
	slotTimes := planner.SlotTimes(platformName, startDay, days, freq)

	records, err := planner.AssignSlots(cfg.Niche, directives, slotTimes)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		s.fillContent(ctx, rec, signals, cfg)
	}
	return records, nil
}

func (s *planServiceImpl) buildDirectives(
	platformName string,
	n int,
	signals []platform.TrendSignal,
	weights *model.WeightTable,
	cfg *model.NicheConfig,
) []model.Directive {
	s.mu.Lock()
	defer s.mu.Unlock()
	return planner.BuildDirectives(platformName, n, signals, weights, cfg, s.rng)
}

// fillContent 补齐文案、话题标签与素材。素材渲染失败只告警，
// 记录以不完整状态入库，发布前的就绪校验会拦下它。
func (s *planServiceImpl) fillContent(
	ctx context.Context,
	rec *model.PostRecord,
	signals []platform.TrendSignal,
	cfg *model.NicheConfig,
) {
	s.mu.Lock()
	rec.Caption = caption.Generate(rec.Platform, rec.ContentType, rec.Theme, s.rng)
	s.mu.Unlock()

	var trendTags []string
	for _, sig := range signals {
		if sig.Theme == rec.Theme {
			trendTags = sig.Hashtags
			break
		}
	}
	rec.Hashtags = caption.Hashtags(rec.Platform, rec.Theme, trendTags, platform.HashtagsFor(cfg.Niche))

	mediaRef, err := s.renderer.Render(ctx, rec)
	if err != nil {
		log.WarnContext(ctx, "素材渲染失败，记录以不完整状态入库",
			"record_id", rec.ID, "platform", rec.Platform, "err", err)
		return
	}
	rec.MediaRef = mediaRef
}
