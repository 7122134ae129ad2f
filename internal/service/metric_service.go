package service

import (
	"context"
	log "log/slog"
	"time"

	"Cadence/internal/model"
	"Cadence/internal/pkg/mongo"
	"Cadence/internal/pkg/platform"
	"Cadence/internal/repository"
)

// EngagementEvent 平台侧推送的互动事件，由 Kafka 消费端投递
type EngagementEvent struct {
	ExternalPostID string `json:"external_post_id"`
	Likes          int64  `json:"likes"`
	Comments       int64  `json:"comments"`
	Shares         int64  `json:"shares"`
	Views          int64  `json:"views"`
	OccurredAt     int64  `json:"occurred_at"`
}

type MetricService interface {
	Collect(ctx context.Context, postID string) (*mongo.PerformanceRecord, error)
	IngestEvent(ctx context.Context, event *EngagementEvent) error
}

type metricServiceImpl struct {
	recordRepo repository.PostRecordRepo
	perfRepo   mongo.PerformanceRepo
	registry   platform.Registry
	dirty      DirtyMarker
}

func NewMetricService(
	recordRepo repository.PostRecordRepo,
	perfRepo mongo.PerformanceRepo,
	registry platform.Registry,
	dirty DirtyMarker,
) MetricService {
	return &metricServiceImpl{
		recordRepo: recordRepo,
		perfRepo:   perfRepo,
		registry:   registry,
		dirty:      dirty,
	}
}

// Collect 主动拉取一条已发布帖子的平台指标并追加快照。
// 指标未就绪时平台客户端返回零值计数，快照照常落库。
func (s *metricServiceImpl) Collect(ctx context.Context, postID string) (*mongo.PerformanceRecord, error) {
	rec, err := s.recordRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecordNotFound
	}
	if rec.Status != model.StatusPosted {
		return nil, ErrNotPosted
	}

	client, err := s.registry.Get(rec.Platform)
	if err != nil {
		return nil, ErrPlatformUnknown
	}

	counters, err := client.FetchMetrics(ctx, rec.ExternalPostID)
	if err != nil {
		return nil, err
	}

	snapshot := &mongo.PerformanceRecord{
		PostID:      rec.ID,
		Platform:    rec.Platform,
		Niche:       rec.Niche,
		ContentType: rec.ContentType,
		Theme:       rec.Theme,
		Likes:       counters.Likes,
		Comments:    counters.Comments,
		Shares:      counters.Shares,
		Views:       counters.Views,
		Source:      mongo.SourcePoll,
		CapturedAt:  time.Now(),
	}
	if err := s.perfRepo.Append(ctx, snapshot); err != nil {
		return nil, err
	}
	if err := s.recordRepo.TouchMetrics(ctx, rec.ID, snapshot.CapturedAt); err != nil {
		log.WarnContext(ctx, "刷新采集时间失败", "record_id", rec.ID, "err", err)
	}

	log.InfoContext(ctx, "指标采集完成",
		"record_id", rec.ID, "platform", rec.Platform,
		"views", counters.Views, "rate", snapshot.EngagementRate())
	return snapshot, nil
}

// IngestEvent 落地平台事件流里迟到的互动数据，并把帖子重新标脏，
// 让下一轮轮询拿到权威计数。找不到对应记录的事件按噪声丢弃。
func (s *metricServiceImpl) IngestEvent(ctx context.Context, event *EngagementEvent) error {
	if event == nil || event.ExternalPostID == "" {
		return ErrParamInvalid
	}

	rec, err := s.recordRepo.GetByExternalID(ctx, event.ExternalPostID)
	if err != nil {
		return err
	}
	if rec == nil {
		log.WarnContext(ctx, "互动事件找不到对应记录，丢弃",
			"external_id", event.ExternalPostID)
		return nil
	}

	capturedAt := time.Now()
	if event.OccurredAt > 0 {
		capturedAt = time.Unix(event.OccurredAt, 0)
	}

	snapshot := &mongo.PerformanceRecord{
		PostID:      rec.ID,
		Platform:    rec.Platform,
		Niche:       rec.Niche,
		ContentType: rec.ContentType,
		Theme:       rec.Theme,
		Likes:       event.Likes,
		Comments:    event.Comments,
		Shares:      event.Shares,
		Views:       event.Views,
		Source:      mongo.SourceEvent,
		CapturedAt:  capturedAt,
	}
	if err := s.perfRepo.Append(ctx, snapshot); err != nil {
		return err
	}
	if err := s.dirty.MarkDirty(ctx, rec.ID); err != nil {
		log.WarnContext(ctx, "指标脏标记失败", "record_id", rec.ID, "err", err)
	}
	return nil
}
