package service

import (
	"context"
	log "log/slog"
	"sync/atomic"
	"time"

	"Cadence/internal/model"
	"Cadence/internal/pkg/consts"
	"Cadence/internal/pkg/mongo"
	"Cadence/internal/pkg/redis"

	"github.com/goccy/go-json"
)

// SnapshotStore 权重表快照的持久化抽象，用于进程重启后的热身
type SnapshotStore interface {
	Save(ctx context.Context, table *model.WeightTable) error
	Load(ctx context.Context) (*model.WeightTable, error)
}

type redisSnapshotStore struct{}

func NewRedisSnapshotStore() SnapshotStore {
	return &redisSnapshotStore{}
}

func (s *redisSnapshotStore) Save(ctx context.Context, table *model.WeightTable) error {
	raw, err := json.Marshal(table)
	if err != nil {
		return err
	}
	return redis.SetValue(ctx, consts.WeightSnapshotKey, string(raw))
}

func (s *redisSnapshotStore) Load(ctx context.Context) (*model.WeightTable, error) {
	raw, err := redis.GetValue(ctx, consts.WeightSnapshotKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var table model.WeightTable
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		return nil, err
	}
	return &table, nil
}

type WeightService interface {
	Recompute(ctx context.Context, windowDays int) (*model.WeightTable, error)
	CurrentTable() *model.WeightTable
	WarmUp(ctx context.Context) error
}

type weightServiceImpl struct {
	perfRepo mongo.PerformanceRepo
	store    SnapshotStore
	table    atomic.Pointer[model.WeightTable]
}

func NewWeightService(perfRepo mongo.PerformanceRepo, store SnapshotStore) WeightService {
	s := &weightServiceImpl{perfRepo: perfRepo, store: store}
	s.table.Store(&model.WeightTable{})
	return s
}

// CurrentTable 当前生效的权重表，调用方只读
func (s *weightServiceImpl) CurrentTable() *model.WeightTable {
	return s.table.Load()
}

// WarmUp 启动时从快照恢复权重表，没有快照则保持空表
func (s *weightServiceImpl) WarmUp(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	table, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if table != nil {
		s.table.Store(table)
		log.InfoContext(ctx, "权重表已从快照恢复",
			"entries", len(table.Entries), "generated_at", table.GeneratedAt)
	}
	return nil
}

// Recompute 全量重建权重表：窗口内快照按 (平台, 内容形式, 主题) 分组，
// 权重 = 组内平均互动率 / 全平台平均互动率。没有样本或全平台均值为零时
// 产出空表，查询侧回退中性权重。重建结果原子替换并写入快照。
func (s *weightServiceImpl) Recompute(ctx context.Context, windowDays int) (*model.WeightTable, error) {
	if windowDays <= 0 {
		windowDays = consts.DefaultLookbackDays
	}

	since := time.Now().AddDate(0, 0, -windowDays)
	records, err := s.perfRepo.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}

	table := buildWeightTable(records, windowDays)

	s.table.Store(table)
	if s.store != nil {
		if err := s.store.Save(ctx, table); err != nil {
			log.WarnContext(ctx, "权重快照写入失败", "err", err)
		}
	}

	log.InfoContext(ctx, "权重表重建完成",
		"window_days", windowDays, "samples", len(records), "entries", len(table.Entries))
	return table, nil
}

func buildWeightTable(records []*mongo.PerformanceRecord, windowDays int) *model.WeightTable {
	table := &model.WeightTable{
		GeneratedAt: time.Now(),
		WindowDays:  windowDays,
	}
	if len(records) == 0 {
		return table
	}

	type bucket struct {
		platform    string
		contentType string
		theme       string
		sum         float64
		count       int
	}

	buckets := make(map[string]*bucket)
	var totalSum float64
	var totalCount int

	for _, rec := range records {
		rate := rec.EngagementRate()
		totalSum += rate
		totalCount++

		key := rec.Platform + "/" + rec.ContentType + "/" + rec.Theme
		b, ok := buckets[key]
		if !ok {
			b = &bucket{platform: rec.Platform, contentType: rec.ContentType, theme: rec.Theme}
			buckets[key] = b
		}
		b.sum += rate
		b.count++
	}

	overallMean := totalSum / float64(totalCount)
	if overallMean <= 0 {
		return table
	}

	table.Entries = make([]model.WeightEntry, 0, len(buckets))
	for _, b := range buckets {
		table.Entries = append(table.Entries, model.WeightEntry{
			Platform:    b.platform,
			ContentType: b.contentType,
			Theme:       b.theme,
			Weight:      (b.sum / float64(b.count)) / overallMean,
		})
	}
	return table
}
