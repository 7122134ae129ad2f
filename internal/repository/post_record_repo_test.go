package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"Cadence/internal/model"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) PostRecordRepo {
	t.Helper()
	// 每个用例独立的内存库，cache=shared 保证连接池内共享同一实例
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.PostRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewPostRecordRepository(db)
}

func newRecord(platform string, at time.Time) *model.PostRecord {
	return &model.PostRecord{
		ID:          uuid.NewString(),
		Niche:       "fitness",
		Platform:    platform,
		ContentType: "tutorial",
		Theme:       "strength",
		ScheduledAt: at,
		Status:      model.StatusPlanned,
		MediaRef:    "media/x.jpg",
		Caption:     "caption",
		Hashtags:    model.StringList{"#fitness"},
	}
}

func TestInsertBatchAndQuery(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	records := []*model.PostRecord{
		newRecord(model.PlatformShortVideo, base.Add(3*time.Hour)),
		newRecord(model.PlatformShortVideo, base),
		newRecord(model.PlatformPhoto, base),
	}
	if err := repo.InsertBatch(ctx, records); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	got, err := repo.Query(ctx, QueryFilter{Platform: model.PlatformShortVideo})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 short_video records, got %d", len(got))
	}
	if !got[0].ScheduledAt.Before(got[1].ScheduledAt) {
		t.Error("records not ordered by scheduled_at ASC")
	}
}

func TestInsertBatchDuplicateSlotRollsBack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	if err := repo.InsertBatch(ctx, []*model.PostRecord{newRecord(model.PlatformPhoto, at)}); err != nil {
		t.Fatalf("seed insert: %v", err)
	}

	batch := []*model.PostRecord{
		newRecord(model.PlatformPhoto, at.Add(time.Hour)),
		newRecord(model.PlatformPhoto, at), // 与已有记录撞槽
	}
	err := repo.InsertBatch(ctx, batch)
	if !errors.Is(err, ErrDuplicateSlot) {
		t.Fatalf("expected ErrDuplicateSlot, got %v", err)
	}

	// 整批回滚，撞槽之前的记录也不能留下
	got, err := repo.Query(ctx, QueryFilter{Platform: model.PlatformPhoto})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("rollback failed: %d records remain", len(got))
	}
}

func TestTransitionGuarded(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	rec := newRecord(model.PlatformShortVideo, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	if err := repo.InsertBatch(ctx, []*model.PostRecord{rec}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := repo.Transition(ctx, rec, model.StatusPlanned, model.StatusSubmitting, func(r *model.PostRecord) {
		r.AttemptCount++
	}); err != nil {
		t.Fatalf("planned→submitting: %v", err)
	}

	stored, err := repo.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != model.StatusSubmitting || stored.AttemptCount != 1 {
		t.Fatalf("unexpected stored state: %s attempts=%d", stored.Status, stored.AttemptCount)
	}

	// 旧状态不匹配的条件更新必须落空
	stale := *rec
	stale.Status = model.StatusPlanned
	err = repo.Transition(ctx, &stale, model.StatusPlanned, model.StatusSubmitting, nil)
	if !errors.Is(err, ErrStaleTransition) {
		t.Fatalf("expected ErrStaleTransition, got %v", err)
	}

	// 状态机不允许的迁移直接拒绝
	err = repo.Transition(ctx, rec, model.StatusSubmitting, model.StatusSubmitting, nil)
	if !errors.Is(err, ErrStaleTransition) {
		t.Fatalf("expected ErrStaleTransition for illegal edge, got %v", err)
	}
}

func TestRescheduleGuarded(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	rec := newRecord(model.PlatformShortVideo, base)
	occupied := newRecord(model.PlatformShortVideo, base.Add(3*time.Hour))
	if err := repo.InsertBatch(ctx, []*model.PostRecord{rec, occupied}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	newAt := base.Add(24 * time.Hour)
	if err := repo.Reschedule(ctx, rec, newAt); err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	stored, _ := repo.GetByID(ctx, rec.ID)
	if !stored.ScheduledAt.Equal(newAt) {
		t.Fatalf("scheduled_at not updated: %v", stored.ScheduledAt)
	}

	// 新槽位已被同平台占用，唯一索引兜底
	err := repo.Reschedule(ctx, rec, occupied.ScheduledAt)
	if !errors.Is(err, ErrDuplicateSlot) {
		t.Fatalf("expected ErrDuplicateSlot, got %v", err)
	}

	// 非 planned 记录不可改期
	if err := repo.Transition(ctx, rec, model.StatusPlanned, model.StatusSubmitting, nil); err != nil {
		t.Fatalf("planned→submitting: %v", err)
	}
	err = repo.Reschedule(ctx, rec, base.Add(48*time.Hour))
	if !errors.Is(err, ErrStaleTransition) {
		t.Fatalf("expected ErrStaleTransition, got %v", err)
	}
}

func TestDuePlanned(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	due := newRecord(model.PlatformShortVideo, now.Add(-time.Hour))
	future := newRecord(model.PlatformShortVideo, now.Add(time.Hour))
	posted := newRecord(model.PlatformPhoto, now.Add(-2*time.Hour))
	posted.Status = model.StatusPosted

	if err := repo.InsertBatch(ctx, []*model.PostRecord{due, future, posted}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.DuePlanned(ctx, now)
	if err != nil {
		t.Fatalf("DuePlanned: %v", err)
	}
	if len(got) != 1 || got[0].ID != due.ID {
		t.Fatalf("expected only the due planned record, got %d", len(got))
	}
}

func TestGetByExternalIDAndTouchMetrics(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	rec := newRecord(model.PlatformPhoto, time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC))
	rec.Status = model.StatusPosted
	rec.ExternalPostID = "ph_123"
	if err := repo.InsertBatch(ctx, []*model.PostRecord{rec}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	found, err := repo.GetByExternalID(ctx, "ph_123")
	if err != nil {
		t.Fatalf("GetByExternalID: %v", err)
	}
	if found == nil || found.ID != rec.ID {
		t.Fatal("record not found by external id")
	}

	missing, err := repo.GetByExternalID(ctx, "ph_nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for unknown external id, got %v / %v", missing, err)
	}

	at := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if err := repo.TouchMetrics(ctx, rec.ID, at); err != nil {
		t.Fatalf("TouchMetrics: %v", err)
	}
	stored, _ := repo.GetByID(ctx, rec.ID)
	if stored.LastMetricsAt == nil || !stored.LastMetricsAt.Equal(at) {
		t.Fatalf("last_metrics_at not updated: %v", stored.LastMetricsAt)
	}
}
