package repository

import (
	"Cadence/internal/model"
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrDuplicateSlot 同平台同时刻已有记录，由唯一索引兜底
var ErrDuplicateSlot = errors.New("duplicate slot")

// ErrStaleTransition 条件更新未命中：记录不存在或当前状态已被并发方迁走
var ErrStaleTransition = errors.New("stale transition")

// QueryFilter 计划查询条件，零值字段不参与过滤
type QueryFilter struct {
	Platform string
	Status   string
	Niche    string
	From     time.Time
	To       time.Time
}

type PostRecordRepo interface {
	InsertBatch(ctx context.Context, records []*model.PostRecord) error
	GetByID(ctx context.Context, id string) (*model.PostRecord, error)
	Query(ctx context.Context, filter QueryFilter) ([]*model.PostRecord, error)
	DuePlanned(ctx context.Context, now time.Time) ([]*model.PostRecord, error)
	PostedSince(ctx context.Context, since time.Time) ([]*model.PostRecord, error)
	FailedSince(ctx context.Context, since time.Time) ([]*model.PostRecord, error)
	GetByExternalID(ctx context.Context, externalPostID string) (*model.PostRecord, error)
	Transition(ctx context.Context, rec *model.PostRecord, from, to string, mutate func(*model.PostRecord)) error
	Reschedule(ctx context.Context, rec *model.PostRecord, newAt time.Time) error
	ExistsAtSlot(ctx context.Context, platform string, at time.Time) (bool, error)
	TouchMetrics(ctx context.Context, id string, at time.Time) error
}

type postRecordRepoImpl struct {
	db *gorm.DB
}

func NewPostRecordRepository(db *gorm.DB) PostRecordRepo {
	return &postRecordRepoImpl{db: db}
}

// InsertBatch 整批写入计划记录。任何一条命中槽位唯一索引则整批回滚，
// 保证规划操作的原子性。
func (r *postRecordRepoImpl) InsertBatch(ctx context.Context, records []*model.PostRecord) error {
	if len(records) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			if err := tx.Create(rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil && isDuplicateErr(err) {
		return ErrDuplicateSlot
	}
	return err
}

func (r *postRecordRepoImpl) GetByID(ctx context.Context, id string) (*model.PostRecord, error) {
	var rec model.PostRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Query 按过滤条件列出计划，固定按发布时刻升序
func (r *postRecordRepoImpl) Query(ctx context.Context, filter QueryFilter) ([]*model.PostRecord, error) {
	query := r.db.WithContext(ctx).Model(&model.PostRecord{})

	if filter.Platform != "" {
		query = query.Where("platform = ?", filter.Platform)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Niche != "" {
		query = query.Where("niche = ?", filter.Niche)
	}
	if !filter.From.IsZero() {
		query = query.Where("scheduled_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("scheduled_at < ?", filter.To)
	}

	records := make([]*model.PostRecord, 0)
	if err := query.Order("scheduled_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// DuePlanned 取全部到期未发布的计划，按发布时刻升序
func (r *postRecordRepoImpl) DuePlanned(ctx context.Context, now time.Time) ([]*model.PostRecord, error) {
	records := make([]*model.PostRecord, 0)
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StatusPlanned).
		Where("scheduled_at <= ?", now).
		Order("scheduled_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *postRecordRepoImpl) PostedSince(ctx context.Context, since time.Time) ([]*model.PostRecord, error) {
	records := make([]*model.PostRecord, 0)
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StatusPosted).
		Where("scheduled_at >= ?", since).
		Order("scheduled_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *postRecordRepoImpl) FailedSince(ctx context.Context, since time.Time) ([]*model.PostRecord, error) {
	records := make([]*model.PostRecord, 0)
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StatusFailed).
		Where("scheduled_at >= ?", since).
		Order("scheduled_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *postRecordRepoImpl) GetByExternalID(ctx context.Context, externalPostID string) (*model.PostRecord, error) {
	var rec model.PostRecord
	err := r.db.WithContext(ctx).Where("external_post_id = ?", externalPostID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Transition 条件更新推进状态机：WHERE 带上旧状态，影响行数为 0 说明
// 已被并发方迁走，返回 ErrStaleTransition。mutate 在迁移时顺带改写附属字段。
func (r *postRecordRepoImpl) Transition(ctx context.Context, rec *model.PostRecord, from, to string, mutate func(*model.PostRecord)) error {
	if !model.CanTransition(from, to) {
		return ErrStaleTransition
	}

	rec.Status = to
	if mutate != nil {
		mutate(rec)
	}

	result := r.db.WithContext(ctx).
		Model(&model.PostRecord{}).
		Where("id = ? AND status = ?", rec.ID, from).
		Updates(map[string]interface{}{
			"status":           rec.Status,
			"attempt_count":    rec.AttemptCount,
			"external_post_id": rec.ExternalPostID,
			"media_ref":        rec.MediaRef,
			"fail_reason":      rec.FailReason,
			"scheduled_at":     rec.ScheduledAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleTransition
	}
	return nil
}

// Reschedule 把一条 planned 记录改期到新槽位。条件更新保证只有 planned
// 记录可改；新槽位被占时唯一索引报冲突，映射为 ErrDuplicateSlot。
func (r *postRecordRepoImpl) Reschedule(ctx context.Context, rec *model.PostRecord, newAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.PostRecord{}).
		Where("id = ? AND status = ?", rec.ID, model.StatusPlanned).
		Update("scheduled_at", newAt)
	if result.Error != nil {
		if isDuplicateErr(result.Error) {
			return ErrDuplicateSlot
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleTransition
	}
	rec.ScheduledAt = newAt
	return nil
}

// ExistsAtSlot 槽位占用预检，最终一致性由唯一索引保证
func (r *postRecordRepoImpl) ExistsAtSlot(ctx context.Context, platform string, at time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.PostRecord{}).
		Where("platform = ? AND scheduled_at = ?", platform, at).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// TouchMetrics 刷新最近一次指标采集时间
func (r *postRecordRepoImpl) TouchMetrics(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.PostRecord{}).
		Where("id = ?", id).
		Update("last_metrics_at", at).Error
}

// isDuplicateErr 识别 MySQL 1062 与 SQLite UNIQUE 冲突
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
