package service

import (
	"context"
	"fmt"
	log "log/slog"
	"sync"
	"time"

	"Cadence/internal/model"
	"Cadence/internal/pkg/consts"
	"Cadence/internal/pkg/platform"
	"Cadence/internal/pkg/redis"
	"Cadence/internal/repository"

	"golang.org/x/sync/errgroup"
)

// executeConcurrency 批量发布的并发上限
const executeConcurrency = 4

// DirtyMarker 发布成功后把帖子标入指标脏集合，由采集任务消化
type DirtyMarker interface {
	MarkDirty(ctx context.Context, postID string) error
}

type redisDirtyMarker struct{}

func NewRedisDirtyMarker() DirtyMarker {
	return &redisDirtyMarker{}
}

func (s *redisDirtyMarker) MarkDirty(ctx context.Context, postID string) error {
	return redis.SAdd(ctx, consts.MetricDirtyKey, postID)
}

// PublishOutcome 单条记录的发布结果
type PublishOutcome struct {
	RecordID       string `json:"record_id"`
	Platform       string `json:"platform"`
	Status         string `json:"status"`
	ExternalPostID string `json:"external_post_id,omitempty"`
	Attempts       int    `json:"attempts"`
	Error          string `json:"error,omitempty"`
}

// PublisherOptions 重试预算与退避参数
type PublisherOptions struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultPublisherOptions() PublisherOptions {
	return PublisherOptions{
		MaxAttempts: 3,
		BaseDelay:   30 * time.Second,
		MaxDelay:    5 * time.Minute,
	}
}

type PublishService interface {
	Execute(ctx context.Context, ids []string) ([]PublishOutcome, error)
	PublishOne(ctx context.Context, rec *model.PostRecord) PublishOutcome
}

type publishServiceImpl struct {
	recordRepo repository.PostRecordRepo
	registry   platform.Registry
	dirty      DirtyMarker
	opts       PublisherOptions
}

func NewPublishService(
	recordRepo repository.PostRecordRepo,
	registry platform.Registry,
	dirty DirtyMarker,
	opts PublisherOptions,
) PublishService {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 30 * time.Second
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 5 * time.Minute
	}
	return &publishServiceImpl{
		recordRepo: recordRepo,
		registry:   registry,
		dirty:      dirty,
		opts:       opts,
	}
}

// Execute 批量发布。ids 为空时取全部到期的 planned 记录。
// 单条失败不影响兄弟记录，结果按记录逐条返回。
func (s *publishServiceImpl) Execute(ctx context.Context, ids []string) ([]PublishOutcome, error) {
	records, err := s.resolveRecords(ctx, ids)
	if err != nil {
		return nil, err
	}

	outcomes := make([]PublishOutcome, len(records))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(executeConcurrency)
	for i, rec := range records {
		g.Go(func() error {
			outcome := s.PublishOne(gctx, rec)
			mu.Lock()
			outcomes[i] = outcome
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return outcomes, nil
}

func (s *publishServiceImpl) resolveRecords(ctx context.Context, ids []string) ([]*model.PostRecord, error) {
	if len(ids) == 0 {
		return s.recordRepo.DuePlanned(ctx, time.Now())
	}

	records := make([]*model.PostRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := s.recordRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, ErrRecordNotFound
		}
		records = append(records, rec)
	}
	return records, nil
}

// PublishOne 单条发布的有界状态机。
// 每次尝试：planned → submitting（计数 +1）→ 调平台接口；
// 成功转 posted，瞬态失败回 planned 退避后重来，永久失败或预算耗尽转 failed。
// 每次迁移先落库再继续，进程中断后记录状态依然可信。
func (s *publishServiceImpl) PublishOne(ctx context.Context, rec *model.PostRecord) PublishOutcome {
	outcome := PublishOutcome{RecordID: rec.ID, Platform: rec.Platform}

	fail := func(err error) PublishOutcome {
		outcome.Status = rec.Status
		outcome.Attempts = rec.AttemptCount
		outcome.Error = err.Error()
		return outcome
	}

	if rec.Status != model.StatusPlanned {
		return fail(ErrInvalidTransition)
	}
	if !rec.ReadyToSubmit() {
		// 内容要素不全不算一次尝试，记录停在 planned 等待补全
		return fail(ErrIncompleteDirective)
	}

	client, err := s.registry.Get(rec.Platform)
	if err != nil {
		return fail(ErrPlatformUnknown)
	}

	for rec.AttemptCount < s.opts.MaxAttempts {
		if err := s.recordRepo.Transition(ctx, rec, model.StatusPlanned, model.StatusSubmitting, func(r *model.PostRecord) {
			r.AttemptCount++
		}); err != nil {
			return fail(ErrInvalidTransition)
		}

		externalID, postErr := client.Post(ctx, platform.PostRequest{
			MediaRef: rec.MediaRef,
			Caption:  rec.Caption,
			Hashtags: rec.Hashtags,
		})

		if postErr == nil {
			if err := s.recordRepo.Transition(ctx, rec, model.StatusSubmitting, model.StatusPosted, func(r *model.PostRecord) {
				r.ExternalPostID = externalID
			}); err != nil {
				return fail(ErrInvalidTransition)
			}
			if err := s.dirty.MarkDirty(ctx, rec.ID); err != nil {
				log.WarnContext(ctx, "指标脏标记失败", "record_id", rec.ID, "err", err)
			}
			log.InfoContext(ctx, "发布成功",
				"record_id", rec.ID, "platform", rec.Platform,
				"external_id", externalID, "attempts", rec.AttemptCount)
			outcome.Status = model.StatusPosted
			outcome.ExternalPostID = externalID
			outcome.Attempts = rec.AttemptCount
			return outcome
		}

		if !platform.IsTransient(postErr) {
			return s.failRecord(ctx, rec, model.StatusSubmitting, postErr.Error(), fail)
		}

		if rec.AttemptCount >= s.opts.MaxAttempts {
			reason := fmt.Sprintf("重试预算耗尽: %s", postErr.Error())
			return s.failRecord(ctx, rec, model.StatusSubmitting, reason, fail)
		}

		// 还有预算，回 planned 排队再试
		if err := s.recordRepo.Transition(ctx, rec, model.StatusSubmitting, model.StatusPlanned, nil); err != nil {
			return fail(ErrInvalidTransition)
		}
		log.WarnContext(ctx, "发布瞬态失败，等待重试",
			"record_id", rec.ID, "platform", rec.Platform,
			"attempt", rec.AttemptCount, "err", postErr)

		if err := s.backoff(ctx, rec.AttemptCount); err != nil {
			// 上下文已取消，终态落库用脱离取消链的上下文
			return s.failRecord(context.WithoutCancel(ctx), rec, model.StatusPlanned, "cancelled", fail)
		}
	}

	return s.failRecord(ctx, rec, model.StatusPlanned, "重试预算耗尽", fail)
}

func (s *publishServiceImpl) failRecord(
	ctx context.Context,
	rec *model.PostRecord,
	from string,
	reason string,
	fail func(error) PublishOutcome,
) PublishOutcome {
	if err := s.recordRepo.Transition(ctx, rec, from, model.StatusFailed, func(r *model.PostRecord) {
		r.FailReason = reason
	}); err != nil {
		return fail(ErrInvalidTransition)
	}
	log.ErrorContext(ctx, "发布失败",
		"record_id", rec.ID, "platform", rec.Platform,
		"attempts", rec.AttemptCount, "reason", reason)
	return PublishOutcome{
		RecordID: rec.ID,
		Platform: rec.Platform,
		Status:   model.StatusFailed,
		Attempts: rec.AttemptCount,
		Error:    reason,
	}
}

// backoff 指数退避：base × 2^(attempt-1)，封顶 MaxDelay。
// 等待期间上下文取消立即返回错误。
func (s *publishServiceImpl) backoff(ctx context.Context, attempt int) error {
	delay := s.opts.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= s.opts.MaxDelay {
			delay = s.opts.MaxDelay
			break
		}
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
