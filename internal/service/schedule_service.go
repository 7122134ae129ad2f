package service

import (
	"context"
	"errors"
	log "log/slog"
	"time"

	"Cadence/internal/model"
	"Cadence/internal/repository"
)

// 操作员取消未填原因时的默认备注
const defaultCancelReason = "cancelled by operator"

type ScheduleService interface {
	List(ctx context.Context, platform, status, niche string, from, to time.Time) ([]*model.PostRecord, error)
	Get(ctx context.Context, id string) (*model.PostRecord, error)
	Cancel(ctx context.Context, id, reason string) (*model.PostRecord, error)
	Reschedule(ctx context.Context, id string, at time.Time) (*model.PostRecord, error)
}

type scheduleServiceImpl struct {
	recordRepo repository.PostRecordRepo
}

func NewScheduleService(recordRepo repository.PostRecordRepo) ScheduleService {
	return &scheduleServiceImpl{recordRepo: recordRepo}
}

// List 按条件列出计划，按发布时刻升序
func (s *scheduleServiceImpl) List(ctx context.Context, platform, status, niche string, from, to time.Time) ([]*model.PostRecord, error) {
	if platform != "" && !model.IsKnownPlatform(platform) {
		return nil, ErrPlatformUnknown
	}

	return s.recordRepo.Query(ctx, repository.QueryFilter{
		Platform: platform,
		Status:   status,
		Niche:    niche,
		From:     from,
		To:       to,
	})
}

func (s *scheduleServiceImpl) Get(ctx context.Context, id string) (*model.PostRecord, error) {
	if id == "" {
		return nil, ErrParamInvalid
	}
	rec, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}

// Cancel 操作员取消一条待发布计划，记录转入 failed 终态并留下原因。
// 只有 planned 记录可取消；已在发布中的记录由发布器决定归宿。
func (s *scheduleServiceImpl) Cancel(ctx context.Context, id, reason string) (*model.PostRecord, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != model.StatusPlanned {
		return nil, ErrInvalidTransition
	}
	if reason == "" {
		reason = defaultCancelReason
	}

	if err := s.recordRepo.Transition(ctx, rec, model.StatusPlanned, model.StatusFailed, func(r *model.PostRecord) {
		r.FailReason = reason
	}); err != nil {
		if errors.Is(err, repository.ErrStaleTransition) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	log.InfoContext(ctx, "计划已取消",
		"record_id", rec.ID, "platform", rec.Platform, "reason", reason)
	return rec, nil
}

// Reschedule 把一条待发布计划改期到新槽位。目标时刻必须在未来，
// 新槽位被同平台占用时返回 ErrDuplicateSlot。
func (s *scheduleServiceImpl) Reschedule(ctx context.Context, id string, at time.Time) (*model.PostRecord, error) {
	if at.IsZero() || !at.After(time.Now()) {
		return nil, ErrParamInvalid
	}

	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != model.StatusPlanned {
		return nil, ErrInvalidTransition
	}

	if err := s.recordRepo.Reschedule(ctx, rec, at); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateSlot):
			return nil, ErrDuplicateSlot
		case errors.Is(err, repository.ErrStaleTransition):
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	log.InfoContext(ctx, "计划已改期",
		"record_id", rec.ID, "platform", rec.Platform, "scheduled_at", at)
	return rec, nil
}
