package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"Cadence/internal/model"
)

func TestScheduleListRejectsUnknownPlatform(t *testing.T) {
	svc := NewScheduleService(newMemoryRecordRepo())

	if _, err := svc.List(context.Background(), "blog", "", "", time.Time{}, time.Time{}); !errors.Is(err, ErrPlatformUnknown) {
		t.Fatalf("expected ErrPlatformUnknown, got %v", err)
	}
}

func TestScheduleGet(t *testing.T) {
	svc := NewScheduleService(newMemoryRecordRepo(readyRecord()))

	rec, err := svc.Get(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.ID != "rec-1" {
		t.Errorf("got record %q", rec.ID)
	}

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
	if _, err := svc.Get(context.Background(), ""); !errors.Is(err, ErrParamInvalid) {
		t.Errorf("expected ErrParamInvalid, got %v", err)
	}
}

func TestScheduleCancelPlannedRecord(t *testing.T) {
	repo := newMemoryRecordRepo(readyRecord())
	svc := NewScheduleService(repo)

	rec, err := svc.Cancel(context.Background(), "rec-1", "slot no longer wanted")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if rec.Status != model.StatusFailed || rec.FailReason != "slot no longer wanted" {
		t.Errorf("unexpected record after cancel: status=%s reason=%q", rec.Status, rec.FailReason)
	}
	if repo.status("rec-1") != model.StatusFailed {
		t.Error("cancelled state not persisted")
	}
}

func TestScheduleCancelDefaultsReason(t *testing.T) {
	svc := NewScheduleService(newMemoryRecordRepo(readyRecord()))

	rec, err := svc.Cancel(context.Background(), "rec-1", "")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if rec.FailReason != defaultCancelReason {
		t.Errorf("fail reason %q, want default", rec.FailReason)
	}
}

func TestScheduleCancelRejectsNonPlanned(t *testing.T) {
	posted := readyRecord()
	posted.Status = model.StatusPosted
	svc := NewScheduleService(newMemoryRecordRepo(posted))

	if _, err := svc.Cancel(context.Background(), "rec-1", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.Cancel(context.Background(), "missing", ""); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestScheduleReschedulePlannedRecord(t *testing.T) {
	repo := newMemoryRecordRepo(readyRecord())
	svc := NewScheduleService(repo)

	newAt := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	rec, err := svc.Reschedule(context.Background(), "rec-1", newAt)
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if !rec.ScheduledAt.Equal(newAt) {
		t.Errorf("scheduled_at %v, want %v", rec.ScheduledAt, newAt)
	}

	stored, _ := repo.GetByID(context.Background(), "rec-1")
	if !stored.ScheduledAt.Equal(newAt) {
		t.Error("new slot not persisted")
	}
}

func TestScheduleRescheduleRejectsOccupiedSlot(t *testing.T) {
	other := readyRecord()
	other.ID = "rec-2"
	other.ScheduledAt = time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	svc := NewScheduleService(newMemoryRecordRepo(readyRecord(), other))

	if _, err := svc.Reschedule(context.Background(), "rec-1", other.ScheduledAt); !errors.Is(err, ErrDuplicateSlot) {
		t.Fatalf("expected ErrDuplicateSlot, got %v", err)
	}
}

func TestScheduleRescheduleValidation(t *testing.T) {
	posted := readyRecord()
	posted.Status = model.StatusPosted
	svc := NewScheduleService(newMemoryRecordRepo(posted))

	future := time.Now().Add(24 * time.Hour)
	if _, err := svc.Reschedule(context.Background(), "rec-1", future); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("non-planned record: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.Reschedule(context.Background(), "rec-1", time.Now().Add(-time.Hour)); !errors.Is(err, ErrParamInvalid) {
		t.Errorf("past slot: expected ErrParamInvalid, got %v", err)
	}
	if _, err := svc.Reschedule(context.Background(), "rec-1", time.Time{}); !errors.Is(err, ErrParamInvalid) {
		t.Errorf("zero slot: expected ErrParamInvalid, got %v", err)
	}
}
