package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"Cadence/internal/model"
	"Cadence/internal/pkg/platform"
	"Cadence/internal/repository"
)

// memoryRecordRepo 内存版计划仓储，条件更新语义与真实实现一致
type memoryRecordRepo struct {
	mu      sync.Mutex
	records map[string]*model.PostRecord
}

func newMemoryRecordRepo(records ...*model.PostRecord) *memoryRecordRepo {
	repo := &memoryRecordRepo{records: make(map[string]*model.PostRecord)}
	for _, rec := range records {
		clone := *rec
		repo.records[rec.ID] = &clone
	}
	return repo
}

func (r *memoryRecordRepo) InsertBatch(_ context.Context, records []*model.PostRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range records {
		clone := *rec
		r.records[rec.ID] = &clone
	}
	return nil
}

func (r *memoryRecordRepo) GetByID(_ context.Context, id string) (*model.PostRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (r *memoryRecordRepo) Query(_ context.Context, _ repository.QueryFilter) ([]*model.PostRecord, error) {
	return nil, nil
}

func (r *memoryRecordRepo) DuePlanned(_ context.Context, now time.Time) ([]*model.PostRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []*model.PostRecord
	for _, rec := range r.records {
		if rec.Status == model.StatusPlanned && !rec.ScheduledAt.After(now) {
			clone := *rec
			due = append(due, &clone)
		}
	}
	return due, nil
}

func (r *memoryRecordRepo) PostedSince(_ context.Context, _ time.Time) ([]*model.PostRecord, error) {
	return nil, nil
}

func (r *memoryRecordRepo) FailedSince(_ context.Context, _ time.Time) ([]*model.PostRecord, error) {
	return nil, nil
}

func (r *memoryRecordRepo) GetByExternalID(_ context.Context, externalPostID string) (*model.PostRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ExternalPostID == externalPostID {
			clone := *rec
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memoryRecordRepo) Transition(_ context.Context, rec *model.PostRecord, from, to string, mutate func(*model.PostRecord)) error {
	if !model.CanTransition(from, to) {
		return repository.ErrStaleTransition
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.records[rec.ID]
	if !ok || stored.Status != from {
		return repository.ErrStaleTransition
	}
	rec.Status = to
	if mutate != nil {
		mutate(rec)
	}
	clone := *rec
	r.records[rec.ID] = &clone
	return nil
}

func (r *memoryRecordRepo) Reschedule(_ context.Context, rec *model.PostRecord, newAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.records[rec.ID]
	if !ok || stored.Status != model.StatusPlanned {
		return repository.ErrStaleTransition
	}
	for id, other := range r.records {
		if id != rec.ID && other.Platform == stored.Platform && other.ScheduledAt.Equal(newAt) {
			return repository.ErrDuplicateSlot
		}
	}
	stored.ScheduledAt = newAt
	rec.ScheduledAt = newAt
	return nil
}

func (r *memoryRecordRepo) ExistsAtSlot(_ context.Context, _ string, _ time.Time) (bool, error) {
	return false, nil
}

func (r *memoryRecordRepo) TouchMetrics(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[id]; ok {
		rec.LastMetricsAt = &at
	}
	return nil
}

func (r *memoryRecordRepo) status(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[id].Status
}

// scriptedClient 按脚本逐次返回发帖结果
type scriptedClient struct {
	name     string
	mu       sync.Mutex
	results  []postResult
	calls    int
	counters platform.Counters
}

type postResult struct {
	externalID string
	err        error
}

func (c *scriptedClient) Name() string { return c.name }

func (c *scriptedClient) Rank(_ context.Context, _ string, _ int) ([]platform.TrendSignal, error) {
	return nil, nil
}

func (c *scriptedClient) Post(_ context.Context, _ platform.PostRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls >= len(c.results) {
		return "", &platform.Error{Platform: c.name, Op: "post", Reason: "script exhausted", Transient: false}
	}
	result := c.results[c.calls]
	c.calls++
	return result.externalID, result.err
}

func (c *scriptedClient) FetchMetrics(_ context.Context, _ string) (platform.Counters, error) {
	return c.counters, nil
}

type noopDirtyMarker struct {
	mu    sync.Mutex
	dirty []string
}

func (m *noopDirtyMarker) MarkDirty(_ context.Context, postID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirty = append(m.dirty, postID)
	return nil
}

func readyRecord() *model.PostRecord {
	return &model.PostRecord{
		ID:          "rec-1",
		Niche:       "fitness",
		Platform:    model.PlatformShortVideo,
		ContentType: "tutorial",
		Theme:       "strength",
		ScheduledAt: time.Now().Add(-time.Minute),
		Status:      model.StatusPlanned,
		MediaRef:    "media/x.jpg",
		Caption:     "caption",
		Hashtags:    model.StringList{"#fitness"},
	}
}

func fastOptions() PublisherOptions {
	return PublisherOptions{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	}
}

func newPublishFixture(client *scriptedClient, records ...*model.PostRecord) (PublishService, *memoryRecordRepo, *noopDirtyMarker) {
	repo := newMemoryRecordRepo(records...)
	marker := &noopDirtyMarker{}
	registry := platform.NewRegistry(client, &scriptedClient{name: model.PlatformPhoto})
	svc := NewPublishService(repo, registry, marker, fastOptions())
	return svc, repo, marker
}

func TestPublishOneSucceedsFirstAttempt(t *testing.T) {
	client := &scriptedClient{name: model.PlatformShortVideo, results: []postResult{{externalID: "sv_1"}}}
	svc, repo, marker := newPublishFixture(client, readyRecord())

	rec, _ := repo.GetByID(context.Background(), "rec-1")
	outcome := svc.PublishOne(context.Background(), rec)

	if outcome.Status != model.StatusPosted {
		t.Fatalf("status %s, want posted (err=%s)", outcome.Status, outcome.Error)
	}
	if outcome.ExternalPostID != "sv_1" || outcome.Attempts != 1 {
		t.Errorf("unexpected outcome: %+v", outcome)
	}
	if repo.status("rec-1") != model.StatusPosted {
		t.Error("posted state not persisted")
	}
	if len(marker.dirty) != 1 || marker.dirty[0] != "rec-1" {
		t.Errorf("dirty marking missing: %v", marker.dirty)
	}
}

func TestPublishOneRetriesTransientThenSucceeds(t *testing.T) {
	client := &scriptedClient{name: model.PlatformShortVideo, results: []postResult{
		{err: &platform.Error{Platform: "short_video", Op: "post", Reason: "status 503", Transient: true}},
		{externalID: "sv_2"},
	}}
	svc, repo, _ := newPublishFixture(client, readyRecord())

	rec, _ := repo.GetByID(context.Background(), "rec-1")
	outcome := svc.PublishOne(context.Background(), rec)

	if outcome.Status != model.StatusPosted || outcome.Attempts != 2 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}

func TestPublishOnePermanentFailureStopsRetrying(t *testing.T) {
	client := &scriptedClient{name: model.PlatformShortVideo, results: []postResult{
		{err: &platform.Error{Platform: "short_video", Op: "post", Reason: "status 403", Transient: false}},
	}}
	svc, repo, _ := newPublishFixture(client, readyRecord())

	rec, _ := repo.GetByID(context.Background(), "rec-1")
	outcome := svc.PublishOne(context.Background(), rec)

	if outcome.Status != model.StatusFailed || outcome.Attempts != 1 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if repo.status("rec-1") != model.StatusFailed {
		t.Error("failed state not persisted")
	}
}

func TestPublishOneExhaustsRetryBudget(t *testing.T) {
	transient := &platform.Error{Platform: "short_video", Op: "post", Reason: "status 503", Transient: true}
	client := &scriptedClient{name: model.PlatformShortVideo, results: []postResult{
		{err: transient}, {err: transient}, {err: transient},
	}}
	svc, repo, _ := newPublishFixture(client, readyRecord())

	rec, _ := repo.GetByID(context.Background(), "rec-1")
	outcome := svc.PublishOne(context.Background(), rec)

	if outcome.Status != model.StatusFailed || outcome.Attempts != 3 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if repo.status("rec-1") != model.StatusFailed {
		t.Error("failed state not persisted")
	}
}

func TestPublishOneIncompleteDirectiveStaysPlanned(t *testing.T) {
	rec := readyRecord()
	rec.MediaRef = ""
	client := &scriptedClient{name: model.PlatformShortVideo}
	svc, repo, _ := newPublishFixture(client, rec)

	stored, _ := repo.GetByID(context.Background(), "rec-1")
	outcome := svc.PublishOne(context.Background(), stored)

	if outcome.Status != model.StatusPlanned || outcome.Attempts != 0 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if client.calls != 0 {
		t.Error("platform must not be called for incomplete records")
	}
	if repo.status("rec-1") != model.StatusPlanned {
		t.Error("record should stay planned")
	}
}

func TestPublishOneCancelledDuringBackoff(t *testing.T) {
	transient := &platform.Error{Platform: "short_video", Op: "post", Reason: "status 503", Transient: true}
	client := &scriptedClient{name: model.PlatformShortVideo, results: []postResult{{err: transient}}}
	repo := newMemoryRecordRepo(readyRecord())
	registry := platform.NewRegistry(client, &scriptedClient{name: model.PlatformPhoto})
	// 退避远长于用例超时，取消一定发生在等待期间
	svc := NewPublishService(repo, registry, &noopDirtyMarker{}, PublisherOptions{
		MaxAttempts: 3,
		BaseDelay:   10 * time.Second,
		MaxDelay:    10 * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	rec, _ := repo.GetByID(context.Background(), "rec-1")
	outcome := svc.PublishOne(ctx, rec)

	if outcome.Status != model.StatusFailed {
		t.Fatalf("status %s, want failed", outcome.Status)
	}
	if outcome.Error != "cancelled" {
		t.Errorf("fail reason %q, want cancelled", outcome.Error)
	}
}

func TestExecutePublishesAllDue(t *testing.T) {
	recA := readyRecord()
	recB := readyRecord()
	recB.ID = "rec-2"
	recB.ScheduledAt = time.Now().Add(-2 * time.Minute)

	client := &scriptedClient{name: model.PlatformShortVideo, results: []postResult{
		{externalID: "sv_a"}, {externalID: "sv_b"},
	}}
	svc, repo, _ := newPublishFixture(client, recA, recB)

	outcomes, err := svc.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	for _, outcome := range outcomes {
		if outcome.Status != model.StatusPosted {
			t.Errorf("outcome %s status %s", outcome.RecordID, outcome.Status)
		}
	}
	if repo.status("rec-1") != model.StatusPosted || repo.status("rec-2") != model.StatusPosted {
		t.Error("not all records persisted as posted")
	}
}

func TestExecuteUnknownIDFails(t *testing.T) {
	client := &scriptedClient{name: model.PlatformShortVideo}
	svc, _, _ := newPublishFixture(client)

	if _, err := svc.Execute(context.Background(), []string{"missing"}); err != ErrRecordNotFound {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
