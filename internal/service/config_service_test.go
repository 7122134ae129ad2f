package service

import (
	"context"
	"errors"
	"testing"

	"Cadence/internal/model"
)

type memoryConfigStore struct {
	raw string
}

func (s *memoryConfigStore) Load(_ context.Context) (string, error) {
	return s.raw, nil
}

func (s *memoryConfigStore) Save(_ context.Context, raw string) error {
	s.raw = raw
	return nil
}

func TestConfigGetDefaultsWhenEmpty(t *testing.T) {
	svc := NewConfigService(&memoryConfigStore{})

	cfg, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cfg.Niche != "general" {
		t.Errorf("default niche %q", cfg.Niche)
	}
	for _, platform := range model.Platforms {
		if freq := cfg.FrequencyFor(platform); freq != 1 {
			t.Errorf("default frequency for %s = %d, want 1", platform, freq)
		}
	}
}

func TestConfigGetDefaultsOnCorruptPayload(t *testing.T) {
	svc := NewConfigService(&memoryConfigStore{raw: "{not json"})

	cfg, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cfg.Niche != "general" {
		t.Errorf("corrupt payload should fall back to defaults, got %q", cfg.Niche)
	}
}

func TestConfigUpdateRoundTrip(t *testing.T) {
	store := &memoryConfigStore{}
	svc := NewConfigService(store)

	updated, err := svc.Update(context.Background(), &model.NicheConfig{
		Niche: "fitness",
		Frequencies: map[string]int{
			model.PlatformShortVideo: 3,
			model.PlatformPhoto:      2,
		},
		PreferredContentTypes: []string{"tutorial"},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.UpdatedAt.IsZero() {
		t.Error("updated_at not stamped")
	}

	cfg, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if cfg.Niche != "fitness" || cfg.FrequencyFor(model.PlatformShortVideo) != 3 {
		t.Errorf("round trip mismatch: %+v", cfg)
	}
}

func TestConfigUpdateValidation(t *testing.T) {
	svc := NewConfigService(&memoryConfigStore{})

	cases := []*model.NicheConfig{
		nil,
		{Niche: ""},
		{Niche: "fitness", Frequencies: map[string]int{"blog": 1}},
		{Niche: "fitness", Frequencies: map[string]int{model.PlatformPhoto: -1}},
		{Niche: "fitness", Frequencies: map[string]int{model.PlatformPhoto: 25}},
	}
	for i, c := range cases {
		if _, err := svc.Update(context.Background(), c); !errors.Is(err, ErrNicheConfigInvalid) {
			t.Errorf("case %d: expected ErrNicheConfigInvalid, got %v", i, err)
		}
	}
}
