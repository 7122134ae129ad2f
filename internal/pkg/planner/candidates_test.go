package planner

import (
	"math/rand"
	"testing"

	"Cadence/internal/model"
	"Cadence/internal/pkg/platform"
)

func testSignals() []platform.TrendSignal {
	return []platform.TrendSignal{
		{ContentType: "tutorial", Theme: "morning routine", Score: 0.9},
		{ContentType: "tips", Theme: "meal prep", Score: 0.6},
		{ContentType: "showcase", Theme: "home gym", Score: 0.3},
	}
}

func TestBuildDirectivesDegradedOnEmptyRanking(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	directives := BuildDirectives(model.PlatformShortVideo, 3, nil, &model.WeightTable{}, nil, rng)

	if len(directives) != 3 {
		t.Fatalf("expected 3 directives, got %d", len(directives))
	}
	for i, d := range directives {
		if !d.Degraded {
			t.Errorf("directive %d should be degraded", i)
		}
		if d.ContentType != "showcase" || d.Theme != "general" {
			t.Errorf("directive %d fallback mismatch: %+v", i, d)
		}
	}
}

func TestBuildDirectivesDegradedOnZeroScoreRanking(t *testing.T) {
	// 榜单非空但每条信号分值都是 0，候选全部被过滤，必须走降级而不是崩溃
	signals := []platform.TrendSignal{
		{ContentType: "tutorial", Theme: "morning routine", Score: 0},
		{ContentType: "tips", Theme: "meal prep", Score: 0},
	}
	rng := rand.New(rand.NewSource(1))
	directives := BuildDirectives(model.PlatformShortVideo, 3, signals, &model.WeightTable{}, nil, rng)

	if len(directives) != 3 {
		t.Fatalf("expected 3 directives, got %d", len(directives))
	}
	for i, d := range directives {
		if !d.Degraded {
			t.Errorf("directive %d should be degraded", i)
		}
		if d.ContentType != "showcase" || d.Theme != "general" {
			t.Errorf("directive %d fallback mismatch: %+v", i, d)
		}
	}
}

func TestBuildDirectivesCount(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	// 候选只有 3 个，要 5 条指令，耗尽后转放回采样
	directives := BuildDirectives(model.PlatformShortVideo, 5, testSignals(), &model.WeightTable{}, nil, rng)
	if len(directives) != 5 {
		t.Fatalf("expected 5 directives, got %d", len(directives))
	}
	for _, d := range directives {
		if d.Degraded {
			t.Errorf("unexpected degraded directive: %+v", d)
		}
		if d.Platform != model.PlatformShortVideo {
			t.Errorf("platform mismatch: %+v", d)
		}
	}
}

func TestBuildDirectivesReproducibleWithFixedSeed(t *testing.T) {
	first := BuildDirectives(model.PlatformShortVideo, 4, testSignals(), &model.WeightTable{}, nil, rand.New(rand.NewSource(42)))
	second := BuildDirectives(model.PlatformShortVideo, 4, testSignals(), &model.WeightTable{}, nil, rand.New(rand.NewSource(42)))

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("directive %d diverged: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestBuildDirectivesWithoutReplacementFirst(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	directives := BuildDirectives(model.PlatformShortVideo, 3, testSignals(), &model.WeightTable{}, nil, rng)

	seen := make(map[string]struct{})
	for _, d := range directives {
		key := d.ContentType + "/" + d.Theme
		if _, dup := seen[key]; dup {
			t.Fatalf("combination repeated before pool exhausted: %s", key)
		}
		seen[key] = struct{}{}
	}
}

func TestScoreCandidatesAppliesWeightAndBoost(t *testing.T) {
	weights := &model.WeightTable{Entries: []model.WeightEntry{
		{Platform: model.PlatformShortVideo, ContentType: "tips", Theme: "meal prep", Weight: 2.0},
	}}
	cfg := &model.NicheConfig{
		Niche:               "fitness",
		PreferredContentTypes: []string{"showcase"},
	}

	candidates := scoreCandidates(model.PlatformShortVideo, testSignals(), weights, cfg)
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}

	byKey := make(map[string]candidate)
	for _, c := range candidates {
		byKey[c.contentType+"/"+c.theme] = c
	}

	// 权重 2.0 归一化后为 1.0：score = 0.6 * (1 + 1.0)
	weighted := byKey["tips/meal prep"]
	if got, want := weighted.score, 1.2; !almostEqual(got, want) {
		t.Errorf("weighted score %f, want %f", got, want)
	}
	// 偏好内容形式乘固定加成：score = 0.3 * (1 + 0.5) * 1.5
	boosted := byKey["showcase/home gym"]
	if got, want := boosted.score, 0.3*1.5*PreferenceBoost; !almostEqual(got, want) {
		t.Errorf("boosted score %f, want %f", got, want)
	}
}

func TestScoreCandidatesDedupsCombinations(t *testing.T) {
	signals := append(testSignals(), platform.TrendSignal{ContentType: "tutorial", Theme: "morning routine", Score: 0.5})
	candidates := scoreCandidates(model.PlatformShortVideo, signals, &model.WeightTable{}, nil)
	if len(candidates) != 3 {
		t.Fatalf("expected dedup to 3 candidates, got %d", len(candidates))
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	return diff < 1e-9 && diff > -1e-9
}
