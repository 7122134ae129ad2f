package caption

import (
	"math/rand"
	"strings"
	"testing"
)

func TestGenerateFillsTheme(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		text := Generate("short_video", "tutorial", "meal prep", rng)
		if strings.Contains(text, "{theme}") || strings.Contains(text, "{Theme}") {
			t.Fatalf("placeholder leaked: %q", text)
		}
		if !strings.Contains(strings.ToLower(text), "meal prep") {
			t.Fatalf("theme missing from caption: %q", text)
		}
	}
}

func TestGenerateRespectsPlatformLimits(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	longTheme := "an unreasonably long winded theme about home organization hacks"

	for i := 0; i < 50; i++ {
		if text := Generate("short_video", "tips", longTheme, rng); len(text) > shortVideoCaptionLimit {
			t.Fatalf("short_video caption too long (%d): %q", len(text), text)
		}
		if text := Generate("photo", "carousel", longTheme, rng); len(text) > photoCaptionLimit {
			t.Fatalf("photo caption too long (%d): %q", len(text), text)
		}
	}
}

func TestGenerateFallsBackToGeneralTemplates(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	text := Generate("photo", "unknown_form", "sunsets", rng)
	if text == "" {
		t.Fatal("expected fallback caption, got empty string")
	}
}

func TestHashtagsCountAndPrefix(t *testing.T) {
	nichePool := []string{"#fitness", "#workout", "#health", "#gymlife", "#training", "#wellness"}

	tags := Hashtags("photo", "home gym", []string{"#HomeGym", "#fitfam"}, nichePool)
	if len(tags) != photoHashtagCount {
		t.Fatalf("photo hashtags: got %d, want %d", len(tags), photoHashtagCount)
	}
	seen := make(map[string]struct{})
	for _, tag := range tags {
		if !strings.HasPrefix(tag, "#") {
			t.Errorf("tag missing # prefix: %q", tag)
		}
		if tag != strings.ToLower(tag) {
			t.Errorf("tag not lowercased: %q", tag)
		}
		if _, dup := seen[tag]; dup {
			t.Errorf("duplicate tag: %q", tag)
		}
		seen[tag] = struct{}{}
	}

	short := Hashtags("short_video", "home gym", nil, nichePool)
	if len(short) != shortVideoHashtagCount {
		t.Fatalf("short_video hashtags: got %d, want %d", len(short), shortVideoHashtagCount)
	}
}

func TestHashtagsDedupsThemeAgainstTrend(t *testing.T) {
	tags := Hashtags("short_video", "meal prep", []string{"#mealprep"}, []string{"#food"})
	count := 0
	for _, tag := range tags {
		if tag == "#mealprep" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("theme tag duplicated %d times: %v", count, tags)
	}
}
