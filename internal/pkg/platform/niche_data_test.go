package platform

import (
	"errors"
	"reflect"
	"testing"
)

func TestSynthesizeRankStableAndBounded(t *testing.T) {
	first := synthesizeRank("short_video", "fitness", 10)
	second := synthesizeRank("short_video", "fitness", 10)

	if len(first) != 10 {
		t.Fatalf("expected 10 signals, got %d", len(first))
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("synthesized ranking is not stable for identical input")
	}
	for i, sig := range first {
		if sig.Score < 0.2 || sig.Score > 1.0 {
			t.Errorf("signal %d score out of range: %f", i, sig.Score)
		}
		if sig.ContentType == "" || sig.Theme == "" {
			t.Errorf("signal %d missing dimensions: %+v", i, sig)
		}
		if len(sig.Hashtags) == 0 || len(sig.Hashtags) > 5 {
			t.Errorf("signal %d hashtag count %d", i, len(sig.Hashtags))
		}
	}
}

func TestSynthesizeRankUnknownNicheFallsBack(t *testing.T) {
	signals := synthesizeRank("photo", "underwater_basket_weaving", 5)
	if len(signals) != 5 {
		t.Fatalf("expected 5 fallback signals, got %d", len(signals))
	}
}

func TestContentTypesForPlatformSplit(t *testing.T) {
	sv := ContentTypesFor("short_video", "fitness")
	ph := ContentTypesFor("photo", "fitness")
	if reflect.DeepEqual(sv, ph) {
		t.Error("platforms should expose distinct content type tables")
	}
	for _, ct := range ph {
		if ct != "reel" && ct != "carousel" && ct != "single_image" {
			t.Errorf("unexpected photo content type %q", ct)
		}
	}
}

func TestSimulateCountersStable(t *testing.T) {
	a := simulateCounters("sv_abc")
	b := simulateCounters("sv_abc")
	if a != b {
		t.Fatal("simulated counters must be stable per post id")
	}
	if a.Views < a.Likes || a.Likes < a.Comments {
		t.Errorf("implausible counter ordering: %+v", a)
	}
}

func TestIsTransient(t *testing.T) {
	transient := &Error{Platform: "photo", Op: "post", Reason: "status 503", Transient: true}
	permanent := &Error{Platform: "photo", Op: "post", Reason: "status 403", Transient: false}

	if !IsTransient(transient) {
		t.Error("transient error reported as permanent")
	}
	if IsTransient(permanent) {
		t.Error("permanent error reported as transient")
	}
	// 未知错误按瞬时处理，由重试预算兜底
	if !IsTransient(errors.New("connection reset")) {
		t.Error("unknown error should default to transient")
	}
}

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		status int
		want   bool
	}{
		{429, true},
		{408, true},
		{500, true},
		{503, true},
		{400, false},
		{401, false},
		{403, false},
		{404, false},
	}
	for _, c := range cases {
		if got := classifyStatus(c.status); got != c.want {
			t.Errorf("classifyStatus(%d) = %v, want %v", c.status, got, c.want)
		}
	}
}
