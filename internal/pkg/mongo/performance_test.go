package mongo

import (
	"testing"

	"Cadence/internal/model"
)

func TestEngagementRateShortVideo(t *testing.T) {
	rec := &PerformanceRecord{
		Platform: model.PlatformShortVideo,
		Likes:    100, Comments: 20, Shares: 30, Views: 1000,
	}
	if got, want := rec.EngagementRate(), 0.15; got != want {
		t.Errorf("short_video rate = %f, want %f", got, want)
	}
}

func TestEngagementRatePhotoWeighsComments(t *testing.T) {
	rec := &PerformanceRecord{
		Platform: model.PlatformPhoto,
		Likes:    100, Comments: 20, Shares: 30, Views: 1000,
	}
	// 图文平台评论计双倍：(100 + 40 + 30) / 1000
	if got, want := rec.EngagementRate(), 0.17; got != want {
		t.Errorf("photo rate = %f, want %f", got, want)
	}
}

func TestEngagementRateZeroViews(t *testing.T) {
	rec := &PerformanceRecord{Platform: model.PlatformShortVideo, Likes: 5}
	if got, want := rec.EngagementRate(), 5.0; got != want {
		t.Errorf("zero-view rate = %f, want %f", got, want)
	}
}
