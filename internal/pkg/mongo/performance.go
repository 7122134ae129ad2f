package mongo

import (
	"time"

	"Cadence/internal/model"
)

// 快照来源
const (
	SourcePoll  = "poll"  // 定时轮询平台指标接口
	SourceEvent = "event" // 平台互动事件流推送
)

// PerformanceRecord 单次指标采集快照。平台与内容维度冗余存储，
// 权重重算只扫本集合，不回表。
type PerformanceRecord struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	PostID      string    `bson:"post_id" json:"postId"`
	Platform    string    `bson:"platform" json:"platform"`
	Niche       string    `bson:"niche" json:"niche"`
	ContentType string    `bson:"content_type" json:"contentType"`
	Theme       string    `bson:"theme" json:"theme"`
	Likes       int64     `bson:"likes" json:"likes"`
	Comments    int64     `bson:"comments" json:"comments"`
	Shares      int64     `bson:"shares" json:"shares"`
	Views       int64     `bson:"views" json:"views"`
	Source      string    `bson:"source" json:"source"`
	CapturedAt  time.Time `bson:"captured_at" json:"capturedAt"`
}

// EngagementRate 互动率。图文平台评论权重翻倍，短视频按总互动除曝光。
// 曝光为零时按 1 计，避免除零。
func (s *PerformanceRecord) EngagementRate() float64 {
	views := s.Views
	if views <= 0 {
		views = 1
	}
	switch s.Platform {
	case model.PlatformPhoto:
		return float64(s.Likes+2*s.Comments+s.Shares) / float64(views)
	default:
		return float64(s.Likes+s.Comments+s.Shares) / float64(views)
	}
}
