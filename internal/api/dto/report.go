package dto

import (
	"Cadence/internal/model"
)

// ReportPostDTO 报告中的单条帖子表现
type ReportPostDTO struct {
	RecordID       string  `json:"record_id"`
	Platform       string  `json:"platform"`
	ContentType    string  `json:"content_type"`
	Theme          string  `json:"theme"`
	ExternalPostID string  `json:"external_post_id"`
	Likes          int64   `json:"likes"`
	Comments       int64   `json:"comments"`
	Shares         int64   `json:"shares"`
	Views          int64   `json:"views"`
	EngagementRate float64 `json:"engagement_rate"`
}

// ReportDTO 周期表现报告
type ReportDTO struct {
	WindowDays  int                `json:"window_days"`
	PostedCount int                `json:"posted_count"`
	FailedCount int                `json:"failed_count"`
	TopPosts    []*ReportPostDTO   `json:"top_posts"`
	Weights     *model.WeightTable `json:"weights"`
	Insights    []string           `json:"insights"`
}
