package platform

import (
	"context"
	"errors"

	"Cadence/internal/model"
)

// ErrUnknownPlatform 请求了未注册的平台
var ErrUnknownPlatform = errors.New("platform not registered")

// TrendSignal 趋势源返回的单条信号
type TrendSignal struct {
	ContentType string   `json:"content_type"`
	Theme       string   `json:"theme"`
	Hashtags    []string `json:"hashtags"`
	Score       float64  `json:"score"`
}

// PostRequest 平台提交请求体
type PostRequest struct {
	MediaRef string   `json:"media_ref"`
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}

// Counters 平台侧原始互动计数，缺失的维度补零
type Counters struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
	Views    int64 `json:"views"`
}

// Client 单平台能力接口：趋势榜、发帖、拉取指标。
// 核心逻辑只面向该接口，不感知具体平台。
type Client interface {
	Name() string
	// Rank 返回指定领域的趋势信号，长度不超过 limit，可能为空
	Rank(ctx context.Context, niche string, limit int) ([]TrendSignal, error)
	// Post 提交已渲染的内容，成功返回平台侧帖子 ID
	Post(ctx context.Context, req PostRequest) (string, error)
	// FetchMetrics 拉取一条已发布帖子的互动计数
	FetchMetrics(ctx context.Context, externalPostID string) (Counters, error)
}

// Registry 平台名到客户端的映射
type Registry map[string]Client

// Get 按名称取客户端，未注册返回 ErrUnknownPlatform
func (r Registry) Get(platform string) (Client, error) {
	client, ok := r[platform]
	if !ok {
		return nil, ErrUnknownPlatform
	}
	return client, nil
}

// NewRegistry 注册全部受支持平台
func NewRegistry(shortVideo, photo Client) Registry {
	return Registry{
		model.PlatformShortVideo: shortVideo,
		model.PlatformPhoto:      photo,
	}
}
