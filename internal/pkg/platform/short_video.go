package platform

import (
	"context"
	"fmt"
	"hash/fnv"
	log "log/slog"
	"time"

	"Cadence/internal/api/config"
	"Cadence/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// shortVideoClient 短视频平台客户端。
// BaseURL 为空时运行在离线模式：榜单由内置库合成，提交与指标为本地模拟。
type shortVideoClient struct {
	cfg        config.PlatformConfig
	httpClient *resty.Client
}

func NewShortVideoClient(cfg config.PlatformConfig) Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetAuthToken(cfg.AccessToken)

	return &shortVideoClient{cfg: cfg, httpClient: client}
}

func (s *shortVideoClient) Name() string {
	return model.PlatformShortVideo
}

func (s *shortVideoClient) Rank(ctx context.Context, niche string, limit int) ([]TrendSignal, error) {
	if s.cfg.BaseURL == "" {
		return synthesizeRank(s.Name(), niche, limit), nil
	}

	var signals []TrendSignal
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParam("niche", niche).
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		SetResult(&signals).
		Get("/api/v1/trends")
	if err != nil {
		return nil, &Error{Platform: s.Name(), Op: "rank", Reason: "request failed", Transient: true, Err: err}
	}
	if resp.IsError() {
		return nil, &Error{
			Platform:  s.Name(),
			Op:        "rank",
			Reason:    fmt.Sprintf("status %d", resp.StatusCode()),
			Transient: classifyStatus(resp.StatusCode()),
		}
	}
	if len(signals) > limit {
		signals = signals[:limit]
	}
	return signals, nil
}

func (s *shortVideoClient) Post(ctx context.Context, req PostRequest) (string, error) {
	if s.cfg.BaseURL == "" {
		externalID := "sv_" + uuid.NewString()
		log.InfoContext(ctx, "short_video offline post", "external_id", externalID)
		return externalID, nil
	}

	var result struct {
		PostID string `json:"post_id"`
	}
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/api/v1/videos")
	if err != nil {
		return "", &Error{Platform: s.Name(), Op: "post", Reason: "request failed", Transient: true, Err: err}
	}
	if resp.IsError() {
		return "", &Error{
			Platform:  s.Name(),
			Op:        "post",
			Reason:    fmt.Sprintf("status %d: %s", resp.StatusCode(), resp.String()),
			Transient: classifyStatus(resp.StatusCode()),
		}
	}
	if result.PostID == "" {
		return "", errors.Wrap(&Error{Platform: s.Name(), Op: "post", Reason: "empty post_id", Transient: false}, "unexpected response")
	}
	return result.PostID, nil
}

func (s *shortVideoClient) FetchMetrics(ctx context.Context, externalPostID string) (Counters, error) {
	if s.cfg.BaseURL == "" {
		return simulateCounters(externalPostID), nil
	}

	var counters Counters
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetResult(&counters).
		Get("/api/v1/videos/" + externalPostID + "/insights")
	if err != nil {
		return Counters{}, &Error{Platform: s.Name(), Op: "fetch_metrics", Reason: "request failed", Transient: true, Err: err}
	}
	if resp.StatusCode() == 404 {
		// 指标尚未就绪，按零值处理，不视为失败
		return Counters{}, nil
	}
	if resp.IsError() {
		return Counters{}, &Error{
			Platform:  s.Name(),
			Op:        "fetch_metrics",
			Reason:    fmt.Sprintf("status %d", resp.StatusCode()),
			Transient: classifyStatus(resp.StatusCode()),
		}
	}
	return counters, nil
}

// simulateCounters 离线模式下的稳定模拟计数，同一帖子 ID 得到同一组数值
func simulateCounters(externalPostID string) Counters {
	h := fnv.New64a()
	_, _ = h.Write([]byte(externalPostID))
	seed := h.Sum64()

	views := int64(1000 + seed%100000)
	return Counters{
		Views:    views,
		Likes:    views / int64(8+seed%10),
		Comments: views / int64(80+seed%50),
		Shares:   views / int64(150+seed%100),
	}
}
