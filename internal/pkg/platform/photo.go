package platform

import (
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"Cadence/internal/api/config"
	"Cadence/internal/model"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// photoClient 图文平台客户端。趋势端点缺失时回退到探索页 HTML 抓取，
// 再不行才用内置库合成榜单。
type photoClient struct {
	cfg        config.PlatformConfig
	httpClient *resty.Client
}

func NewPhotoClient(cfg config.PlatformConfig) Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetAuthToken(cfg.AccessToken)

	return &photoClient{cfg: cfg, httpClient: client}
}

func (s *photoClient) Name() string {
	return model.PlatformPhoto
}

func (s *photoClient) Rank(ctx context.Context, niche string, limit int) ([]TrendSignal, error) {
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

	// 老版本网关没有趋势接口，退回探索页抓取
	if resp.StatusCode() == 404 {
		return s.scrapeExplore(ctx, niche, limit)
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

// scrapeExplore 解析探索页话题卡片，以出现顺序的倒数作为分数
func (s *photoClient) scrapeExplore(ctx context.Context, niche string, limit int) ([]TrendSignal, error) {
	resp, err := s.httpClient.R().
		SetContext(ctx).
		Get("/explore/tags/" + niche + "/")
	if err != nil || resp.IsError() {
		log.WarnContext(ctx, "explore page unavailable, fallback to builtin rank", "niche", niche)
		return synthesizeRank(s.Name(), niche, limit), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return synthesizeRank(s.Name(), niche, limit), nil
	}

	types := ContentTypesFor(s.Name(), niche)
	var signals []TrendSignal
	doc.Find("a[data-topic], .topic-card a").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		theme := strings.TrimSpace(sel.Text())
		theme = strings.TrimPrefix(theme, "#")
		if theme == "" {
			return true
		}
		signals = append(signals, TrendSignal{
			ContentType: types[i%len(types)],
			Theme:       strings.ToLower(theme),
			Hashtags:    append([]string{"#" + strings.ToLower(theme)}, HashtagsFor(niche)...),
			Score:       1.0 / float64(i+1),
		})
		return len(signals) < limit
	})

	if len(signals) == 0 {
		return synthesizeRank(s.Name(), niche, limit), nil
	}
	return signals, nil
}

func (s *photoClient) Post(ctx context.Context, req PostRequest) (string, error) {
	if s.cfg.BaseURL == "" {
		externalID := "ph_" + uuid.NewString()
		log.InfoContext(ctx, "photo offline post", "external_id", externalID)
		return externalID, nil
	}

	var result struct {
		MediaID string `json:"media_id"`
	}
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/api/v1/media")
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
	if result.MediaID == "" {
		return "", &Error{Platform: s.Name(), Op: "post", Reason: "empty media_id", Transient: false}
	}
	return result.MediaID, nil
}

func (s *photoClient) FetchMetrics(ctx context.Context, externalPostID string) (Counters, error) {
	if s.cfg.BaseURL == "" {
		return simulateCounters(externalPostID), nil
	}

	var counters Counters
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetResult(&counters).
		Get("/api/v1/media/" + externalPostID + "/insights")
	if err != nil {
		return Counters{}, &Error{Platform: s.Name(), Op: "fetch_metrics", Reason: "request failed", Transient: true, Err: err}
	}
	if resp.StatusCode() == 404 {
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
