package planner

import (
	log "log/slog"
	"math/rand"

	"Cadence/internal/model"
	"Cadence/internal/pkg/platform"
)

const (
	// PreferenceBoost 用户偏好只做加权不做硬过滤，趋势信号永远保留话语权
	PreferenceBoost = 1.5

	// 趋势源为空时的兜底指令
	fallbackContentType = "showcase"
	fallbackTheme       = "general"
)

type candidate struct {
	contentType string
	theme       string
	score       float64
}

// BuildDirectives 按趋势分 × 反馈权重选出 n 条内容指令。
// 采样先做不放回，候选耗尽后转为放回采样（小领域的趋势组合可能少于当天帖量）。
// 随机源由调用方注入，固定种子时结果可复现。
func BuildDirectives(
	platformName string,
	n int,
	signals []platform.TrendSignal,
	weights *model.WeightTable,
	cfg *model.NicheConfig,
	rng *rand.Rand,
) []model.Directive {
	if n <= 0 {
		return nil
	}

	if len(signals) == 0 {
		log.Warn("empty trend ranking, emitting degraded directives",
			"platform", platformName, "count", n)
		return degradedDirectives(platformName, n)
	}

	candidates := scoreCandidates(platformName, signals, weights, cfg)
	if len(candidates) == 0 {
		// 榜单非空但全部零分（远端接口允许 score 为 0），与断供同样降级
		log.Warn("trend ranking has no positively scored candidates, emitting degraded directives",
			"platform", platformName, "signals", len(signals), "count", n)
		return degradedDirectives(platformName, n)
	}

	directives := make([]model.Directive, 0, n)
	pool := make([]candidate, len(candidates))
	copy(pool, candidates)

	for len(directives) < n {
		if len(pool) == 0 {
			// 不放回采样耗尽，重新装满转为放回
			pool = make([]candidate, len(candidates))
			copy(pool, candidates)
		}
		idx := sampleWeighted(pool, rng)
		picked := pool[idx]
		directives = append(directives, model.Directive{
			Platform:    platformName,
			ContentType: picked.contentType,
			Theme:       picked.theme,
		})
		pool = append(pool[:idx], pool[idx+1:]...)
	}

	return directives
}

func degradedDirectives(platformName string, n int) []model.Directive {
	directives := make([]model.Directive, n)
	for i := range directives {
		directives[i] = model.Directive{
			Platform:    platformName,
			ContentType: fallbackContentType,
			Theme:       fallbackTheme,
			Degraded:    true,
		}
	}
	return directives
}

// scoreCandidates 综合分 = trend_score * (1 + 归一化反馈权重)，偏好组合再乘固定加成
func scoreCandidates(
	platformName string,
	signals []platform.TrendSignal,
	weights *model.WeightTable,
	cfg *model.NicheConfig,
) []candidate {
	maxWeight := weights.MaxWeight()

	candidates := make([]candidate, 0, len(signals))
	seen := make(map[string]struct{}, len(signals))

	for _, sig := range signals {
		key := sig.ContentType + "/" + sig.Theme
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		normalized := weights.Lookup(platformName, sig.ContentType, sig.Theme) / maxWeight
		score := sig.Score * (1 + normalized)

		if cfg != nil && (contains(cfg.PreferredContentTypes, sig.ContentType) || contains(cfg.PreferredThemes, sig.Theme)) {
			score *= PreferenceBoost
		}

		if score <= 0 {
			continue
		}
		candidates = append(candidates, candidate{
			contentType: sig.ContentType,
			theme:       sig.Theme,
			score:       score,
		})
	}
	return candidates
}

// sampleWeighted 轮盘赌选一个下标，pool 非空
func sampleWeighted(pool []candidate, rng *rand.Rand) int {
	var total float64
	for _, c := range pool {
		total += c.score
	}

	r := rng.Float64() * total
	for i, c := range pool {
		r -= c.score
		if r < 0 {
			return i
		}
	}
	return len(pool) - 1
}

func contains(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
