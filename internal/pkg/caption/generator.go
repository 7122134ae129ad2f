package caption

import (
	"math/rand"
	"strings"
)

// 各平台文案长度上限，超出时在词边界截断
const (
	shortVideoCaptionLimit = 100
	photoCaptionLimit      = 150
)

// 各平台话题标签数量目标
const (
	shortVideoHashtagCount = 5
	photoHashtagCount      = 10
)

// Generate 按平台与内容形式生成文案：模板填充主题，附加行动号召，
// 截断到平台上限。随机源由调用方注入。
func Generate(platformName, contentType, theme string, rng *rand.Rand) string {
	group, ok := captionTemplates[platformName]
	if !ok {
		group = captionTemplates["general"]
	}
	templates, ok := group[contentType]
	if !ok {
		templates = group["general"]
	}
	if len(templates) == 0 {
		templates = captionTemplates["general"]["general"]
	}

	text := fill(templates[rng.Intn(len(templates))], theme)

	if ctas := callToActions[platformName]; len(ctas) > 0 {
		text = text + " " + ctas[rng.Intn(len(ctas))]
	}

	limit := photoCaptionLimit
	if platformName == "short_video" {
		limit = shortVideoCaptionLimit
	}
	return trimToLimit(text, limit)
}

// Hashtags 组装话题标签：趋势标签优先，其次领域库，去重后补到平台目标数量
func Hashtags(platformName, theme string, trendTags, nichePool []string) []string {
	count := photoHashtagCount
	if platformName == "short_video" {
		count = shortVideoHashtagCount
	}

	seen := make(map[string]struct{}, count)
	tags := make([]string, 0, count)

	add := func(tag string) {
		tag = normalizeTag(tag)
		if tag == "#" {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	add("#" + theme)
	for _, tag := range trendTags {
		if len(tags) >= count {
			break
		}
		add(tag)
	}
	for _, tag := range nichePool {
		if len(tags) >= count {
			break
		}
		add(tag)
	}
	for _, tag := range []string{"#viral", "#trending", "#fyp", "#explore", "#daily"} {
		if len(tags) >= count {
			break
		}
		add(tag)
	}
	return tags
}

func fill(template, theme string) string {
	text := strings.ReplaceAll(template, "{theme}", theme)
	return strings.ReplaceAll(text, "{Theme}", title(theme))
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func normalizeTag(tag string) string {
	tag = strings.TrimSpace(strings.ToLower(tag))
	tag = strings.TrimPrefix(tag, "#")
	tag = strings.ReplaceAll(tag, " ", "")
	return "#" + tag
}

func trimToLimit(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := strings.LastIndex(text[:limit], " ")
	if cut <= 0 {
		cut = limit
	}
	return strings.TrimSpace(text[:cut])
}
