package model

// Directive 一条待生产的内容指令：确定了平台、内容形式与主题，
// 素材与文案在后续环节补齐。Degraded 标记趋势源为空时的兜底产物。
type Directive struct {
	Platform    string `json:"platform"`
	ContentType string `json:"content_type"`
	Theme       string `json:"theme"`
	Degraded    bool   `json:"degraded"`
}
