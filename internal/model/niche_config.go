package model

import "time"

// NicheConfig 单个领域的运行配置，规划周期内视为不可变输入。
// 每日频率有建议区间（短视频 1-4，图文 1-2）但不强制。
type NicheConfig struct {
	Niche                 string         `json:"niche"`
	Frequencies           map[string]int `json:"frequencies"` // platform -> posts per day
	PreferredContentTypes []string       `json:"preferred_content_types"`
	PreferredThemes       []string       `json:"preferred_themes"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

// DefaultNicheConfig 首次启动的兜底配置
func DefaultNicheConfig() *NicheConfig {
	return &NicheConfig{
		Niche: "general",
		Frequencies: map[string]int{
			PlatformShortVideo: 1,
			PlatformPhoto:      1,
		},
		UpdatedAt: time.Now(),
	}
}

// FrequencyFor 未配置的平台默认一天一条
func (c *NicheConfig) FrequencyFor(platform string) int {
	if f, ok := c.Frequencies[platform]; ok && f > 0 {
		return f
	}
	return 1
}
