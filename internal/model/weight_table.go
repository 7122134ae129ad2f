package model

import "time"

// NeutralWeight 窗口内未出现的组合按中性权重参与选材，不做打压
const NeutralWeight = 1.0

// WeightEntry (platform, content_type, theme) 维度的表现权重。
// 1.0 代表窗口内平均表现，大于 1 表示跑赢均值。
type WeightEntry struct {
	Platform    string  `json:"platform"`
	ContentType string  `json:"content_type"`
	Theme       string  `json:"theme"`
	Weight      float64 `json:"weight"`
}

// WeightTable 每轮反馈重算后整表重建的不可变快照，
// 读方通过原子指针拿到整表，不存在半新半旧的中间态。
type WeightTable struct {
	GeneratedAt time.Time     `json:"generated_at"`
	WindowDays  int           `json:"window_days"`
	Entries     []WeightEntry `json:"entries"`
}

// Lookup 查不到的组合返回中性权重
func (t *WeightTable) Lookup(platform, contentType, theme string) float64 {
	if t == nil {
		return NeutralWeight
	}
	for _, e := range t.Entries {
		if e.Platform == platform && e.ContentType == contentType && e.Theme == theme {
			return e.Weight
		}
	}
	return NeutralWeight
}

// MaxWeight 当前表的权重上界，选材打分时用于归一化
func (t *WeightTable) MaxWeight() float64 {
	max := NeutralWeight
	if t == nil {
		return max
	}
	for _, e := range t.Entries {
		if e.Weight > max {
			max = e.Weight
		}
	}
	return max
}
