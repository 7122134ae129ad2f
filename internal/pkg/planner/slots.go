package planner

import (
	"errors"
	"fmt"
	"time"

	"Cadence/internal/model"

	"github.com/google/uuid"
)

// ErrSlotConflict 槽位生成理论上不会重叠，命中说明上游传入了重复指令批次
var ErrSlotConflict = errors.New("slot conflict in generated batch")

// extraSlotSpacing 单日帖量超出最优时段表时，溢出帖子的最小间隔
const extraSlotSpacing = 2 * time.Hour

type clockTime struct {
	hour   int
	minute int
}

// 平台最优发布时段表（平台本地时区），按优先级排列
var optimalTimes = map[string][]clockTime{
	model.PlatformShortVideo: {{9, 0}, {12, 0}, {19, 0}, {21, 0}},
	model.PlatformPhoto:      {{11, 0}, {13, 0}, {17, 0}, {20, 0}},
}

// SlotTimes 计算某平台从 startDay 起 days 天、每天 freq 条的全部发布时刻。
// 每天先占满最优时段表的前 freq 个；超出表长的部分在末位时段之后按固定
// 间隔顺延，封顶在当日 23:50，避免跨天破坏槽位唯一性。
func SlotTimes(platformName string, startDay time.Time, days, freq int) []time.Time {
	table := optimalTimes[platformName]
	if len(table) == 0 {
		table = []clockTime{{12, 0}}
	}

	base := time.Date(startDay.Year(), startDay.Month(), startDay.Day(), 0, 0, 0, 0, startDay.Location())

	times := make([]time.Time, 0, days*freq)
	for day := 0; day < days; day++ {
		dayBase := base.AddDate(0, 0, day)
		for slot := 0; slot < freq; slot++ {
			var at time.Time
			if slot < len(table) {
				ct := table[slot]
				at = dayBase.Add(time.Duration(ct.hour)*time.Hour + time.Duration(ct.minute)*time.Minute)
			} else {
				last := table[len(table)-1]
				overflow := time.Duration(slot-len(table)+1) * extraSlotSpacing
				at = dayBase.Add(time.Duration(last.hour)*time.Hour + time.Duration(last.minute)*time.Minute + overflow)
				dayEnd := dayBase.Add(23*time.Hour + 50*time.Minute)
				if at.After(dayEnd) {
					at = dayEnd.Add(-time.Duration(slot) * time.Minute)
				}
			}
			times = append(times, at)
		}
	}
	return times
}

// AssignSlots 把指令按产出顺序填入槽位，产出 planned 状态的记录批次。
// 指令顺序不重排，槽位时间严格递增于同日同平台内。
func AssignSlots(
	niche string,
	directives []model.Directive,
	slotTimes []time.Time,
) ([]*model.PostRecord, error) {
	if len(directives) != len(slotTimes) {
		return nil, fmt.Errorf("directive count %d does not match slot count %d", len(directives), len(slotTimes))
	}

	seen := make(map[string]struct{}, len(slotTimes))
	records := make([]*model.PostRecord, 0, len(directives))

	for i, d := range directives {
		at := slotTimes[i]
		key := d.Platform + "/" + at.UTC().Format(time.RFC3339)
		if _, dup := seen[key]; dup {
			return nil, ErrSlotConflict
		}
		seen[key] = struct{}{}

		records = append(records, &model.PostRecord{
			ID:          uuid.NewString(),
			Niche:       niche,
			Platform:    d.Platform,
			ContentType: d.ContentType,
			Theme:       d.Theme,
			ScheduledAt: at,
			Status:      model.StatusPlanned,
			Degraded:    d.Degraded,
		})
	}
	return records, nil
}
