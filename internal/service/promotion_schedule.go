package service

import (
	"strings"
	"time"

	"github.com/sabor-next/internal/constants"
	"github.com/sabor-next/internal/models"
)

// 促销时段判定：启用标志、日期区间、每日时段、星期集合四个维度按 AND 组合，
// 未设置的维度视为通过。纯函数，可用任意参考时刻回放或预览。

// PromotionValidAt 判断促销活动在 at 时刻是否有效
func PromotionValidAt(p *models.Promotion, at time.Time) bool {
	if p == nil || !p.IsActive {
		return false
	}
	if !dateRangeContains(p.ValidFrom, p.ValidUntil, at) {
		return false
	}
	if !dailyWindowContains(p.TimeFrom, p.TimeUntil, at) {
		return false
	}
	return weekdaysContain(p.Weekdays, at)
}

// PromotionExpired 判断促销活动是否已过期
// valid_until 严格早于 at 所在日期才算过期，未设置则永不过期。
func PromotionExpired(p *models.Promotion, at time.Time) bool {
	if p == nil || p.ValidUntil == nil {
		return false
	}
	return dateKey(*p.ValidUntil) < dateKey(at)
}

// PromotionUpcoming 判断促销活动是否尚未开始
// valid_from 严格晚于 at 所在日期才算未开始，未设置则永不属于未开始。
func PromotionUpcoming(p *models.Promotion, at time.Time) bool {
	if p == nil || p.ValidFrom == nil {
		return false
	}
	return dateKey(*p.ValidFrom) > dateKey(at)
}

// dateRangeContains 日期区间判定（含两端，单侧设置时另一侧开放）
func dateRangeContains(from, until *time.Time, at time.Time) bool {
	day := dateKey(at)
	if from != nil && day < dateKey(*from) {
		return false
	}
	if until != nil && day > dateKey(*until) {
		return false
	}
	return true
}

// dailyWindowContains 每日循环时段判定（含两端，仅两端都设置时生效）
// time_from > time_until（跨午夜）不做特殊处理，永不命中。
func dailyWindowContains(from, until *string, at time.Time) bool {
	if from == nil || until == nil {
		return true
	}
	start, ok := parseClockSeconds(*from)
	if !ok {
		return false
	}
	end, ok := parseClockSeconds(*until)
	if !ok {
		return false
	}
	current := at.Hour()*3600 + at.Minute()*60 + at.Second()
	return current >= start && current <= end
}

// weekdaysContain 星期集合判定（空集不限）
func weekdaysContain(days models.IntArray, at time.Time) bool {
	if len(days) == 0 {
		return true
	}
	return days.Contains(isoWeekday(at))
}

// isoWeekday 返回 ISO 星期（1=周一 .. 7=周日）
func isoWeekday(at time.Time) int {
	weekday := int(at.Weekday())
	if weekday == 0 {
		return constants.WeekdaySunday
	}
	return weekday
}

// dateKey 把日历日期编码为可比较整数。
// 按各自时区显示的年月日比较，避免边界值跨时区存储时在午夜附近偏移一天。
func dateKey(t time.Time) int {
	year, month, day := t.Date()
	return year*10000 + int(month)*100 + day
}

// parseClockSeconds 解析 HH:MM:SS（兼容 HH:MM）为当日秒偏移
func parseClockSeconds(value string) (int, bool) {
	trimmed := strings.TrimSpace(value)
	parsed, err := time.Parse("15:04:05", trimmed)
	if err != nil {
		parsed, err = time.Parse("15:04", trimmed)
		if err != nil {
			return 0, false
		}
	}
	return parsed.Hour()*3600 + parsed.Minute()*60 + parsed.Second(), true
}
