package agenda

import (
	"sort"
	"time"
)

// Classification 相对于某一时刻的当日课次分类，不跨时刻缓存
type Classification struct {
	InProgress []Occurrence `json:"in_progress"`
	Upcoming   []Occurrence `json:"upcoming"`
}

// Today 过滤出日历日期等于 today 的课次
func Today(occurrences []Occurrence, today time.Time) []Occurrence {
	out := make([]Occurrence, 0)
	for _, o := range occurrences {
		if SameDate(o.Date, today) {
			out = append(out, o)
		}
	}
	return out
}

// Classify 划分当日课次：
//   - 进行中：StartAt ≤ now < EndAt（两端都可解析）
//   - 即将开始：StartAt > now，按开始时间升序，截取前 upcomingLimit 个
//
// 其余（已结束或时间无法解析）两者都不进入。
func (e *Engine) Classify(occurrences []Occurrence, today, now time.Time) Classification {
	res := Classification{
		InProgress: make([]Occurrence, 0),
		Upcoming:   make([]Occurrence, 0),
	}

	for _, o := range Today(occurrences, today) {
		switch {
		case isInProgress(o, now):
			res.InProgress = append(res.InProgress, o)
		case o.StartAt != nil && o.StartAt.After(now):
			res.Upcoming = append(res.Upcoming, o)
		}
	}

	sort.SliceStable(res.InProgress, func(i, j int) bool { return lessByStart(res.InProgress[i], res.InProgress[j]) })
	sort.SliceStable(res.Upcoming, func(i, j int) bool { return lessByStart(res.Upcoming[i], res.Upcoming[j]) })
	if len(res.Upcoming) > e.upcomingLimit {
		res.Upcoming = res.Upcoming[:e.upcomingLimit]
	}
	return res
}

func isInProgress(o Occurrence, now time.Time) bool {
	if o.StartAt == nil || o.EndAt == nil {
		return false
	}
	return !o.StartAt.After(now) && now.Before(*o.EndAt)
}

// Past 当日已结束或时间无法解析的课次。
// 因上限被截掉的未来课次不算在内。
func Past(occurrences []Occurrence, today, now time.Time) []Occurrence {
	out := make([]Occurrence, 0)
	for _, o := range Today(occurrences, today) {
		if isInProgress(o, now) {
			continue
		}
		if o.StartAt != nil && o.StartAt.After(now) {
			continue
		}
		out = append(out, o)
	}
	return out
}
