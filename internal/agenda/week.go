package agenda

import "time"

// WeekWindow 包含参考时刻的周一 ~ 周日日历周
type WeekWindow struct {
	Start time.Time                  // 周一 00:00
	End   time.Time                  // 周日 00:00（含）
	Days  map[time.Weekday]time.Time // 星期 → 本周具体日期
}

// ComputeWeek 计算 ref 所在的周一 ~ 周日窗口。
// 日期取 ref 所在时区的零点；不读取系统时钟。
func ComputeWeek(ref time.Time) WeekWindow {
	offset := (int(ref.Weekday()) + 6) % 7 // Monday=0
	y, m, d := ref.Date()
	loc := ref.Location()

	w := WeekWindow{
		Start: time.Date(y, m, d-offset, 0, 0, 0, 0, loc),
		End:   time.Date(y, m, d-offset+6, 0, 0, 0, 0, loc),
		Days:  make(map[time.Weekday]time.Time, 7),
	}
	for i := 0; i < 7; i++ {
		date := time.Date(y, m, d-offset+i, 0, 0, 0, 0, loc)
		w.Days[date.Weekday()] = date
	}
	return w
}

// Dates 按周一 → 周日返回 7 个日期
func (w WeekWindow) Dates() []time.Time {
	out := make([]time.Time, 0, 7)
	for _, d := range mondayFirst {
		if date, ok := w.Days[d]; ok {
			out = append(out, date)
		}
	}
	return out
}

// Contains 判断 t 的日历日期是否落在本周内
func (w WeekWindow) Contains(t time.Time) bool {
	date, ok := w.Days[t.Weekday()]
	return ok && SameDate(date, t)
}

// SameDate 日历日期相等（忽略时分秒）
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateOf 返回 t 当天零点
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
