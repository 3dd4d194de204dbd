package agenda

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ScheduleRecord 每周重复的课程时段（只读输入）
type ScheduleRecord struct {
	ID           string  `json:"id"`
	WorkshopID   string  `json:"workshop_id"`
	WorkshopName string  `json:"workshop_name,omitempty"`
	DaySpec      DaySpec `json:"day_spec"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	TeacherName  string  `json:"teacher_name,omitempty"`
	LocationName string  `json:"location_name,omitempty"`
	Capacity     *int    `json:"capacity,omitempty"`
}

// Occurrence 重复时段在某个具体日期上的一次课。
// 每次计算重新生成，不落库。
type Occurrence struct {
	ID           string     `json:"id"` // scheduleID:YYYY-MM-DD
	ScheduleID   string     `json:"schedule_id"`
	WorkshopID   string     `json:"workshop_id"`
	WorkshopName string     `json:"workshop_name"`
	Date         time.Time  `json:"date"`
	StartTime    string     `json:"start_time"`
	EndTime      string     `json:"end_time"`
	TeacherName  string     `json:"teacher_name,omitempty"`
	LocationName string     `json:"location_name,omitempty"`
	Capacity     *int       `json:"capacity,omitempty"`
	StartAt      *time.Time `json:"start_at,omitempty"` // 时间无法解析时为 nil
	EndAt        *time.Time `json:"end_at,omitempty"`
}

// OccurrenceID 由 scheduleID 与日期合成稳定 ID
func OccurrenceID(scheduleID string, date time.Time) string {
	return scheduleID + ":" + date.Format("2006-01-02")
}

// ── 时刻解析 ──

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// ParseClock 解析 "HH:MM" 或 "HH:MM:SS"，返回距零点的偏移
func ParseClock(s string) (time.Duration, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	sec := 0
	if m[3] != "" {
		sec, _ = strconv.Atoi(m[3])
	}
	if h > 23 || mi > 59 || sec > 59 {
		return 0, false
	}
	return time.Duration(h)*time.Hour + time.Duration(mi)*time.Minute + time.Duration(sec)*time.Second, true
}

// atClock 把日期与时刻组合成绝对时间；解析失败返回 nil
func atClock(date time.Time, clock string) *time.Time {
	off, ok := ParseClock(clock)
	if !ok {
		return nil
	}
	y, m, d := date.Date()
	t := time.Date(y, m, d, 0, 0, int(off/time.Second), 0, date.Location())
	return &t
}

// ── 展开 ──

// Materialize 把重复时段展开为 week 内的具体课次。
// 星期描述无法解析的记录不产生任何课次；workshopNames 用于记录缺少名称时的回退。
func (e *Engine) Materialize(records []ScheduleRecord, week WeekWindow, workshopNames map[string]string) []Occurrence {
	out := make([]Occurrence, 0, len(records))
	for _, rec := range records {
		days := e.resolver.Resolve(string(rec.DaySpec))
		if days.Empty() {
			continue
		}
		name := e.WorkshopName(rec, workshopNames)
		for _, day := range days.Days() {
			date, ok := week.Days[day]
			if !ok {
				continue
			}
			out = append(out, Occurrence{
				ID:           OccurrenceID(rec.ID, date),
				ScheduleID:   rec.ID,
				WorkshopID:   rec.WorkshopID,
				WorkshopName: name,
				Date:         date,
				StartTime:    rec.StartTime,
				EndTime:      rec.EndTime,
				TeacherName:  rec.TeacherName,
				LocationName: rec.LocationName,
				Capacity:     copyInt(rec.Capacity),
				StartAt:      atClock(date, rec.StartTime),
				EndAt:        atClock(date, rec.EndTime),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return lessByStart(out[i], out[j])
	})
	return out
}

// WorkshopName 记录自带名称 → 名称表 → 占位名
func (e *Engine) WorkshopName(rec ScheduleRecord, names map[string]string) string {
	if n := strings.TrimSpace(rec.WorkshopName); n != "" {
		return n
	}
	if n := strings.TrimSpace(names[rec.WorkshopID]); n != "" {
		return n
	}
	return e.placeholder
}

// lessByStart 有开始时刻的排在前面；相同时按 ID
func lessByStart(a, b Occurrence) bool {
	switch {
	case a.StartAt != nil && b.StartAt != nil:
		if !a.StartAt.Equal(*b.StartAt) {
			return a.StartAt.Before(*b.StartAt)
		}
	case a.StartAt != nil:
		return true
	case b.StartAt != nil:
		return false
	}
	return a.ID < b.ID
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
