package service

import (
	"errors"
	"time"

	"talleres/internal/agenda"
	"talleres/internal/dto"
	"talleres/internal/model"
)

// ErrInvalidDate 日期参数不是 YYYY-MM-DD
var ErrInvalidDate = errors.New("日期格式无效，应为 YYYY-MM-DD")

// Clock 当前时刻来源，测试中替换为固定时刻
type Clock func() time.Time

// SystemClock 在 loc 时区下读取系统时钟
func SystemClock(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

func formatTime(t time.Time) string {
	return t.Format(dto.TimeLayout)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

// toScheduleRecord 把数据库时段映射为课次展开的输入
func toScheduleRecord(s *model.WorkshopSchedule) agenda.ScheduleRecord {
	rec := agenda.ScheduleRecord{
		ID:         s.ScheduleID,
		WorkshopID: s.WorkshopID,
		DaySpec:    agenda.DaySpec(s.DaySpec),
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
	}
	if s.Workshop != nil {
		rec.WorkshopName = s.Workshop.Name
	}
	if s.Teacher != nil {
		rec.TeacherName = s.Teacher.Name
	}
	if s.Location != nil {
		rec.LocationName = s.Location.Label()
	}
	if capacity := s.EffectiveCapacity(); capacity > 0 {
		rec.Capacity = &capacity
	}
	return rec
}

func toScheduleRecords(schedules []model.WorkshopSchedule) []agenda.ScheduleRecord {
	records := make([]agenda.ScheduleRecord, 0, len(schedules))
	for i := range schedules {
		records = append(records, toScheduleRecord(&schedules[i]))
	}
	return records
}

// weekdayKeys 星期集合转为小写英文名（周一在前）
func weekdayKeys(days agenda.DaySet) []string {
	out := make([]string, 0, days.Len())
	for _, d := range days.Days() {
		out = append(out, weekdayKey(d))
	}
	return out
}

func weekdayKey(d time.Weekday) string {
	switch d {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}

func toOccurrenceResponse(o agenda.Occurrence) dto.OccurrenceResponse {
	return dto.OccurrenceResponse{
		ID:           o.ID,
		ScheduleID:   o.ScheduleID,
		WorkshopID:   o.WorkshopID,
		WorkshopName: o.WorkshopName,
		Date:         o.Date.Format(dto.DateLayout),
		Weekday:      weekdayKey(o.Date.Weekday()),
		StartTime:    o.StartTime,
		EndTime:      o.EndTime,
		TeacherName:  o.TeacherName,
		LocationName: o.LocationName,
		Capacity:     o.Capacity,
		StartAt:      formatTimePtr(o.StartAt),
		EndAt:        formatTimePtr(o.EndAt),
	}
}

func toOccurrenceResponses(occ []agenda.Occurrence) []dto.OccurrenceResponse {
	out := make([]dto.OccurrenceResponse, 0, len(occ))
	for _, o := range occ {
		out = append(out, toOccurrenceResponse(o))
	}
	return out
}
