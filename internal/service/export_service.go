package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"talleres/internal/agenda"
	"talleres/internal/dto"
	"talleres/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoSchedules  = errors.New("暂无启用的时段")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

const (
	icsProductID     = "-//talleres//agenda semanal//ES"
	icsLocalLayout   = "20060102T150405"
	sheetWeek        = "Semana"
	sheetIssues      = "Problemas"
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType   = "text/calendar; charset=utf-8"
	exportFilePrefix = "agenda"
)

// ExportFile 导出结果，由 Handler 层写入响应
type ExportFile struct {
	Buf         *bytes.Buffer
	Filename    string
	ContentType string
}

// ExportService 导出业务接口
//
// 两种导出都基于与看板相同的展开结果：
//   - Excel：指定日期所在周的每一次课一行，另附数据问题清单
//   - iCalendar：每个时段一个 VEVENT，以 RRULE 表示每周重复
type ExportService interface {
	ExportWeekXLSX(ctx context.Context, req *dto.WeekRequest) (*ExportFile, error)
	ExportICS(ctx context.Context) (*ExportFile, error)
}

type exportService struct {
	repo   *repository.Repository
	engine *agenda.Engine
	clock  Clock
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, engine *agenda.Engine, clock Clock, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, engine: engine, clock: clock, logger: logger}
}

// ────────────────────── ExportWeekXLSX ──────────────────────
//
// Sheet "Semana"：
//   - 第 1 行：标题（周起止日期），合并单元格
//   - 第 2 行：表头
//   - 之后：按日期、开始时间排序的课次
//
// Sheet "Problemas"：无法解析的星期或时间

func (s *exportService) ExportWeekXLSX(ctx context.Context, req *dto.WeekRequest) (*ExportFile, error) {
	ref := s.clock()
	if req != nil && req.Date != "" {
		d, err := time.ParseInLocation(dto.DateLayout, req.Date, ref.Location())
		if err != nil {
			return nil, ErrInvalidDate
		}
		ref = d
	}

	records, names, err := loadAgenda(ctx, s.repo, s.logger)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrExportNoSchedules
	}

	week := agenda.ComputeWeek(ref)
	occ := s.engine.Materialize(records, week, names)
	issues := s.engine.Audit(records)

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetWeek)
	if err != nil {
		return nil, s.generateFailed(err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, s.generateFailed(err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, s.generateFailed(err)
	}

	headers := []string{"Fecha", "Día", "Inicio", "Término", "Taller", "Profesor", "Sala", "Cupo"}
	widths := []float64{12, 11, 8, 8, 28, 22, 18, 7}
	for i, w := range widths {
		col := colName(i)
		_ = f.SetColWidth(sheetWeek, col, col, w)
	}

	// 标题
	_ = f.SetCellValue(sheetWeek, "A1", fmt.Sprintf("Agenda semanal %s – %s",
		week.Start.Format(dto.DateLayout), week.End.Format(dto.DateLayout)))
	_ = f.MergeCell(sheetWeek, "A1", cell(colName(len(headers)-1), 1))
	_ = f.SetCellStyle(sheetWeek, "A1", "A1", headerStyle)

	// 表头
	for i, h := range headers {
		_ = f.SetCellValue(sheetWeek, cell(colName(i), 2), h)
	}
	_ = f.SetCellStyle(sheetWeek, "A2", cell(colName(len(headers)-1), 2), headerStyle)

	// 数据行
	row := 3
	for _, o := range occ {
		values := []any{
			o.Date.Format(dto.DateLayout),
			weekdayLabel(o.Date.Weekday()),
			o.StartTime,
			o.EndTime,
			o.WorkshopName,
			o.TeacherName,
			o.LocationName,
			"",
		}
		if o.Capacity != nil {
			values[7] = *o.Capacity
		}
		for i, v := range values {
			_ = f.SetCellValue(sheetWeek, cell(colName(i), row), v)
		}
		row++
	}

	if len(issues) > 0 {
		if _, err := f.NewSheet(sheetIssues); err != nil {
			return nil, s.generateFailed(err)
		}
		for i, h := range []string{"Horario", "Campo", "Valor"} {
			_ = f.SetCellValue(sheetIssues, cell(colName(i), 1), h)
		}
		_ = f.SetCellStyle(sheetIssues, "A1", "C1", headerStyle)
		_ = f.SetColWidth(sheetIssues, "A", "A", 38)
		_ = f.SetColWidth(sheetIssues, "C", "C", 24)
		for i, is := range issues {
			_ = f.SetCellValue(sheetIssues, cell("A", i+2), is.ScheduleID)
			_ = f.SetCellValue(sheetIssues, cell("B", i+2), string(is.Kind))
			_ = f.SetCellValue(sheetIssues, cell("C", i+2), is.Value)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, s.generateFailed(err)
	}

	return &ExportFile{
		Buf:         buf,
		Filename:    fmt.Sprintf("%s_%s.xlsx", exportFilePrefix, week.Start.Format(dto.DateLayout)),
		ContentType: xlsxContentType,
	}, nil
}

// ────────────────────── ExportICS ──────────────────────
//
// DTSTART 取本周内该时段的第一次课，时间按配置时区写成带 TZID 的本地时间，
// 使 BYDAY 与本地星期一致。星期或时间无法解析的时段跳过。

func (s *exportService) ExportICS(ctx context.Context) (*ExportFile, error) {
	records, names, err := loadAgenda(ctx, s.repo, s.logger)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrExportNoSchedules
	}

	now := s.clock()
	week := agenda.ComputeWeek(now)
	tzid := now.Location().String()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName("Talleres")
	cal.SetXWRTimezone(tzid)

	skipped := 0
	for _, rec := range records {
		days := s.engine.Resolver().Resolve(string(rec.DaySpec))
		start, okStart := agenda.ParseClock(rec.StartTime)
		end, okEnd := agenda.ParseClock(rec.EndTime)
		if days.Empty() || !okStart || !okEnd || end <= start {
			skipped++
			continue
		}

		opt := rrule.ROption{
			Freq:      rrule.WEEKLY,
			Dtstart:   atOffset(week.Start, start),
			Byweekday: toRRuleWeekdays(days),
		}
		rule, err := rrule.NewRRule(opt)
		if err != nil {
			s.logger.Warn("生成重复规则失败", zap.String("schedule_id", rec.ID), zap.Error(err))
			skipped++
			continue
		}
		first := rule.After(week.Start, true)
		if first.IsZero() {
			skipped++
			continue
		}

		event := cal.AddEvent(rec.ID + "@talleres")
		event.SetDtStampTime(now)
		setLocalTime(event, ics.ComponentPropertyDtStart, first, tzid)
		setLocalTime(event, ics.ComponentPropertyDtEnd, first.Add(end-start), tzid)
		event.AddRrule(opt.RRuleString())
		title := s.engine.WorkshopName(rec, names)
		if title == "" {
			title = "Taller"
		}
		event.SetSummary(title)
		if rec.LocationName != "" {
			event.SetLocation(rec.LocationName)
		}
		if rec.TeacherName != "" {
			event.SetDescription("Profesor: " + rec.TeacherName)
		}
	}
	if skipped > 0 {
		s.logger.Info("部分时段未导出到日历", zap.Int("skipped", skipped), zap.Int("total", len(records)))
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return &ExportFile{
		Buf:         buf,
		Filename:    exportFilePrefix + ".ics",
		ContentType: icsContentType,
	}, nil
}

// ── 辅助函数 ──

func (s *exportService) generateFailed(err error) error {
	s.logger.Error("生成导出文件失败", zap.Error(err))
	return ErrExportGenerateFail
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func weekdayLabel(d time.Weekday) string {
	return [...]string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}[d]
}

func toRRuleWeekdays(days agenda.DaySet) []rrule.Weekday {
	table := map[time.Weekday]rrule.Weekday{
		time.Monday:    rrule.MO,
		time.Tuesday:   rrule.TU,
		time.Wednesday: rrule.WE,
		time.Thursday:  rrule.TH,
		time.Friday:    rrule.FR,
		time.Saturday:  rrule.SA,
		time.Sunday:    rrule.SU,
	}
	out := make([]rrule.Weekday, 0, days.Len())
	for _, d := range days.Days() {
		out = append(out, table[d])
	}
	return out
}

// setLocalTime UTC 直接写 Z 结尾，其它时区写 TZID 参数
func setLocalTime(event *ics.VEvent, prop ics.ComponentProperty, t time.Time, tzid string) {
	if t.Location() == time.UTC || strings.EqualFold(tzid, "UTC") {
		event.SetProperty(prop, t.UTC().Format(icsLocalLayout)+"Z")
		return
	}
	event.SetProperty(prop, t.Format(icsLocalLayout), &ics.KeyValues{
		Key:   string(ics.ParameterTzid),
		Value: []string{tzid},
	})
}

// atOffset 当天零点加上时刻偏移，按墙上时间构造以避开夏令时切换
func atOffset(date time.Time, offset time.Duration) time.Time {
	h := int(offset / time.Hour)
	m := int(offset % time.Hour / time.Minute)
	sec := int(offset % time.Minute / time.Second)
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, sec, 0, date.Location())
}
