// Package agenda 把每周重复的课程时段展开为本周的具体课次，并按当前时刻分类。
//
// 整个包是纯函数：不读系统时钟、不访问存储、不持有可变状态。
// "now" 与 "today" 一律由调用方传入。
package agenda

import (
	"time"
)

// DefaultUpcomingLimit 仪表盘"即将开始"列表的默认条数
const DefaultUpcomingLimit = 3

// Engine 组合星期解析、周窗口、展开与分类
type Engine struct {
	resolver      *DayResolver
	upcomingLimit int
	placeholder   string
}

// Option Engine 配置项
type Option func(*Engine)

// WithResolver 替换星期解析器（例如收紧模糊匹配策略）
func WithResolver(r *DayResolver) Option {
	return func(e *Engine) {
		if r != nil {
			e.resolver = r
		}
	}
}

// WithUpcomingLimit 设置"即将开始"的上限，n ≤ 0 时保持默认值
func WithUpcomingLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.upcomingLimit = n
		}
	}
}

// WithPlaceholder 设置工作坊名称缺失时的占位名
func WithPlaceholder(name string) Option {
	return func(e *Engine) { e.placeholder = name }
}

// NewEngine 创建 Engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		resolver:      defaultResolver,
		upcomingLimit: DefaultUpcomingLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolver 返回 Engine 使用的星期解析器
func (e *Engine) Resolver() *DayResolver { return e.resolver }

// UpcomingLimit 返回"即将开始"的上限
func (e *Engine) UpcomingLimit() int { return e.upcomingLimit }

// Snapshot 一次完整计算的结果
type Snapshot struct {
	Now         time.Time
	Week        WeekWindow
	Occurrences []Occurrence // 整周
	TodayTotal  int
	Classification
}

// Snapshot 计算 now 所在周 → 展开 → 过滤今天 → 分类
func (e *Engine) Snapshot(records []ScheduleRecord, workshopNames map[string]string, now time.Time) Snapshot {
	week := ComputeWeek(now)
	occ := e.Materialize(records, week, workshopNames)
	today := DateOf(now)
	return Snapshot{
		Now:            now,
		Week:           week,
		Occurrences:    occ,
		TodayTotal:     len(Today(occ, today)),
		Classification: e.Classify(occ, today, now),
	}
}

// ── 数据质量检查 ──

// IssueKind 记录问题类型
type IssueKind string

const (
	IssueDaySpec   IssueKind = "day_spec"   // 星期描述无法解析
	IssueStartTime IssueKind = "start_time" // 开始时间无法解析
	IssueEndTime   IssueKind = "end_time"   // 结束时间无法解析
	IssueRange     IssueKind = "time_range" // 结束时间不晚于开始时间
)

// Issue 一条记录上的一个问题
type Issue struct {
	ScheduleID string    `json:"schedule_id"`
	Kind       IssueKind `json:"kind"`
	Value      string    `json:"value"`
}

// Audit 检查记录中会导致课次缺失或无法实时分类的数据
func (e *Engine) Audit(records []ScheduleRecord) []Issue {
	var issues []Issue
	for _, rec := range records {
		issues = append(issues, e.AuditRecord(rec)...)
	}
	return issues
}

// AuditRecord 检查单条记录
func (e *Engine) AuditRecord(rec ScheduleRecord) []Issue {
	var issues []Issue
	if e.resolver.Resolve(string(rec.DaySpec)).Empty() {
		issues = append(issues, Issue{ScheduleID: rec.ID, Kind: IssueDaySpec, Value: string(rec.DaySpec)})
	}
	start, okStart := ParseClock(rec.StartTime)
	if !okStart {
		issues = append(issues, Issue{ScheduleID: rec.ID, Kind: IssueStartTime, Value: rec.StartTime})
	}
	end, okEnd := ParseClock(rec.EndTime)
	if !okEnd {
		issues = append(issues, Issue{ScheduleID: rec.ID, Kind: IssueEndTime, Value: rec.EndTime})
	}
	if okStart && okEnd && end <= start {
		issues = append(issues, Issue{ScheduleID: rec.ID, Kind: IssueRange, Value: rec.StartTime + "-" + rec.EndTime})
	}
	return issues
}
