// Package job 后台定时任务：时段数据质量巡检与每日课次摘要。
//
// 任务只读数据库并写日志，不修改任何业务数据。
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"talleres/config"
	"talleres/internal/dto"
	"talleres/internal/service"
)

// runTimeout 单次任务的最长执行时间
const runTimeout = 2 * time.Minute

// Scheduler 包装 cron.Cron
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler 按配置注册巡检与摘要任务。
// 同一任务上一次尚未结束时跳过本次触发；任务 panic 被恢复并记录。
func NewScheduler(cfg *config.JobConfig, loc *time.Location, svc *service.Service, logger *zap.Logger) (*Scheduler, error) {
	cl := cronLogger{logger: logger.Named("cron")}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	if _, err := c.AddJob(cfg.AuditCron, NewAuditJob(svc.Schedule, logger)); err != nil {
		return nil, fmt.Errorf("注册巡检任务失败: %w", err)
	}
	if _, err := c.AddJob(cfg.DigestCron, NewDigestJob(svc.Dashboard, logger)); err != nil {
		return nil, fmt.Errorf("注册摘要任务失败: %w", err)
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Start 在后台开始调度
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.logger.Info("定时任务已注册", zap.Int("entry", int(e.ID)), zap.Time("next", e.Next))
	}
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("等待定时任务结束超时")
	}
}

// ────────────────────── AuditJob ──────────────────────

// AuditJob 巡检启用时段：星期无法识别的时段不会出现在课表中，
// 时间无法解析的时段不会出现在"进行中/即将开始"中
type AuditJob struct {
	schedules service.ScheduleService
	logger    *zap.Logger
}

// NewAuditJob 创建巡检任务
func NewAuditJob(schedules service.ScheduleService, logger *zap.Logger) *AuditJob {
	return &AuditJob{schedules: schedules, logger: logger.Named("audit")}
}

// Run 实现 cron.Job
func (j *AuditJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	if _, err := j.Execute(ctx); err != nil {
		j.logger.Error("时段巡检失败", zap.Error(err))
	}
}

// Execute 执行一次巡检并返回问题列表
func (j *AuditJob) Execute(ctx context.Context) ([]dto.ScheduleIssueResponse, error) {
	issues, err := j.schedules.Audit(ctx)
	if err != nil {
		return nil, err
	}
	for _, is := range issues {
		j.logger.Warn("时段数据无法解析",
			zap.String("schedule_id", is.ScheduleID),
			zap.String("field", is.Kind),
			zap.String("value", is.Value),
		)
	}
	j.logger.Info("时段巡检完成", zap.Int("issues", len(issues)))
	return issues, nil
}

// ────────────────────── DigestJob ──────────────────────

// Digest 每日摘要
type Digest struct {
	Date       string
	TodayTotal int
	InProgress int
	Upcoming   []string // "HH:MM 工作坊名"
}

// DigestJob 记录当天课次概况
type DigestJob struct {
	dashboard service.DashboardService
	logger    *zap.Logger
}

// NewDigestJob 创建摘要任务
func NewDigestJob(dashboard service.DashboardService, logger *zap.Logger) *DigestJob {
	return &DigestJob{dashboard: dashboard, logger: logger.Named("digest")}
}

// Run 实现 cron.Job
func (j *DigestJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	if _, err := j.Execute(ctx); err != nil {
		j.logger.Error("生成课次摘要失败", zap.Error(err))
	}
}

// Execute 生成一次摘要
func (j *DigestJob) Execute(ctx context.Context) (*Digest, error) {
	snap, err := j.dashboard.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	d := &Digest{
		Date:       snap.Now.Format(dto.DateLayout),
		TodayTotal: snap.TodayTotal,
		InProgress: len(snap.InProgress),
		Upcoming:   make([]string, 0, len(snap.Upcoming)),
	}
	for _, o := range snap.Upcoming {
		d.Upcoming = append(d.Upcoming, o.StartAt.Format("15:04")+" "+o.WorkshopName)
	}

	j.logger.Info("今日课次摘要",
		zap.String("date", d.Date),
		zap.Int("today_total", d.TodayTotal),
		zap.Int("in_progress", d.InProgress),
		zap.Strings("upcoming", d.Upcoming),
	)
	return d, nil
}

// ── cron 日志适配 ──

// cronLogger 把 cron.Logger 接到 zap
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
