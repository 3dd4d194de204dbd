package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"talleres/config"
	"talleres/internal/api/handler"
	"talleres/internal/api/middleware"
	"talleres/internal/model"
	"talleres/pkg/jwt"
)

const (
	maxBodyBytes    = 1 << 20
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// Setup 初始化并返回 Gin 路由引擎
// blacklist / limiter 为 nil 时对应功能降级（Redis 不可用）
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	blacklist middleware.TokenBlacklist,
	limiter middleware.RateLimiter,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	handler.RegisterValidators()

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	admin := middleware.RoleAuth(model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(limiter, loginRateLimit, loginRateWindow))
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 看板
			dashboard := authorized.Group("/dashboard")
			{
				dashboard.GET("/today", h.Dashboard.Today)
				dashboard.GET("/week", h.Dashboard.Week)
			}

			// 工作坊模块
			workshops := authorized.Group("/workshops")
			{
				workshops.GET("", h.Workshop.ListWorkshops)
				workshops.GET("/:id", h.Workshop.GetWorkshop)
				workshops.POST("", admin, h.Workshop.CreateWorkshop)
				workshops.PUT("/:id", admin, h.Workshop.UpdateWorkshop)
				workshops.DELETE("/:id", admin, h.Workshop.DeleteWorkshop)
			}

			// 老师模块
			teachers := authorized.Group("/teachers")
			{
				teachers.GET("", h.Teacher.ListTeachers)
				teachers.GET("/:id", h.Teacher.GetTeacher)
				teachers.POST("", admin, h.Teacher.CreateTeacher)
				teachers.PUT("/:id", admin, h.Teacher.UpdateTeacher)
				teachers.DELETE("/:id", admin, h.Teacher.DeleteTeacher)
			}

			// 地点模块
			locations := authorized.Group("/locations")
			{
				locations.GET("", h.Location.ListLocations)
				locations.GET("/:id", h.Location.GetLocation)
				locations.POST("", admin, h.Location.CreateLocation)
				locations.PUT("/:id", admin, h.Location.UpdateLocation)
				locations.DELETE("/:id", admin, h.Location.DeleteLocation)
			}

			// 时段模块（含报名与出勤子资源）
			schedules := authorized.Group("/schedules")
			{
				schedules.GET("", h.Schedule.ListSchedules)
				schedules.GET("/audit", admin, h.Schedule.AuditSchedules)
				schedules.GET("/:id", h.Schedule.GetSchedule)
				schedules.POST("", admin, h.Schedule.CreateSchedule)
				schedules.PUT("/:id", admin, h.Schedule.UpdateSchedule)
				schedules.DELETE("/:id", admin, h.Schedule.DeleteSchedule)

				schedules.GET("/:id/enrollments", h.Enrollment.ListEnrollments)
				schedules.POST("/:id/enrollments", h.Enrollment.Enroll)
				schedules.GET("/:id/attendance", h.Attendance.ListAttendance)
				schedules.POST("/:id/attendance", h.Attendance.RecordAttendance)
			}

			authorized.POST("/enrollments/:id/cancel", h.Enrollment.CancelEnrollment)

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/week", h.Export.ExportWeek)
				export.GET("/calendar.ics", h.Export.ExportCalendar)
			}
		}
	}

	return r
}
