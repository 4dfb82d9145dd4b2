package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/lnd-backend/internal/domain/user"
	httpH "github.com/yungbote/lnd-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lnd-backend/internal/http/middleware"
	"github.com/yungbote/lnd-backend/internal/observability"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	CORSOrigins    []string
	ServiceName    string
	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler         *httpH.AuthHandler
	UserHandler         *httpH.UserHandler
	CompletionHandler   *httpH.CompletionHandler
	ProgressHandler     *httpH.ProgressHandler
	BadgeHandler        *httpH.BadgeHandler
	AttendanceHandler   *httpH.AttendanceHandler
	EnrollmentHandler   *httpH.EnrollmentHandler
	TrainingHandler     *httpH.TrainingHandler
	NotificationHandler *httpH.NotificationHandler
	ReportHandler       *httpH.ReportHandler
	JobHandler          *httpH.JobHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
		r.GET("/metrics", cfg.HealthHandler.Metrics)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	admin := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
		admin.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireRole(user.RoleAdmin, user.RoleSuperAdmin))
	}

	// User (Me)
	if cfg.UserHandler != nil {
		protected.GET("/me", cfg.UserHandler.GetMe)
	}

	// Completions
	if cfg.CompletionHandler != nil {
		protected.POST("/completions/calculate/:enrollment_id", cfg.CompletionHandler.Calculate)
		protected.GET("/completions/:id", cfg.CompletionHandler.Get)
		protected.GET("/completions/user/:user_id", cfg.CompletionHandler.ListForUser)
		protected.PUT("/completions/:id/issue-certificate", cfg.CompletionHandler.IssueCertificate)
	}

	// Lesson progress
	if cfg.ProgressHandler != nil {
		protected.POST("/lessons/:lesson_id/complete", cfg.ProgressHandler.CompleteLesson)
		protected.GET("/trainings/:id/progress", cfg.ProgressHandler.TrainingProgress)
	}

	// Badges
	if cfg.BadgeHandler != nil {
		admin.POST("/badges/calculate/:user_id/:year", cfg.BadgeHandler.Calculate)
		protected.GET("/badges/user/:user_id", cfg.BadgeHandler.ListForUser)
		protected.GET("/badges/year/:year", cfg.BadgeHandler.ListForYear)
		protected.GET("/badges/statistics/:user_id", cfg.BadgeHandler.Statistics)
	}

	// Attendance
	if cfg.AttendanceHandler != nil {
		protected.POST("/attendance", cfg.AttendanceHandler.Mark)
		protected.GET("/attendance/session/:id", cfg.AttendanceHandler.ListBySession)
		protected.GET("/attendance/enrollment/:id", cfg.AttendanceHandler.ListByEnrollment)
		protected.PUT("/attendance/:id", cfg.AttendanceHandler.Update)
	}

	// Enrollments
	if cfg.EnrollmentHandler != nil {
		protected.POST("/enrollments", cfg.EnrollmentHandler.Enroll)
		protected.POST("/enrollments/assign", cfg.EnrollmentHandler.Assign)
		protected.GET("/enrollments/:id", cfg.EnrollmentHandler.Get)
		protected.GET("/enrollments/user/:user_id", cfg.EnrollmentHandler.ListForUser)
		protected.PUT("/enrollments/:id/status", cfg.EnrollmentHandler.UpdateStatus)
	}

	// Trainings, content and sessions
	if cfg.TrainingHandler != nil {
		protected.POST("/trainings", cfg.TrainingHandler.Create)
		admin.GET("/trainings/pending", cfg.TrainingHandler.ListPending)
		protected.GET("/trainings/:id", cfg.TrainingHandler.Get)
		protected.GET("/trainings/:id/outline", cfg.TrainingHandler.Outline)
		protected.POST("/trainings/:id/modules", cfg.TrainingHandler.AddModule)
		protected.POST("/modules/:id/lessons", cfg.TrainingHandler.AddLesson)
		protected.PUT("/trainings/:id/submit", cfg.TrainingHandler.Submit)
		protected.PUT("/trainings/:id/approve", cfg.TrainingHandler.Approve)
		protected.PUT("/trainings/:id/reject", cfg.TrainingHandler.Reject)
		protected.POST("/sessions", cfg.TrainingHandler.CreateSession)
		protected.GET("/sessions/training/:id", cfg.TrainingHandler.ListSessions)
	}

	// Notifications
	if cfg.NotificationHandler != nil {
		protected.GET("/notifications/user/:user_id", cfg.NotificationHandler.ListForUser)
		protected.PATCH("/notifications/:id/read", cfg.NotificationHandler.MarkRead)
	}

	// Reports
	if cfg.ReportHandler != nil {
		protected.GET("/reports/user/:user_id/learning-hours", cfg.ReportHandler.LearningHours)
	}

	// Jobs
	if cfg.JobHandler != nil {
		admin.POST("/jobs/:type/run", cfg.JobHandler.RunNow)
		admin.GET("/jobs/recent", cfg.JobHandler.ListRecent)
	}

	return r
}
