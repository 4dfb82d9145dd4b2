package app

import (
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/lnd-backend/internal/http"
	httpH "github.com/yungbote/lnd-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lnd-backend/internal/http/middleware"
	"github.com/yungbote/lnd-backend/internal/jobs/scheduler"
	"github.com/yungbote/lnd-backend/internal/observability"
	"github.com/yungbote/lnd-backend/internal/platform/objectstore"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health       *httpH.HealthHandler
	Auth         *httpH.AuthHandler
	User         *httpH.UserHandler
	Completion   *httpH.CompletionHandler
	Progress     *httpH.ProgressHandler
	Badge        *httpH.BadgeHandler
	Attendance   *httpH.AttendanceHandler
	Enrollment   *httpH.EnrollmentHandler
	Training     *httpH.TrainingHandler
	Notification *httpH.NotificationHandler
	Report       *httpH.ReportHandler
	Job          *httpH.JobHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, metrics *observability.Metrics, services Services, reposet Repos, sched *scheduler.Scheduler) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(db, metrics),
		Auth:         httpH.NewAuthHandler(services.Auth),
		User:         httpH.NewUserHandler(services.User),
		Completion:   httpH.NewCompletionHandler(services.Completion),
		Progress:     httpH.NewProgressHandler(services.Progress),
		Badge:        httpH.NewBadgeHandler(services.Badge),
		Attendance:   httpH.NewAttendanceHandler(services.Attendance),
		Enrollment:   httpH.NewEnrollmentHandler(services.Enrollment),
		Training:     httpH.NewTrainingHandler(services.Training, services.Module),
		Notification: httpH.NewNotificationHandler(services.Notification),
		Report:       httpH.NewReportHandler(services.Report),
		Job:          httpH.NewJobHandler(sched, reposet.JobRun),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, storeCfg objectstore.Config, handlers Handlers, middleware Middleware) *http.Server {
	srv := http.NewServer(http.RouterConfig{
		Log:                 log,
		Metrics:             metrics,
		CORSOrigins:         cfg.CORSOrigins,
		ServiceName:         cfg.ServiceName,
		AuthMiddleware:      middleware.Auth,
		AuthHandler:         handlers.Auth,
		UserHandler:         handlers.User,
		CompletionHandler:   handlers.Completion,
		ProgressHandler:     handlers.Progress,
		BadgeHandler:        handlers.Badge,
		AttendanceHandler:   handlers.Attendance,
		EnrollmentHandler:   handlers.Enrollment,
		TrainingHandler:     handlers.Training,
		NotificationHandler: handlers.Notification,
		ReportHandler:       handlers.Report,
		JobHandler:          handlers.Job,
		HealthHandler:       handlers.Health,
	})
	// Locally stored certificates are served by the API itself.
	if storeCfg.Mode == objectstore.ModeLocal && strings.HasPrefix(storeCfg.PublicBaseURL, "/") {
		srv.Engine.Static(storeCfg.PublicBaseURL, storeCfg.LocalDir)
	}
	return srv
}
