package app

import (
	"github.com/facebookgo/clock"
	"gorm.io/gorm"

	"github.com/yungbote/lnd-backend/internal/observability"
	"github.com/yungbote/lnd-backend/internal/platform/objectstore"
	"github.com/yungbote/lnd-backend/internal/platform/sendgrid"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
	"github.com/yungbote/lnd-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Notification services.NotificationService
	Certificate  services.CertificateService
	Completion   services.CompletionService
	Progress     services.ProgressService
	Badge        services.BadgeService
	Reminder     services.ReminderService
	Attendance   services.AttendanceService
	Enrollment   services.EnrollmentService
	Training     services.TrainingService
	Module       services.ModuleService
	Report       services.ReportService
}

type serviceDeps struct {
	DB      *gorm.DB
	Log     *logger.Logger
	Cfg     Config
	Clock   clock.Clock
	Repos   Repos
	Mailer  sendgrid.Mailer
	Store   objectstore.Store
	Metrics *observability.Metrics
}

func wireServices(d serviceDeps) (Services, error) {
	d.Log.Info("Wiring services...")
	r := d.Repos

	notifications := services.NewNotificationService(d.DB, d.Log, r.Notification, r.User, d.Mailer, d.Metrics)

	var certificates services.CertificateService
	if d.Store != nil {
		c, err := services.NewCertificateService(d.Log, d.Store, d.Cfg.CertificateFont)
		if err != nil {
			return Services{}, err
		}
		certificates = c
	}

	return Services{
		Auth:         services.NewAuthService(d.Log, d.Clock, r.User, d.Cfg.JWTSecretKey, d.Cfg.AccessTokenTTL),
		User:         services.NewUserService(d.DB, d.Log, r.User),
		Notification: notifications,
		Certificate:  certificates,
		Completion: services.NewCompletionService(d.DB, d.Log, d.Clock, r.Enrollment, r.Training, r.Session,
			r.Attendance, r.Completion, r.User, notifications, certificates),
		Progress:   services.NewProgressService(d.DB, d.Log, d.Clock, r.Lesson, r.LessonProgress, r.Enrollment),
		Badge:      services.NewBadgeService(d.DB, d.Log, d.Clock, r.Badge, r.Completion, notifications),
		Reminder:   services.NewReminderService(d.DB, d.Log, d.Clock, r.Session, r.Training, r.Enrollment, notifications),
		Attendance: services.NewAttendanceService(d.DB, d.Log, r.Session, r.Enrollment, r.Attendance),
		Enrollment: services.NewEnrollmentService(d.DB, d.Log, d.Clock, r.User, r.Training, r.Session, r.Enrollment, notifications),
		Training:   services.NewTrainingService(d.DB, d.Log, d.Clock, r.Training, r.Session, r.User, notifications),
		Module:     services.NewModuleService(d.DB, d.Log, r.Training, r.Module, r.Lesson),
		Report:     services.NewReportService(d.Log, r.Completion),
	}, nil
}
