package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lnd-backend/internal/data/repos"
	"github.com/yungbote/lnd-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/domain/notification"
	"github.com/yungbote/lnd-backend/internal/observability"
	"github.com/yungbote/lnd-backend/internal/platform/sendgrid"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []sendgrid.Message
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, msg sendgrid.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type testEnv struct {
	ctx     context.Context
	db      *gorm.DB
	clock   *clock.Mock
	mailer  *recordingMailer
	metrics *observability.Metrics

	notifications NotificationService
	completions   CompletionService
	progress      ProgressService
	badges        BadgeService
	reminders     ReminderService
	attendance    AttendanceService
	enrollments   EnrollmentService
	trainings     TrainingService
	modules       ModuleService
	reports       ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	clk := clock.NewMock()
	setNow(clk, time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC))

	userRepo := repos.NewUserRepo(db, log)
	trainingRepo := repos.NewTrainingRepo(db, log)
	sessionRepo := repos.NewTrainingSessionRepo(db, log)
	moduleRepo := repos.NewModuleRepo(db, log)
	lessonRepo := repos.NewLessonRepo(db, log)
	enrollmentRepo := repos.NewEnrollmentRepo(db, log)
	attendanceRepo := repos.NewAttendanceRepo(db, log)
	completionRepo := repos.NewTrainingCompletionRepo(db, log)
	progressRepo := repos.NewLessonProgressRepo(db, log)
	badgeRepo := repos.NewBadgeRepo(db, log)
	notificationRepo := repos.NewNotificationRepo(db, log)

	mailer := &recordingMailer{}
	metrics := observability.NewMetrics()
	notifications := NewNotificationService(db, log, notificationRepo, userRepo, mailer, metrics)

	return &testEnv{
		ctx:           context.Background(),
		db:            db,
		clock:         clk,
		mailer:        mailer,
		metrics:       metrics,
		notifications: notifications,
		completions: NewCompletionService(db, log, clk, enrollmentRepo, trainingRepo, sessionRepo,
			attendanceRepo, completionRepo, userRepo, notifications, nil),
		progress:    NewProgressService(db, log, clk, lessonRepo, progressRepo, enrollmentRepo),
		badges:      NewBadgeService(db, log, clk, badgeRepo, completionRepo, notifications),
		reminders:   NewReminderService(db, log, clk, sessionRepo, trainingRepo, enrollmentRepo, notifications),
		attendance:  NewAttendanceService(db, log, sessionRepo, enrollmentRepo, attendanceRepo),
		enrollments: NewEnrollmentService(db, log, clk, userRepo, trainingRepo, sessionRepo, enrollmentRepo, notifications),
		trainings:   NewTrainingService(db, log, clk, trainingRepo, sessionRepo, userRepo, notifications),
		modules:     NewModuleService(db, log, trainingRepo, moduleRepo, lessonRepo),
		reports:     NewReportService(log, completionRepo),
	}
}

func setNow(clk *clock.Mock, t time.Time) {
	clk.Add(t.Sub(clk.Now()))
}

func (e *testEnv) notificationsOf(t *testing.T, userID uuid.UUID, kind notification.Type) []*types.Notification {
	t.Helper()
	var rows []*types.Notification
	if err := e.db.Where("user_id = ? AND notification_type = ?", userID, kind).Find(&rows).Error; err != nil {
		t.Fatalf("load notifications: %v", err)
	}
	return rows
}

func (e *testEnv) countRows(t *testing.T, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(model).Where(where, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
