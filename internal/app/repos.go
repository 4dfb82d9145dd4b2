package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/lnd-backend/internal/data/repos"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

type Repos struct {
	User           repos.UserRepo
	Training       repos.TrainingRepo
	Session        repos.TrainingSessionRepo
	Module         repos.ModuleRepo
	Lesson         repos.LessonRepo
	Enrollment     repos.EnrollmentRepo
	Attendance     repos.AttendanceRepo
	Completion     repos.TrainingCompletionRepo
	LessonProgress repos.LessonProgressRepo
	Badge          repos.BadgeRepo
	Notification   repos.NotificationRepo
	JobRun         repos.JobRunRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		Training:       repos.NewTrainingRepo(db, log),
		Session:        repos.NewTrainingSessionRepo(db, log),
		Module:         repos.NewModuleRepo(db, log),
		Lesson:         repos.NewLessonRepo(db, log),
		Enrollment:     repos.NewEnrollmentRepo(db, log),
		Attendance:     repos.NewAttendanceRepo(db, log),
		Completion:     repos.NewTrainingCompletionRepo(db, log),
		LessonProgress: repos.NewLessonProgressRepo(db, log),
		Badge:          repos.NewBadgeRepo(db, log),
		Notification:   repos.NewNotificationRepo(db, log),
		JobRun:         repos.NewJobRunRepo(db, log),
	}
}
