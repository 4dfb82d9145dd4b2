package repos

import (
	"github.com/yungbote/lnd-backend/internal/data/repos/jobs"
	"github.com/yungbote/lnd-backend/internal/data/repos/learning"
	"github.com/yungbote/lnd-backend/internal/data/repos/notification"
	"github.com/yungbote/lnd-backend/internal/data/repos/user"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo

type TrainingRepo = learning.TrainingRepo
type TrainingSessionRepo = learning.TrainingSessionRepo
type ModuleRepo = learning.ModuleRepo
type LessonRepo = learning.LessonRepo
type EnrollmentRepo = learning.EnrollmentRepo
type AttendanceRepo = learning.AttendanceRepo
type TrainingCompletionRepo = learning.TrainingCompletionRepo
type LessonProgressRepo = learning.LessonProgressRepo
type BadgeRepo = learning.BadgeRepo

type UserHours = learning.UserHours

type NotificationRepo = notification.NotificationRepo

type JobRunRepo = jobs.JobRunRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewTrainingRepo(db *gorm.DB, baseLog *logger.Logger) TrainingRepo {
	return learning.NewTrainingRepo(db, baseLog)
}
func NewTrainingSessionRepo(db *gorm.DB, baseLog *logger.Logger) TrainingSessionRepo {
	return learning.NewTrainingSessionRepo(db, baseLog)
}
func NewModuleRepo(db *gorm.DB, baseLog *logger.Logger) ModuleRepo {
	return learning.NewModuleRepo(db, baseLog)
}
func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return learning.NewLessonRepo(db, baseLog)
}
func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return learning.NewEnrollmentRepo(db, baseLog)
}
func NewAttendanceRepo(db *gorm.DB, baseLog *logger.Logger) AttendanceRepo {
	return learning.NewAttendanceRepo(db, baseLog)
}
func NewTrainingCompletionRepo(db *gorm.DB, baseLog *logger.Logger) TrainingCompletionRepo {
	return learning.NewTrainingCompletionRepo(db, baseLog)
}
func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	return learning.NewLessonProgressRepo(db, baseLog)
}
func NewBadgeRepo(db *gorm.DB, baseLog *logger.Logger) BadgeRepo {
	return learning.NewBadgeRepo(db, baseLog)
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return notification.NewNotificationRepo(db, baseLog)
}

func NewJobRunRepo(db *gorm.DB, baseLog *logger.Logger) JobRunRepo {
	return jobs.NewJobRunRepo(db, baseLog)
}
