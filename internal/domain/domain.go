package domain

import (
	"github.com/yungbote/lnd-backend/internal/domain/jobs"
	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/domain/notification"
	"github.com/yungbote/lnd-backend/internal/domain/user"
)

type (
	User = user.User

	Training           = learning.Training
	TrainingSession    = learning.TrainingSession
	Module             = learning.Module
	Lesson             = learning.Lesson
	Enrollment         = learning.Enrollment
	Attendance         = learning.Attendance
	TrainingCompletion = learning.TrainingCompletion
	LessonProgress     = learning.LessonProgress
	Badge              = learning.Badge

	Notification = notification.Notification

	JobRun = jobs.JobRun
)

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&user.User{},
		&learning.Training{},
		&learning.TrainingSession{},
		&learning.Module{},
		&learning.Lesson{},
		&learning.Enrollment{},
		&learning.Attendance{},
		&learning.TrainingCompletion{},
		&learning.LessonProgress{},
		&learning.Badge{},
		&notification.Notification{},
		&jobs.JobRun{},
	}
}
