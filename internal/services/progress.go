package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/yungbote/lnd-backend/internal/data/repos"
	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/observability"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	errs "github.com/yungbote/lnd-backend/internal/pkg/errors"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

type LessonCompletionResult struct {
	Progress *types.LessonProgress `json:"progress"`
	// Enrollment is nil when the user is not enrolled in the lesson's training.
	Enrollment           *types.Enrollment `json:"enrollment,omitempty"`
	CompletionPercentage float64           `json:"completion_percentage"`
}

type TrainingProgress struct {
	TrainingID         uuid.UUID   `json:"training_id"`
	TotalLessons       int         `json:"total_lessons"`
	CompletedLessonIDs []uuid.UUID `json:"completed_lesson_ids"`
}

type ProgressService interface {
	CompleteLesson(ctx context.Context, userID, lessonID uuid.UUID, quizScore float64) (*LessonCompletionResult, error)
	GetTrainingProgress(ctx context.Context, userID, trainingID uuid.UUID) (*TrainingProgress, error)
}

type progressService struct {
	db          *gorm.DB
	log         *logger.Logger
	clock       clock.Clock
	lessons     repos.LessonRepo
	progress    repos.LessonProgressRepo
	enrollments repos.EnrollmentRepo
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	clk clock.Clock,
	lessons repos.LessonRepo,
	progress repos.LessonProgressRepo,
	enrollments repos.EnrollmentRepo,
) ProgressService {
	return &progressService{
		db:          db,
		log:         baseLog.With("service", "ProgressService"),
		clock:       clk,
		lessons:     lessons,
		progress:    progress,
		enrollments: enrollments,
	}
}

func (s *progressService) CompleteLesson(ctx context.Context, userID, lessonID uuid.UUID, quizScore float64) (*LessonCompletionResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "progress.complete_lesson")
	defer span.End()
	span.SetAttributes(
		attribute.String("user_id", userID.String()),
		attribute.String("lesson_id", lessonID.String()),
	)

	if quizScore < 0 || quizScore > 100 {
		return nil, fmt.Errorf("quiz_score must be within [0,100]: %w", errs.ErrInvalidArgument)
	}

	out := &LessonCompletionResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		now := s.clock.Now().UTC()

		lesson, err := s.lessons.GetByID(dbc, lessonID)
		if err != nil {
			return err
		}
		if lesson == nil || lesson.Module == nil {
			return fmt.Errorf("lesson %s: %w", lessonID, errs.ErrNotFound)
		}

		lp, err := s.upsertProgress(dbc, userID, lessonID, quizScore, now)
		if err != nil {
			return err
		}
		out.Progress = lp

		trainingID := lesson.Module.TrainingID
		enrollment, err := s.enrollments.GetByUserAndTraining(dbc, userID, trainingID)
		if err != nil {
			return err
		}
		if enrollment == nil {
			return nil
		}

		lessonIDs, err := s.lessons.ListIDsByTraining(dbc, trainingID)
		if err != nil {
			return err
		}
		out.Enrollment = enrollment
		if len(lessonIDs) == 0 {
			return nil
		}
		done, err := s.progress.CompletedLessonIDs(dbc, userID, lessonIDs)
		if err != nil {
			return err
		}
		pct := roundTo2(float64(len(done)) / float64(len(lessonIDs)) * 100)
		out.CompletionPercentage = pct

		updates := map[string]interface{}{"completion_percentage": pct}
		next := nextEnrollmentStatus(enrollment.Status, pct)
		if next != enrollment.Status {
			updates["status"] = next
			enrollment.Status = next
			if next == learning.EnrollmentStatusCompleted {
				updates["completed_at"] = now
				enrollment.CompletedAt = &now
			}
		}
		enrollment.CompletionPercentage = pct
		return s.enrollments.UpdateFields(dbc, enrollment.ID, updates)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return out, nil
}

func (s *progressService) upsertProgress(dbc dbctx.Context, userID, lessonID uuid.UUID, quizScore float64, now time.Time) (*types.LessonProgress, error) {
	existing, err := s.progress.GetByUserAndLesson(dbc, userID, lessonID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		lp := &types.LessonProgress{
			UserID:      userID,
			LessonID:    lessonID,
			IsCompleted: true,
			CompletedAt: &now,
			QuizScore:   quizScore,
		}
		if _, err := s.progress.Create(dbc, []*types.LessonProgress{lp}); err != nil {
			return nil, err
		}
		return lp, nil
	}
	score := math.Max(existing.QuizScore, quizScore)
	if err := s.progress.UpdateFields(dbc, existing.ID, map[string]interface{}{
		"is_completed": true,
		"completed_at": now,
		"quiz_score":   score,
	}); err != nil {
		return nil, err
	}
	existing.IsCompleted = true
	existing.CompletedAt = &now
	existing.QuizScore = score
	return existing, nil
}

// nextEnrollmentStatus applies the roll-up rule. Terminal states are never
// changed here.
func nextEnrollmentStatus(current learning.EnrollmentStatus, pct float64) learning.EnrollmentStatus {
	if current.Terminal() {
		return current
	}
	if pct >= 100 {
		return learning.EnrollmentStatusCompleted
	}
	if pct > 0 && current == learning.EnrollmentStatusEnrolled {
		return learning.EnrollmentStatusInProgress
	}
	return current
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *progressService) GetTrainingProgress(ctx context.Context, userID, trainingID uuid.UUID) (*TrainingProgress, error) {
	dbc := dbctx.New(ctx)
	lessonIDs, err := s.lessons.ListIDsByTraining(dbc, trainingID)
	if err != nil {
		return nil, err
	}
	done, err := s.progress.CompletedLessonIDs(dbc, userID, lessonIDs)
	if err != nil {
		return nil, err
	}
	if done == nil {
		done = []uuid.UUID{}
	}
	return &TrainingProgress{
		TrainingID:         trainingID,
		TotalLessons:       len(lessonIDs),
		CompletedLessonIDs: done,
	}, nil
}
