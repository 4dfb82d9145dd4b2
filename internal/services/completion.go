package services

import (
	"context"
	"errors"
	"fmt"

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

type CalculateCompletionInput struct {
	EnrollmentID    uuid.UUID
	AssessmentScore *float64
	// Passed defaults to true when nil.
	Passed *bool
}

type CompletionService interface {
	Calculate(ctx context.Context, in CalculateCompletionInput) (*types.TrainingCompletion, error)
	Get(ctx context.Context, id uuid.UUID) (*types.TrainingCompletion, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.TrainingCompletion, error)
	// IssueCertificate renders and stores a certificate when url is empty.
	IssueCertificate(ctx context.Context, id uuid.UUID, url string) (*types.TrainingCompletion, error)
}

type completionService struct {
	db            *gorm.DB
	log           *logger.Logger
	clock         clock.Clock
	enrollments   repos.EnrollmentRepo
	trainings     repos.TrainingRepo
	sessions      repos.TrainingSessionRepo
	attendance    repos.AttendanceRepo
	completions   repos.TrainingCompletionRepo
	users         repos.UserRepo
	notifications NotificationService
	certificates  CertificateService
}

func NewCompletionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	clk clock.Clock,
	enrollments repos.EnrollmentRepo,
	trainings repos.TrainingRepo,
	sessions repos.TrainingSessionRepo,
	attendance repos.AttendanceRepo,
	completions repos.TrainingCompletionRepo,
	users repos.UserRepo,
	notifications NotificationService,
	certificates CertificateService,
) CompletionService {
	return &completionService{
		db:            db,
		log:           baseLog.With("service", "CompletionService"),
		clock:         clk,
		enrollments:   enrollments,
		trainings:     trainings,
		sessions:      sessions,
		attendance:    attendance,
		completions:   completions,
		users:         users,
		notifications: notifications,
		certificates:  certificates,
	}
}

func (s *completionService) Calculate(ctx context.Context, in CalculateCompletionInput) (*types.TrainingCompletion, error) {
	ctx, span := observability.Tracer().Start(ctx, "completion.calculate")
	defer span.End()
	span.SetAttributes(attribute.String("enrollment_id", in.EnrollmentID.String()))

	if in.AssessmentScore != nil && (*in.AssessmentScore < 0 || *in.AssessmentScore > 100) {
		return nil, fmt.Errorf("assessment_score must be within [0,100]: %w", errs.ErrInvalidArgument)
	}
	passed := true
	if in.Passed != nil {
		passed = *in.Passed
	}

	var out *types.TrainingCompletion
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		enrollment, err := s.enrollments.GetByID(dbc, in.EnrollmentID)
		if err != nil {
			return err
		}
		if enrollment == nil {
			return fmt.Errorf("enrollment %s: %w", in.EnrollmentID, errs.ErrNotFound)
		}
		training, err := s.trainings.GetByID(dbc, enrollment.TrainingID)
		if err != nil {
			return err
		}
		if training == nil {
			return fmt.Errorf("training %s: %w", enrollment.TrainingID, errs.ErrNotFound)
		}
		if enrollment.SessionID != nil {
			session, err := s.sessions.GetByID(dbc, *enrollment.SessionID)
			if err != nil {
				return err
			}
			if session == nil {
				return fmt.Errorf("session %s: %w", *enrollment.SessionID, errs.ErrNotFound)
			}
		}

		existing, err := s.completions.GetByEnrollment(dbc, enrollment.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("completion already recorded for enrollment %s: %w", enrollment.ID, errs.ErrConflict)
		}

		totalSessions, err := s.sessions.CountByTraining(dbc, training.ID)
		if err != nil {
			return err
		}
		if totalSessions == 0 {
			return fmt.Errorf("training %s has no sessions: %w", training.ID, errs.ErrInvalidState)
		}
		attended, err := s.attendance.CountByEnrollmentAndStatus(dbc, enrollment.ID, learning.AttendanceStatusPresent)
		if err != nil {
			return err
		}
		hours, err := s.attendance.SumHoursByEnrollment(dbc, enrollment.ID)
		if err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		completion := &types.TrainingCompletion{
			UserID:               enrollment.UserID,
			TrainingID:           training.ID,
			EnrollmentID:         enrollment.ID,
			CompletedAt:          now,
			LearningHours:        hours,
			AttendancePercentage: attendancePercentage(attended, totalSessions),
			AssessmentScore:      in.AssessmentScore,
			Passed:               passed,
		}
		if _, err := s.completions.Create(dbc, []*types.TrainingCompletion{completion}); err != nil {
			if errors.Is(err, errs.ErrConflict) {
				return fmt.Errorf("completion already recorded for enrollment %s: %w", enrollment.ID, errs.ErrConflict)
			}
			return err
		}
		if err := s.enrollments.UpdateFields(dbc, enrollment.ID, map[string]interface{}{
			"status":                learning.EnrollmentStatusCompleted,
			"completed_at":          now,
			"completion_percentage": 100.0,
		}); err != nil {
			return err
		}
		if _, err := s.notifications.Notify(dbc, TrainingCompletedNotification(enrollment.UserID, training.Title)); err != nil {
			return err
		}
		out = completion
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	s.log.Info("completion recorded",
		"enrollment_id", out.EnrollmentID,
		"attendance_percentage", out.AttendancePercentage,
		"learning_hours", out.LearningHours,
	)
	return out, nil
}

// attendancePercentage is present/total*100; callers reject total == 0.
func attendancePercentage(present, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(present) / float64(total) * 100
}

func (s *completionService) Get(ctx context.Context, id uuid.UUID) (*types.TrainingCompletion, error) {
	c, err := s.completions.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("completion %s: %w", id, errs.ErrNotFound)
	}
	return c, nil
}

func (s *completionService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.TrainingCompletion, error) {
	return s.completions.ListByUser(dbctx.New(ctx), userID)
}

func (s *completionService) IssueCertificate(ctx context.Context, id uuid.UUID, url string) (*types.TrainingCompletion, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Passed {
		return nil, fmt.Errorf("completion %s was not passed: %w", id, errs.ErrInvalidState)
	}
	if url == "" {
		if s.certificates == nil {
			return nil, fmt.Errorf("certificate rendering unavailable: %w", errs.ErrInvalidState)
		}
		dbc := dbctx.New(ctx)
		u, err := s.users.GetByID(dbc, c.UserID)
		if err != nil {
			return nil, err
		}
		t, err := s.trainings.GetByID(dbc, c.TrainingID)
		if err != nil {
			return nil, err
		}
		if u == nil || t == nil {
			return nil, fmt.Errorf("certificate subject for completion %s: %w", id, errs.ErrNotFound)
		}
		url, err = s.certificates.Issue(ctx, CertificateInput{
			CompletionID:  c.ID,
			RecipientName: u.FullName,
			TrainingTitle: t.Title,
			Hours:         c.LearningHours,
			CompletedAt:   c.CompletedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("issue certificate: %w", err)
		}
	}
	if err := s.completions.UpdateFields(dbctx.New(ctx), c.ID, map[string]interface{}{
		"certificate_issued": true,
		"certificate_url":    url,
	}); err != nil {
		return nil, err
	}
	c.CertificateIssued = true
	c.CertificateURL = &url
	return c, nil
}
