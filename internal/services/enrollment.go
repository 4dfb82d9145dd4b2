package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lnd-backend/internal/data/repos"
	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	errs "github.com/yungbote/lnd-backend/internal/pkg/errors"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

type EnrollInput struct {
	UserID     uuid.UUID
	TrainingID uuid.UUID
	SessionID  *uuid.UUID
}

type AssignInput struct {
	ManagerID  uuid.UUID
	UserID     uuid.UUID
	TrainingID uuid.UUID
	SessionID  *uuid.UUID
}

type EnrollmentService interface {
	Enroll(ctx context.Context, in EnrollInput) (*types.Enrollment, error)
	// Assign enrolls a direct report (or anyone, for admins) on a manager's behalf.
	Assign(ctx context.Context, in AssignInput) (*types.Enrollment, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Enrollment, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Enrollment, error)
	// UpdateStatus only accepts DROPPED and FAILED; other transitions are driven
	// by progress and completion.
	UpdateStatus(ctx context.Context, id uuid.UUID, status learning.EnrollmentStatus) (*types.Enrollment, error)
}

type enrollmentService struct {
	db            *gorm.DB
	log           *logger.Logger
	clock         clock.Clock
	users         repos.UserRepo
	trainings     repos.TrainingRepo
	sessions      repos.TrainingSessionRepo
	enrollments   repos.EnrollmentRepo
	notifications NotificationService
}

func NewEnrollmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	clk clock.Clock,
	users repos.UserRepo,
	trainings repos.TrainingRepo,
	sessions repos.TrainingSessionRepo,
	enrollments repos.EnrollmentRepo,
	notifications NotificationService,
) EnrollmentService {
	return &enrollmentService{
		db:            db,
		log:           baseLog.With("service", "EnrollmentService"),
		clock:         clk,
		users:         users,
		trainings:     trainings,
		sessions:      sessions,
		enrollments:   enrollments,
		notifications: notifications,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, in EnrollInput) (*types.Enrollment, error) {
	var out *types.Enrollment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		training, err := s.prepare(dbc, in.UserID, in.TrainingID, in.SessionID)
		if err != nil {
			return err
		}
		e := &types.Enrollment{
			UserID:     in.UserID,
			TrainingID: training.ID,
			SessionID:  in.SessionID,
			Status:     learning.EnrollmentStatusEnrolled,
		}
		if err := s.create(dbc, e); err != nil {
			return err
		}
		if _, err := s.notifications.Notify(dbc, EnrollmentConfirmedNotification(in.UserID, training.Title)); err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *enrollmentService) Assign(ctx context.Context, in AssignInput) (*types.Enrollment, error) {
	var out *types.Enrollment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		manager, err := s.users.GetByID(dbc, in.ManagerID)
		if err != nil {
			return err
		}
		if manager == nil {
			return fmt.Errorf("manager %s: %w", in.ManagerID, errs.ErrNotFound)
		}
		report, err := s.users.GetByID(dbc, in.UserID)
		if err != nil {
			return err
		}
		if report == nil {
			return fmt.Errorf("user %s: %w", in.UserID, errs.ErrNotFound)
		}
		managesReport := report.ManagerID != nil && *report.ManagerID == manager.ID
		if !manager.IsAdmin() && !managesReport {
			return fmt.Errorf("%s does not manage %s: %w", manager.ID, report.ID, errs.ErrUnauthorized)
		}
		training, err := s.prepare(dbc, in.UserID, in.TrainingID, in.SessionID)
		if err != nil {
			return err
		}
		now := s.clock.Now().UTC()
		e := &types.Enrollment{
			UserID:       in.UserID,
			TrainingID:   training.ID,
			SessionID:    in.SessionID,
			Status:       learning.EnrollmentStatusEnrolled,
			IsAssigned:   true,
			AssignedByID: &manager.ID,
			AssignedAt:   &now,
		}
		if err := s.create(dbc, e); err != nil {
			return err
		}
		if _, err := s.notifications.Notify(dbc, TrainingAssignedNotification(in.UserID, training.Title, manager.FullName)); err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// prepare checks the training and optional session exist and that the user
// holds no live enrollment for the training.
func (s *enrollmentService) prepare(dbc dbctx.Context, userID, trainingID uuid.UUID, sessionID *uuid.UUID) (*types.Training, error) {
	training, err := s.trainings.GetByID(dbc, trainingID)
	if err != nil {
		return nil, err
	}
	if training == nil {
		return nil, fmt.Errorf("training %s: %w", trainingID, errs.ErrNotFound)
	}
	if sessionID != nil {
		session, err := s.sessions.GetByID(dbc, *sessionID)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, fmt.Errorf("session %s: %w", *sessionID, errs.ErrNotFound)
		}
		if session.TrainingID != training.ID {
			return nil, fmt.Errorf("session %s belongs to another training: %w", session.ID, errs.ErrInvalidArgument)
		}
	}
	existing, err := s.enrollments.GetByUserAndTraining(dbc, userID, trainingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("already enrolled in %s: %w", training.ID, errs.ErrConflict)
	}
	return training, nil
}

func (s *enrollmentService) create(dbc dbctx.Context, e *types.Enrollment) error {
	if _, err := s.enrollments.Create(dbc, []*types.Enrollment{e}); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return fmt.Errorf("already enrolled in %s: %w", e.TrainingID, errs.ErrConflict)
		}
		return err
	}
	return nil
}

func (s *enrollmentService) Get(ctx context.Context, id uuid.UUID) (*types.Enrollment, error) {
	e, err := s.enrollments.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("enrollment %s: %w", id, errs.ErrNotFound)
	}
	return e, nil
}

func (s *enrollmentService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Enrollment, error) {
	return s.enrollments.ListByUser(dbctx.New(ctx), userID)
}

func (s *enrollmentService) UpdateStatus(ctx context.Context, id uuid.UUID, status learning.EnrollmentStatus) (*types.Enrollment, error) {
	if status != learning.EnrollmentStatusDropped && status != learning.EnrollmentStatusFailed {
		return nil, fmt.Errorf("status %q cannot be set manually: %w", status, errs.ErrInvalidArgument)
	}
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.enrollments.UpdateFields(dbctx.New(ctx), e.ID, map[string]interface{}{"status": status}); err != nil {
		return nil, err
	}
	e.Status = status
	return e, nil
}
