package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/lnd-backend/internal/data/repos"
	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	errs "github.com/yungbote/lnd-backend/internal/pkg/errors"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

type CreateTrainingInput struct {
	Title              string
	Description        string
	Category           string
	DurationHours      float64
	MaxParticipants    int
	IsMandatory        bool
	RequiresApproval   bool
	Prerequisites      []string
	LearningObjectives []string
	MaterialsURL       string
	CreatedByID        *uuid.UUID
}

type CreateSessionInput struct {
	TrainingID      uuid.UUID
	SessionDate     time.Time
	StartTime       string
	EndTime         string
	Location        string
	InstructorName  string
	MaxParticipants int
}

type TrainingService interface {
	Create(ctx context.Context, in CreateTrainingInput) (*types.Training, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Training, error)
	// Submit moves DRAFT to PENDING_APPROVAL.
	Submit(ctx context.Context, id uuid.UUID) (*types.Training, error)
	Approve(ctx context.Context, id, approverID uuid.UUID) (*types.Training, error)
	Reject(ctx context.Context, id, approverID uuid.UUID, reason string) (*types.Training, error)
	ListPending(ctx context.Context, offset, limit int) ([]*types.Training, error)
	CreateSession(ctx context.Context, in CreateSessionInput) (*types.TrainingSession, error)
	ListSessions(ctx context.Context, trainingID uuid.UUID) ([]*types.TrainingSession, error)
}

type trainingService struct {
	db            *gorm.DB
	log           *logger.Logger
	clock         clock.Clock
	trainings     repos.TrainingRepo
	sessions      repos.TrainingSessionRepo
	users         repos.UserRepo
	notifications NotificationService
}

func NewTrainingService(
	db *gorm.DB,
	baseLog *logger.Logger,
	clk clock.Clock,
	trainings repos.TrainingRepo,
	sessions repos.TrainingSessionRepo,
	users repos.UserRepo,
	notifications NotificationService,
) TrainingService {
	return &trainingService{
		db:            db,
		log:           baseLog.With("service", "TrainingService"),
		clock:         clk,
		trainings:     trainings,
		sessions:      sessions,
		users:         users,
		notifications: notifications,
	}
}

func jsonList(items []string) (datatypes.JSON, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func (s *trainingService) Create(ctx context.Context, in CreateTrainingInput) (*types.Training, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("title required: %w", errs.ErrInvalidArgument)
	}
	if in.DurationHours <= 0 {
		return nil, fmt.Errorf("duration_hours must be positive: %w", errs.ErrInvalidArgument)
	}
	if in.MaxParticipants < 0 {
		return nil, fmt.Errorf("max_participants must not be negative: %w", errs.ErrInvalidArgument)
	}
	prereq, err := jsonList(in.Prerequisites)
	if err != nil {
		return nil, err
	}
	objectives, err := jsonList(in.LearningObjectives)
	if err != nil {
		return nil, err
	}
	t := &types.Training{
		Title:              title,
		Description:        in.Description,
		Category:           in.Category,
		DurationHours:      in.DurationHours,
		MaxParticipants:    in.MaxParticipants,
		IsMandatory:        in.IsMandatory,
		Status:             learning.TrainingStatusDraft,
		RequiresApproval:   in.RequiresApproval,
		Prerequisites:      prereq,
		LearningObjectives: objectives,
		CreatedByID:        in.CreatedByID,
	}
	if u := strings.TrimSpace(in.MaterialsURL); u != "" {
		t.MaterialsURL = &u
	}
	if _, err := s.trainings.Create(dbctx.New(ctx), []*types.Training{t}); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *trainingService) Get(ctx context.Context, id uuid.UUID) (*types.Training, error) {
	return s.mustGet(dbctx.New(ctx), id)
}

func (s *trainingService) mustGet(dbc dbctx.Context, id uuid.UUID) (*types.Training, error) {
	t, err := s.trainings.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("training %s: %w", id, errs.ErrNotFound)
	}
	return t, nil
}

func (s *trainingService) Submit(ctx context.Context, id uuid.UUID) (*types.Training, error) {
	var out *types.Training
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		t, err := s.mustGet(dbc, id)
		if err != nil {
			return err
		}
		if t.Status != learning.TrainingStatusDraft {
			return fmt.Errorf("training %s is %s, not DRAFT: %w", id, t.Status, errs.ErrInvalidState)
		}
		if err := s.trainings.UpdateFields(dbc, id, map[string]interface{}{"status": learning.TrainingStatusPendingApproval}); err != nil {
			return err
		}
		t.Status = learning.TrainingStatusPendingApproval
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *trainingService) Approve(ctx context.Context, id, approverID uuid.UUID) (*types.Training, error) {
	return s.review(ctx, id, approverID, func(dbc dbctx.Context, t *types.Training) error {
		now := s.clock.Now().UTC()
		if err := s.trainings.UpdateFields(dbc, t.ID, map[string]interface{}{
			"status":           learning.TrainingStatusApproved,
			"approved_by_id":   approverID,
			"approved_at":      now,
			"rejection_reason": nil,
		}); err != nil {
			return err
		}
		t.Status = learning.TrainingStatusApproved
		t.ApprovedByID = &approverID
		t.ApprovedAt = &now
		t.RejectionReason = nil
		if t.CreatedByID != nil {
			_, err := s.notifications.Notify(dbc, TrainingApprovedNotification(*t.CreatedByID, t.Title))
			return err
		}
		return nil
	})
}

func (s *trainingService) Reject(ctx context.Context, id, approverID uuid.UUID, reason string) (*types.Training, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("rejection reason required: %w", errs.ErrInvalidArgument)
	}
	return s.review(ctx, id, approverID, func(dbc dbctx.Context, t *types.Training) error {
		if err := s.trainings.UpdateFields(dbc, t.ID, map[string]interface{}{
			"status":           learning.TrainingStatusRejected,
			"rejection_reason": reason,
			"approved_by_id":   nil,
			"approved_at":      nil,
		}); err != nil {
			return err
		}
		t.Status = learning.TrainingStatusRejected
		t.RejectionReason = &reason
		t.ApprovedByID = nil
		t.ApprovedAt = nil
		if t.CreatedByID != nil {
			_, err := s.notifications.Notify(dbc, TrainingRejectedNotification(*t.CreatedByID, t.Title, reason))
			return err
		}
		return nil
	})
}

// review loads a PENDING_APPROVAL training and an admin reviewer, then applies fn.
func (s *trainingService) review(ctx context.Context, id, approverID uuid.UUID, fn func(dbctx.Context, *types.Training) error) (*types.Training, error) {
	var out *types.Training
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		approver, err := s.users.GetByID(dbc, approverID)
		if err != nil {
			return err
		}
		if approver == nil {
			return fmt.Errorf("reviewer %s: %w", approverID, errs.ErrNotFound)
		}
		if !approver.IsAdmin() {
			return fmt.Errorf("reviewer %s is not an admin: %w", approverID, errs.ErrUnauthorized)
		}
		t, err := s.mustGet(dbc, id)
		if err != nil {
			return err
		}
		if t.Status != learning.TrainingStatusPendingApproval {
			return fmt.Errorf("training %s is %s, not PENDING_APPROVAL: %w", id, t.Status, errs.ErrInvalidState)
		}
		if err := fn(dbc, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("training reviewed", "training_id", out.ID, "status", out.Status, "reviewer_id", approverID)
	return out, nil
}

func (s *trainingService) ListPending(ctx context.Context, offset, limit int) ([]*types.Training, error) {
	return s.trainings.ListByStatus(dbctx.New(ctx), learning.TrainingStatusPendingApproval, offset, limit)
}

func validClock(v string) bool {
	_, err := time.Parse("15:04", v)
	return err == nil
}

func (s *trainingService) CreateSession(ctx context.Context, in CreateSessionInput) (*types.TrainingSession, error) {
	if in.SessionDate.IsZero() {
		return nil, fmt.Errorf("session_date required: %w", errs.ErrInvalidArgument)
	}
	if !validClock(in.StartTime) || !validClock(in.EndTime) {
		return nil, fmt.Errorf("start_time and end_time must be HH:MM: %w", errs.ErrInvalidArgument)
	}
	if in.EndTime <= in.StartTime {
		return nil, fmt.Errorf("end_time must be after start_time: %w", errs.ErrInvalidArgument)
	}
	var out *types.TrainingSession
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		t, err := s.mustGet(dbc, in.TrainingID)
		if err != nil {
			return err
		}
		max := in.MaxParticipants
		if max <= 0 {
			max = t.MaxParticipants
		}
		session := &types.TrainingSession{
			TrainingID:      t.ID,
			SessionDate:     in.SessionDate,
			StartTime:       in.StartTime,
			EndTime:         in.EndTime,
			Location:        in.Location,
			InstructorName:  in.InstructorName,
			MaxParticipants: max,
		}
		if _, err := s.sessions.Create(dbc, []*types.TrainingSession{session}); err != nil {
			return err
		}
		out = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *trainingService) ListSessions(ctx context.Context, trainingID uuid.UUID) ([]*types.TrainingSession, error) {
	return s.sessions.ListByTraining(dbctx.New(ctx), trainingID)
}
