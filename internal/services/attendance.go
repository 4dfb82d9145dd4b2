package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lnd-backend/internal/data/repos"
	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	errs "github.com/yungbote/lnd-backend/internal/pkg/errors"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

type MarkAttendanceInput struct {
	SessionID    uuid.UUID
	EnrollmentID uuid.UUID
	// Date defaults to the session date.
	Date   time.Time
	Status learning.AttendanceStatus
	Hours  float64
	Notes  string
}

type UpdateAttendanceInput struct {
	Status *learning.AttendanceStatus
	Hours  *float64
	Notes  *string
}

type AttendanceService interface {
	Mark(ctx context.Context, in MarkAttendanceInput) (*types.Attendance, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID, offset, limit int) ([]*types.Attendance, error)
	ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*types.Attendance, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateAttendanceInput) (*types.Attendance, error)
}

type attendanceService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessions    repos.TrainingSessionRepo
	enrollments repos.EnrollmentRepo
	attendance  repos.AttendanceRepo
}

func NewAttendanceService(
	db *gorm.DB,
	baseLog *logger.Logger,
	sessions repos.TrainingSessionRepo,
	enrollments repos.EnrollmentRepo,
	attendance repos.AttendanceRepo,
) AttendanceService {
	return &attendanceService{
		db:          db,
		log:         baseLog.With("service", "AttendanceService"),
		sessions:    sessions,
		enrollments: enrollments,
		attendance:  attendance,
	}
}

func (s *attendanceService) Mark(ctx context.Context, in MarkAttendanceInput) (*types.Attendance, error) {
	if in.Status == "" {
		in.Status = learning.AttendanceStatusPresent
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("unknown attendance status %q: %w", in.Status, errs.ErrInvalidArgument)
	}
	if in.Hours < 0 {
		return nil, fmt.Errorf("hours_attended must not be negative: %w", errs.ErrInvalidArgument)
	}

	var out *types.Attendance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		session, err := s.sessions.GetByID(dbc, in.SessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return fmt.Errorf("session %s: %w", in.SessionID, errs.ErrNotFound)
		}
		enrollment, err := s.enrollments.GetByID(dbc, in.EnrollmentID)
		if err != nil {
			return err
		}
		if enrollment == nil {
			return fmt.Errorf("enrollment %s: %w", in.EnrollmentID, errs.ErrNotFound)
		}
		if enrollment.TrainingID != session.TrainingID {
			return fmt.Errorf("enrollment %s is not for session %s: %w", enrollment.ID, session.ID, errs.ErrInvalidArgument)
		}
		date := in.Date
		if date.IsZero() {
			date = session.SessionDate
		}
		a := &types.Attendance{
			UserID:         enrollment.UserID,
			SessionID:      session.ID,
			EnrollmentID:   enrollment.ID,
			AttendanceDate: date,
			Status:         in.Status,
			HoursAttended:  in.Hours,
		}
		if notes := strings.TrimSpace(in.Notes); notes != "" {
			a.Notes = &notes
		}
		if _, err := s.attendance.Create(dbc, []*types.Attendance{a}); err != nil {
			if errors.Is(err, errs.ErrConflict) {
				return fmt.Errorf("attendance already marked for %s: %w", learning.DateOnly(date).Format("2006-01-02"), errs.ErrConflict)
			}
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *attendanceService) ListBySession(ctx context.Context, sessionID uuid.UUID, offset, limit int) ([]*types.Attendance, error) {
	return s.attendance.ListBySession(dbctx.New(ctx), sessionID, offset, limit)
}

func (s *attendanceService) ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*types.Attendance, error) {
	return s.attendance.ListByEnrollment(dbctx.New(ctx), enrollmentID)
}

func (s *attendanceService) Update(ctx context.Context, id uuid.UUID, in UpdateAttendanceInput) (*types.Attendance, error) {
	updates := map[string]interface{}{}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("unknown attendance status %q: %w", *in.Status, errs.ErrInvalidArgument)
		}
		updates["status"] = *in.Status
	}
	if in.Hours != nil {
		if *in.Hours < 0 {
			return nil, fmt.Errorf("hours_attended must not be negative: %w", errs.ErrInvalidArgument)
		}
		updates["hours_attended"] = *in.Hours
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}

	var out *types.Attendance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		a, err := s.attendance.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if a == nil {
			return fmt.Errorf("attendance %s: %w", id, errs.ErrNotFound)
		}
		if len(updates) > 0 {
			if err := s.attendance.UpdateFields(dbc, id, updates); err != nil {
				return err
			}
		}
		out, err = s.attendance.GetByID(dbc, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
