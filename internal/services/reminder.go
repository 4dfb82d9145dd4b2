package services

import (
	"context"
	"fmt"

	"github.com/facebookgo/clock"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/yungbote/lnd-backend/internal/data/repos"
	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/observability"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

type ReminderResult struct {
	Date     string `json:"date"`
	Sessions int    `json:"sessions"`
	Sent     int    `json:"sent"`
	Failed   int    `json:"failed"`
}

type ReminderService interface {
	// SendForTomorrow notifies every user enrolled in a training that has a
	// session on the next UTC calendar day.
	SendForTomorrow(ctx context.Context) (*ReminderResult, error)
}

type reminderService struct {
	db            *gorm.DB
	log           *logger.Logger
	clock         clock.Clock
	sessions      repos.TrainingSessionRepo
	trainings     repos.TrainingRepo
	enrollments   repos.EnrollmentRepo
	notifications NotificationService
}

func NewReminderService(
	db *gorm.DB,
	baseLog *logger.Logger,
	clk clock.Clock,
	sessions repos.TrainingSessionRepo,
	trainings repos.TrainingRepo,
	enrollments repos.EnrollmentRepo,
	notifications NotificationService,
) ReminderService {
	return &reminderService{
		db:            db,
		log:           baseLog.With("service", "ReminderService"),
		clock:         clk,
		sessions:      sessions,
		trainings:     trainings,
		enrollments:   enrollments,
		notifications: notifications,
	}
}

func (s *reminderService) SendForTomorrow(ctx context.Context) (*ReminderResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "reminder.send_for_tomorrow")
	defer span.End()

	tomorrow := learning.DateOnly(s.clock.Now().UTC()).AddDate(0, 0, 1)
	res := &ReminderResult{Date: tomorrow.Format("2006-01-02")}
	span.SetAttributes(attribute.String("date", res.Date))

	dbc := dbctx.New(ctx)
	sessions, err := s.sessions.ListOnDate(dbc, tomorrow)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list sessions on %s: %w", res.Date, err)
	}
	res.Sessions = len(sessions)

	for _, session := range sessions {
		training, err := s.trainings.GetByID(dbc, session.TrainingID)
		if err != nil {
			s.log.Error("reminder: load training failed", "session_id", session.ID, "error", err)
			continue
		}
		if training == nil {
			s.log.Warn("reminder: training missing", "session_id", session.ID, "training_id", session.TrainingID)
			continue
		}
		enrollments, err := s.enrollments.ListByTraining(dbc, training.ID)
		if err != nil {
			s.log.Error("reminder: list enrollments failed", "training_id", training.ID, "error", err)
			continue
		}
		for _, e := range enrollments {
			if _, err := s.notifications.Notify(dbc, SessionReminderNotification(e.UserID, training.Title, session)); err != nil {
				res.Failed++
				s.log.Error("reminder: notify failed", "user_id", e.UserID, "session_id", session.ID, "error", err)
				continue
			}
			res.Sent++
		}
	}
	s.log.Info("session reminders processed",
		"date", res.Date,
		"sessions", res.Sessions,
		"sent", res.Sent,
		"failed", res.Failed,
	)
	return res, nil
}

func (r *ReminderResult) Units() map[string]int {
	return map[string]int{"sent": r.Sent, "failed": r.Failed}
}
