package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lnd-backend/internal/data/repos"
	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/domain/notification"
	"github.com/yungbote/lnd-backend/internal/observability"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
	"github.com/yungbote/lnd-backend/internal/platform/sendgrid"
)

// NotificationInput is one in-app notification. ActionURL is optional.
type NotificationInput struct {
	UserID    uuid.UUID
	Type      notification.Type
	Title     string
	Message   string
	ActionURL string
}

type NotificationService interface {
	// Notify records the notification on dbc (joining the caller's
	// transaction when there is one). Email delivery is best-effort.
	Notify(dbc dbctx.Context, in NotificationInput) (*types.Notification, error)
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, offset, limit int) ([]*types.Notification, error)
	// MarkRead is a no-op for unknown ids.
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type notificationService struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.NotificationRepo
	userRepo repos.UserRepo
	mailer   sendgrid.Mailer
	metrics  *observability.Metrics
}

func NewNotificationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	repo repos.NotificationRepo,
	userRepo repos.UserRepo,
	mailer sendgrid.Mailer,
	metrics *observability.Metrics,
) NotificationService {
	return &notificationService{
		db:       db,
		log:      baseLog.With("service", "NotificationService"),
		repo:     repo,
		userRepo: userRepo,
		mailer:   mailer,
		metrics:  metrics,
	}
}

func (s *notificationService) Notify(dbc dbctx.Context, in NotificationInput) (*types.Notification, error) {
	if in.UserID == uuid.Nil {
		return nil, fmt.Errorf("notify: missing user id")
	}
	n := &types.Notification{
		UserID:  in.UserID,
		Type:    in.Type,
		Title:   in.Title,
		Message: in.Message,
	}
	if in.ActionURL != "" {
		url := in.ActionURL
		n.ActionURL = &url
	}
	if _, err := s.repo.Create(dbc, []*types.Notification{n}); err != nil {
		return nil, err
	}
	s.metrics.IncNotification(string(in.Type))
	s.deliverEmail(dbc, n)
	return n, nil
}

func (s *notificationService) deliverEmail(dbc dbctx.Context, n *types.Notification) {
	if s.mailer == nil {
		return
	}
	u, err := s.userRepo.GetByID(dbc, n.UserID)
	if err != nil || u == nil || strings.TrimSpace(u.Email) == "" {
		if err != nil {
			s.log.Warn("email lookup failed", "user_id", n.UserID, "error", err)
		}
		return
	}
	if err := s.mailer.Send(dbc.Ctx, sendgrid.Message{
		ToEmail: u.Email,
		ToName:  u.FullName,
		Subject: n.Title,
		Text:    n.Message,
	}); err != nil {
		s.log.Warn("email delivery failed", "user_id", n.UserID, "type", n.Type, "error", err)
	}
}

func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, offset, limit int) ([]*types.Notification, error) {
	return s.repo.ListByUser(dbctx.New(ctx), userID, unreadOnly, offset, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	updated, err := s.repo.MarkRead(dbctx.New(ctx), id)
	if err != nil {
		return err
	}
	if !updated {
		s.log.Debug("mark read: no such notification", "notification_id", id)
	}
	return nil
}

func formatHours(h float64) string {
	s := strconv.FormatFloat(h, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func BadgeEarnedNotification(userID uuid.UUID, tier learning.BadgeType, hours float64, year int) NotificationInput {
	return NotificationInput{
		UserID: userID,
		Type:   notification.TypeBadgeEarned,
		Title:  fmt.Sprintf("%s Badge Earned!", tier),
		Message: fmt.Sprintf("Congratulations! You've earned a %s badge for completing %s learning hours in %d!",
			tier, formatHours(hours), year),
		ActionURL: "/badges",
	}
}

func SessionReminderNotification(userID uuid.UUID, trainingTitle string, session *types.TrainingSession) NotificationInput {
	return NotificationInput{
		UserID: userID,
		Type:   notification.TypeSessionReminder,
		Title:  "Upcoming Training Session",
		Message: fmt.Sprintf("Reminder: '%s' is scheduled for %s at %s",
			trainingTitle, session.SessionDate.UTC().Format("2006-01-02"), session.StartTime),
		ActionURL: "/sessions",
	}
}

func EnrollmentConfirmedNotification(userID uuid.UUID, trainingTitle string) NotificationInput {
	return NotificationInput{
		UserID:    userID,
		Type:      notification.TypeSessionScheduled,
		Title:     "Enrollment Confirmed",
		Message:   fmt.Sprintf("You have been successfully enrolled in '%s'", trainingTitle),
		ActionURL: "/trainings",
	}
}

func TrainingAssignedNotification(userID uuid.UUID, trainingTitle, assignedBy string) NotificationInput {
	if assignedBy == "" {
		assignedBy = "Manager"
	}
	return NotificationInput{
		UserID:    userID,
		Type:      notification.TypeTrainingAssigned,
		Title:     "New Training Assigned",
		Message:   fmt.Sprintf("%s has assigned you to the training: %s", assignedBy, trainingTitle),
		ActionURL: "/trainings",
	}
}

func TrainingApprovedNotification(userID uuid.UUID, trainingTitle string) NotificationInput {
	return NotificationInput{
		UserID:    userID,
		Type:      notification.TypeTrainingApproved,
		Title:     "Training Approved",
		Message:   fmt.Sprintf("Your training '%s' has been approved!", trainingTitle),
		ActionURL: "/trainings",
	}
}

func TrainingRejectedNotification(userID uuid.UUID, trainingTitle, reason string) NotificationInput {
	return NotificationInput{
		UserID:    userID,
		Type:      notification.TypeTrainingRejected,
		Title:     "Training Rejected",
		Message:   fmt.Sprintf("Your training '%s' was rejected. Reason: %s", trainingTitle, reason),
		ActionURL: "/trainings",
	}
}

func TrainingCompletedNotification(userID uuid.UUID, trainingTitle string) NotificationInput {
	return NotificationInput{
		UserID:    userID,
		Type:      notification.TypeTrainingCompleted,
		Title:     "Training Completed",
		Message:   fmt.Sprintf("You have completed '%s'", trainingTitle),
		ActionURL: "/completions",
	}
}
