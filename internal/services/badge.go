package services

import (
	"context"
	"errors"
	"fmt"
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

// YearlyAwardResult summarizes one pass of the yearly awarder.
type YearlyAwardResult struct {
	Year           int `json:"year"`
	Candidates     int `json:"candidates"`
	Awarded        int `json:"awarded"`
	AlreadyAwarded int `json:"already_awarded"`
	BelowThreshold int `json:"below_threshold"`
	Failed         int `json:"failed"`
}

type BadgeStatistics struct {
	UserID               uuid.UUID                  `json:"user_id"`
	TotalBadges          int                        `json:"total_badges"`
	ByType               map[learning.BadgeType]int `json:"badges_by_type"`
	CurrentYear          int                        `json:"current_year"`
	CurrentYearHours     float64                    `json:"current_year_hours"`
	CurrentYearTrainings int                        `json:"current_year_trainings"`
	NextTier             *learning.BadgeType        `json:"next_badge_tier"`
	HoursToNextTier      float64                    `json:"hours_to_next_tier"`
}

type BadgeService interface {
	AwardForYear(ctx context.Context, userID uuid.UUID, year int) (*types.Badge, error)
	// AwardYearly awards badges for every user with completions in year.
	// Per-user failures are logged and counted, never returned.
	AwardYearly(ctx context.Context, year int) (*YearlyAwardResult, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Badge, error)
	ListForYear(ctx context.Context, year, offset, limit int) ([]*types.Badge, error)
	Statistics(ctx context.Context, userID uuid.UUID) (*BadgeStatistics, error)
}

type badgeService struct {
	db            *gorm.DB
	log           *logger.Logger
	clock         clock.Clock
	badges        repos.BadgeRepo
	completions   repos.TrainingCompletionRepo
	notifications NotificationService
}

func NewBadgeService(
	db *gorm.DB,
	baseLog *logger.Logger,
	clk clock.Clock,
	badges repos.BadgeRepo,
	completions repos.TrainingCompletionRepo,
	notifications NotificationService,
) BadgeService {
	return &badgeService{
		db:            db,
		log:           baseLog.With("service", "BadgeService"),
		clock:         clk,
		badges:        badges,
		completions:   completions,
		notifications: notifications,
	}
}

func yearBounds(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

var errBelowThreshold = errors.New("below badge threshold")

func (s *badgeService) AwardForYear(ctx context.Context, userID uuid.UUID, year int) (*types.Badge, error) {
	ctx, span := observability.Tracer().Start(ctx, "badge.award_for_year")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID.String()), attribute.Int("year", year))

	var out *types.Badge
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := s.badges.GetByUserAndYear(dbc, userID, year)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("badge already awarded for %d: %w", year, errs.ErrConflict)
		}
		from, to := yearBounds(year)
		sum, err := s.completions.SumForUserInRange(dbc, userID, from, to)
		if err != nil {
			return err
		}
		if sum.Trainings == 0 {
			return fmt.Errorf("no completions in %d: %w", year, errs.ErrInvalidState)
		}
		sum.UserID = userID
		b, err := s.award(dbc, year, sum)
		if errors.Is(err, errBelowThreshold) {
			return fmt.Errorf("%s hours in %d is below the lowest tier: %w", formatHours(sum.TotalHours), year, errs.ErrInvalidState)
		}
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return out, nil
}

// award inserts the badge and its notification on dbc.
func (s *badgeService) award(dbc dbctx.Context, year int, sum repos.UserHours) (*types.Badge, error) {
	tier, ok := learning.ResolveBadgeTier(sum.TotalHours)
	if !ok {
		return nil, errBelowThreshold
	}
	b := &types.Badge{
		UserID:             sum.UserID,
		BadgeType:          tier,
		YearEarned:         year,
		HoursCompleted:     sum.TotalHours,
		TrainingsCompleted: sum.Trainings,
		AwardedAt:          s.clock.Now().UTC(),
	}
	if _, err := s.badges.Create(dbc, []*types.Badge{b}); err != nil {
		return nil, err
	}
	if _, err := s.notifications.Notify(dbc, BadgeEarnedNotification(sum.UserID, tier, sum.TotalHours, year)); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *badgeService) AwardYearly(ctx context.Context, year int) (*YearlyAwardResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "badge.award_yearly")
	defer span.End()
	span.SetAttributes(attribute.Int("year", year))

	from, to := yearBounds(year)
	totals, err := s.completions.SumByUserInRange(dbctx.New(ctx), from, to)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("load completions for %d: %w", year, err)
	}

	res := &YearlyAwardResult{Year: year, Candidates: len(totals)}
	for _, sum := range totals {
		awarded, err := s.awardOne(ctx, year, sum)
		switch {
		case errors.Is(err, errBelowThreshold):
			res.BelowThreshold++
		case errors.Is(err, errs.ErrConflict):
			res.AlreadyAwarded++
		case err != nil:
			res.Failed++
			s.log.Error("yearly badge award failed", "user_id", sum.UserID, "year", year, "error", err)
		case awarded:
			res.Awarded++
		default:
			res.AlreadyAwarded++
		}
	}
	s.log.Info("yearly badges processed",
		"year", year,
		"candidates", res.Candidates,
		"awarded", res.Awarded,
		"already_awarded", res.AlreadyAwarded,
		"below_threshold", res.BelowThreshold,
		"failed", res.Failed,
	)
	return res, nil
}

// awardOne runs in its own transaction so committed badges survive a later failure.
func (s *badgeService) awardOne(ctx context.Context, year int, sum repos.UserHours) (bool, error) {
	awarded := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := s.badges.GetByUserAndYear(dbc, sum.UserID, year)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
		if _, err := s.award(dbc, year, sum); err != nil {
			return err
		}
		awarded = true
		return nil
	})
	return awarded, err
}

func (s *badgeService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Badge, error) {
	return s.badges.ListByUser(dbctx.New(ctx), userID)
}

func (s *badgeService) ListForYear(ctx context.Context, year, offset, limit int) ([]*types.Badge, error) {
	return s.badges.ListByYear(dbctx.New(ctx), year, offset, limit)
}

func (s *badgeService) Statistics(ctx context.Context, userID uuid.UUID) (*BadgeStatistics, error) {
	dbc := dbctx.New(ctx)
	byType, err := s.badges.CountByTypeForUser(dbc, userID)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range byType {
		total += n
	}
	year := s.clock.Now().UTC().Year()
	from, to := yearBounds(year)
	sum, err := s.completions.SumForUserInRange(dbc, userID, from, to)
	if err != nil {
		return nil, err
	}
	stats := &BadgeStatistics{
		UserID:               userID,
		TotalBadges:          total,
		ByType:               byType,
		CurrentYear:          year,
		CurrentYearHours:     sum.TotalHours,
		CurrentYearTrainings: sum.Trainings,
	}
	if next, remaining, ok := learning.NextBadgeTier(sum.TotalHours); ok {
		t := next.Type
		stats.NextTier = &t
		stats.HoursToNextTier = remaining
	}
	return stats, nil
}

func (r *YearlyAwardResult) Units() map[string]int {
	return map[string]int{
		"awarded":         r.Awarded,
		"already_awarded": r.AlreadyAwarded,
		"below_threshold": r.BelowThreshold,
		"failed":          r.Failed,
	}
}
