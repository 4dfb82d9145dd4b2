package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

type BadgeRepo interface {
	// Create fails with ErrConflict when the user already holds a badge for that year.
	Create(dbc dbctx.Context, badges []*types.Badge) ([]*types.Badge, error)
	GetByUserAndYear(dbc dbctx.Context, userID uuid.UUID, year int) (*types.Badge, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Badge, error)
	ListByYear(dbc dbctx.Context, year int, offset, limit int) ([]*types.Badge, error)
	CountByTypeForUser(dbc dbctx.Context, userID uuid.UUID) (map[learning.BadgeType]int, error)
}

type badgeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBadgeRepo(db *gorm.DB, baseLog *logger.Logger) BadgeRepo {
	return &badgeRepo{db: db, log: baseLog.With("repo", "BadgeRepo")}
}

func (r *badgeRepo) Create(dbc dbctx.Context, badges []*types.Badge) ([]*types.Badge, error) {
	if len(badges) == 0 {
		return []*types.Badge{}, nil
	}
	if err := pick(r.db, dbc).Create(&badges).Error; err != nil {
		return nil, translate(err)
	}
	return badges, nil
}

func (r *badgeRepo) GetByUserAndYear(dbc dbctx.Context, userID uuid.UUID, year int) (*types.Badge, error) {
	return takeOne[types.Badge](pick(r.db, dbc).Where("user_id = ? AND year_earned = ?", userID, year))
}

func (r *badgeRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Badge, error) {
	var out []*types.Badge
	if err := pick(r.db, dbc).
		Where("user_id = ?", userID).
		Order("year_earned DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *badgeRepo) ListByYear(dbc dbctx.Context, year int, offset, limit int) ([]*types.Badge, error) {
	var out []*types.Badge
	q := pick(r.db, dbc).Where("year_earned = ?", year).Order("hours_completed DESC")
	if err := page(q, offset, limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type badgeCountRow struct {
	BadgeType learning.BadgeType
	N         int
}

func (r *badgeRepo) CountByTypeForUser(dbc dbctx.Context, userID uuid.UUID) (map[learning.BadgeType]int, error) {
	var rows []badgeCountRow
	if err := pick(r.db, dbc).
		Model(&types.Badge{}).
		Select("badge_type, COUNT(*) AS n").
		Where("user_id = ?", userID).
		Group("badge_type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[learning.BadgeType]int, len(learning.BadgeTiers))
	for _, tier := range learning.BadgeTiers {
		out[tier.Type] = 0
	}
	for _, row := range rows {
		out[row.BadgeType] = row.N
	}
	return out, nil
}
